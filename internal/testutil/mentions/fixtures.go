package mentions

import (
	"testing"

	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// Countries used by the dashboard scenario.
var Countries = []string{"France", "Germany", "Japan"}

// Platforms used by the dashboard scenario.
var Platforms = []string{"Twitter", "Facebook", "BBC News", "CNN"}

// DashboardScenario returns 100 mentions spread round-robin over three countries and
// four platforms; 60 carry a "Positive" label and 40 a "Negative" label.
func DashboardScenario(t *testing.T) []model.Mention {
	t.Helper()
	b := NewBuilder(t)
	for i := 0; i < 100; i++ {
		label := "Positive"
		if i >= 60 {
			label = "Negative"
		}
		b.With(model.Mention{
			Label:    label,
			Country:  Countries[i%len(Countries)],
			Platform: Platforms[i%len(Platforms)],
			Likes:    i % 7,
			Shares:   i % 3,
			Comments: i % 5,
		})
	}
	return b.Build()
}

// DistinctPlatforms returns n mentions, each on its own platform.
func DistinctPlatforms(t *testing.T, n int) []model.Mention {
	t.Helper()
	b := NewBuilder(t)
	for i := 0; i < n; i++ {
		b.With(model.Mention{Platform: platformName(i), Label: "neutral"})
	}
	return b.Build()
}

func platformName(i int) string {
	return "platform-" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
