package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactMatcher(t *testing.T) {
	m := NewExactMatcher([]string{"twitter", "x", "al jazeera"})

	tests := []struct {
		candidate string
		want      bool
	}{
		{candidate: "twitter", want: true},
		{candidate: "x", want: true},
		{candidate: "twitter.com", want: true},
		{candidate: "via twitter", want: true},
		{candidate: "al jazeera english", want: true},
		{candidate: "twitterverse", want: false},
		{candidate: "fox news", want: false},
		{candidate: "xbox", want: false},
		{candidate: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.candidate))
		})
	}
	assert.Equal(t, StrategyExact, m.Name())
}

func TestExactMatcher_LaterOccurrenceBounded(t *testing.T) {
	m := NewExactMatcher([]string{"news"})

	// The first occurrence is embedded in a word; the second is bounded.
	assert.True(t, m.Match("newsletter news"))
	assert.False(t, m.Match("newsletter"))
}

func TestFragmentMatcher(t *testing.T) {
	m := NewFragmentMatcher([]string{".news", "news.", "bbc.co.uk"})

	assert.True(t, m.Match("sky.news"))
	assert.True(t, m.Match("news.google.com"))
	assert.True(t, m.Match("https://www.bbc.co.uk/sport"))
	assert.False(t, m.Match("newsroom"))
	assert.Equal(t, StrategyFragment, m.Name())
}

func TestWordMatcher(t *testing.T) {
	m, err := NewWordMatcher([]string{"tweet", "social"})
	require.NoError(t, err)

	assert.True(t, m.Match("a tweet by the minister"))
	assert.True(t, m.Match("Social Feed"))
	assert.False(t, m.Match("tweets"))
	assert.False(t, m.Match("antisocial"))
	assert.Equal(t, StrategyWord, m.Name())

	_, err = NewWordMatcher(nil)
	assert.Error(t, err)
}

func TestWordMatcher_QuotesMetacharacters(t *testing.T) {
	m, err := NewWordMatcher([]string{"c++"})
	require.NoError(t, err)

	assert.False(t, m.Match("ccc"))
}

func TestSubstringCounter(t *testing.T) {
	c := NewSubstringCounter([]string{"market", "trade"})

	assert.Equal(t, 3, c.Count("market trade and supermarket"))
	assert.Equal(t, 0, c.Count(""))
}

func TestWordCounter(t *testing.T) {
	c, err := NewWordCounter([]string{"frustrated", "fed up"})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Count("Frustrated, FRUSTRATED and fed up"))
	assert.Equal(t, 0, c.Count("unfrustrated"))
}
