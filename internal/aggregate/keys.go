package aggregate

import (
	"fmt"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// KeyFunc extracts the grouping key of a classified mention.
type KeyFunc func(model.ClassifiedMention) string

// Dimension names a built-in grouping.
type Dimension string

// Built-in dimensions.
const (
	DimensionCountry  Dimension = "country"
	DimensionPlatform Dimension = "platform"
	DimensionSource   Dimension = "source"
	DimensionDay      Dimension = "day"
	DimensionTopic    Dimension = "topic"
	DimensionEmotion  Dimension = "emotion"
)

// Dimensions returns every built-in dimension.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionCountry, DimensionPlatform, DimensionSource,
		DimensionDay, DimensionTopic, DimensionEmotion,
	}
}

// KeyFor returns the key function of a built-in dimension.
func KeyFor(d Dimension) (KeyFunc, error) {
	switch Dimension(strings.ToLower(string(d))) {
	case DimensionCountry:
		return ByCountry, nil
	case DimensionPlatform:
		return ByPlatform, nil
	case DimensionSource:
		return BySourceType, nil
	case DimensionDay:
		return ByDay, nil
	case DimensionTopic:
		return ByDominantTopic, nil
	case DimensionEmotion:
		return ByDominantEmotion, nil
	}
	return nil, fmt.Errorf("%w: unknown dimension %q", common.ErrInvalidInput, d)
}

// ByCountry groups by country label.
func ByCountry(cm model.ClassifiedMention) string {
	return orUnknown(cm.Mention.Country)
}

// ByPlatform groups by platform label.
func ByPlatform(cm model.ClassifiedMention) string {
	return orUnknown(cm.Mention.Platform)
}

// BySourceType groups by the classified source type.
func BySourceType(cm model.ClassifiedMention) string {
	return orUnknown(cm.Classification.SourceType)
}

// ByDay groups by UTC calendar day.
func ByDay(cm model.ClassifiedMention) string {
	if cm.Mention.Timestamp.IsZero() {
		return model.UnknownGroupKey
	}
	return cm.Mention.Timestamp.UTC().Format("2006-01-02")
}

// ByDominantTopic groups by the highest-scoring topic.
func ByDominantTopic(cm model.ClassifiedMention) string {
	if topic, ok := cm.Classification.DominantTopic(); ok {
		return topic.Category
	}
	return model.UnknownGroupKey
}

// ByDominantEmotion groups by the highest-scoring emotion.
func ByDominantEmotion(cm model.ClassifiedMention) string {
	if emotion, ok := cm.Classification.DominantEmotion(); ok {
		return emotion.Category
	}
	return model.UnknownGroupKey
}

func orUnknown(s string) string {
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return trimmed
	}
	return model.UnknownGroupKey
}
