package model

// Source type categories, in classification priority order.
const (
	SourceSocialMedia = "social-media"
	SourceNews        = "news"
	SourceTV          = "tv"
	SourceOther       = "other"
)

// Classification holds the rule-based categorization of one mention across every taxonomy.
type Classification struct {
	SourceType string `json:"sourceType"`
	Topics     Scores `json:"topics,omitempty"`
	Emotions   Scores `json:"emotions,omitempty"`
	Policies   Scores `json:"policies,omitempty"`
}

// DominantTopic returns the highest-scoring topic, if any matched.
func (c Classification) DominantTopic() (Score, bool) {
	return c.Topics.Dominant()
}

// DominantEmotion returns the highest-scoring emotion, if any matched.
func (c Classification) DominantEmotion() (Score, bool) {
	return c.Emotions.Dominant()
}

// ClassifiedMention pairs a mention with its classification and sentiment bucket.
type ClassifiedMention struct {
	Classification Classification `json:"classification"`
	Bucket         Bucket         `json:"bucket,omitempty"`
	Mention        Mention        `json:"mention"`
	HasBucket      bool           `json:"hasBucket"`
}
