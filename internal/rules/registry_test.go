package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, registry.Version())
	assert.Equal(t, []string{"social-media", "news", "tv", "other"}, registry.Names(TaxonomySourceType))
	assert.Equal(t, []string{
		"politics", "economy", "sports", "diplomacy",
		"technology", "culture", "education", "healthcare",
	}, registry.Names(TaxonomyTopic))
	assert.Equal(t, []string{
		"confidence", "trust", "satisfaction", "concern",
		"frustration", "disappointment", "policy-optimism", "policy-skepticism",
	}, registry.Names(TaxonomyEmotion))
	assert.NotEmpty(t, registry.Policies())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, registry, again, "default registry should be loaded once")
}

func TestRegistry_CategoriesAreCopies(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	topics := registry.Topics()
	topics[0].Keywords[0] = "mutated"
	topics[0].Name = "mutated"

	fresh := registry.Topics()
	assert.Equal(t, "politics", fresh[0].Name)
	assert.NotEqual(t, "mutated", fresh[0].Keywords[0])
}

func TestParse_Normalizes(t *testing.T) {
	registry, err := Parse([]byte(`
version: 1
source_types:
  - name: " social-media "
    keywords: ["  Twitter "]
    domains: ["X.COM"]
topics:
  - name: politics
    keywords: [Government]
emotions:
  - name: trust
    keywords: [Trust]
policies:
  - name: reform
    keywords: [Tax Reform]
`))
	require.NoError(t, err)

	sources := registry.SourceTypes()
	require.Len(t, sources, 1)
	assert.Equal(t, "social-media", sources[0].Name)
	assert.Equal(t, []string{"twitter"}, sources[0].Keywords)
	assert.Equal(t, []string{"x.com"}, sources[0].Domains)
	assert.Equal(t, []string{"tax reform"}, registry.Policies()[0].Keywords)
}

func TestParse_Errors(t *testing.T) {
	const valid = `
topics:
  - name: politics
    keywords: [government]
emotions:
  - name: trust
    keywords: [trust]
policies:
  - name: reform
    keywords: [reform]
`
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "empty document",
			yaml:    "",
			wantMsg: "rule set is empty",
		},
		{
			name:    "wrong version",
			yaml:    "version: 2\n",
			wantMsg: "unsupported rule set version 2",
		},
		{
			name:    "unknown field",
			yaml:    "version: 1\nsources: []\n",
			wantMsg: "field sources not found",
		},
		{
			name:    "missing taxonomy",
			yaml:    "version: 1\n" + valid,
			wantMsg: "source_types: no categories defined",
		},
		{
			name: "duplicate category",
			yaml: `version: 1
source_types:
  - name: news
    keywords: [news]
  - name: news
    keywords: [bbc]
` + valid,
			wantMsg: `source_types: duplicate category "news"`,
		},
		{
			name: "category without patterns",
			yaml: `version: 1
source_types:
  - name: news
` + valid,
			wantMsg: `source_types: category "news" has no patterns`,
		},
		{
			name: "blank pattern",
			yaml: `version: 1
source_types:
  - name: news
    keywords: ["  "]
` + valid,
			wantMsg: "empty pattern",
		},
		{
			name: "domains outside source types",
			yaml: `version: 1
source_types:
  - name: news
    keywords: [news]
topics:
  - name: politics
    keywords: [government]
    domains: [gov.uk]
emotions:
  - name: trust
    keywords: [trust]
policies:
  - name: reform
    keywords: [reform]
`,
			wantMsg: `topics: category "politics" may only define keywords`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, defaultRulesYAML, 0o600))

	registry, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, registry.SourceTypes(), 4)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
