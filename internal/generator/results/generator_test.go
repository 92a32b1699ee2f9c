package results

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/models"
)

func companies(n int) []models.Company {
	out := make([]models.Company, n)
	for i := range out {
		out[i] = models.Company{ID: fmt.Sprintf("c-%02d", i), Name: fmt.Sprintf("Company %02d", i)}
	}
	return out
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func agent(id string, qt models.QuestionType) models.Agent {
	return models.Agent{ID: id, Title: id, QuestionType: qt, Sources: []string{"Jobs Board"}}
}

func TestBuiltinTable_CoversEveryFamily(t *testing.T) {
	families := []string{
		"marketing-hiring", "data-hiring", "leadership-changes",
		"news-funding", "news-ma", "news-expansion", "news-announcements",
		"tech-product", "tech-migration", "tech-stack",
	}
	for _, id := range families {
		t.Run(id, func(t *testing.T) {
			table, ok := Builtin(id)
			require.True(t, ok)
			for name, bucket := range map[string]models.ResultBucket{
				"qualified":   table.Qualified,
				"needsReview": table.NeedsReview,
				"unqualified": table.Unqualified,
			} {
				assert.GreaterOrEqual(t, len(bucket.Variations), 2, name)
				assert.LessOrEqual(t, len(bucket.Variations), 5, name)
			}
		})
	}
}

func TestGenerate_SplitsSampleThreeTwoFive(t *testing.T) {
	all := companies(12)
	gen := New(nil, seeded(7))

	results := gen.Generate(agent("marketing-hiring", models.QuestionTypeBoolean), nil, all)

	require.Len(t, results, SampleSize)
	assert.Equal(t, Summary{Qualified: 3, NeedsReview: 2, Unqualified: 5}, Summarize(results))

	seen := map[string]bool{}
	for i, r := range results {
		assert.False(t, seen[r.CompanyID], "company %s repeated", r.CompanyID)
		seen[r.CompanyID] = true

		assert.False(t, r.Qualified && r.NeedsReview)
		assert.Contains(t, r.ResearchSummary, r.CompanyName)
		assert.Contains(t, r.WhyQualified, r.CompanyName)
		assert.Empty(t, r.SelectedOptions)
		assert.Equal(t, models.QuestionTypeBoolean, r.QuestionType)

		switch {
		case i < 3:
			assert.Equal(t, models.StatusQualified, r.Status)
			assert.Equal(t, 92, r.Confidence)
		case i < 5:
			assert.Equal(t, models.StatusNeedsReview, r.Status)
			assert.Equal(t, 80, r.Confidence)
		default:
			assert.Equal(t, models.StatusUnqualified, r.Status)
			assert.Equal(t, 70, r.Confidence)
		}
		for _, ev := range r.Evidence {
			assert.Equal(t, "Jobs Board", ev.Source)
		}
	}
}

func TestGenerate_SmallPoolUsesEveryCompanyOnce(t *testing.T) {
	all := companies(4)
	results := New(nil, seeded(1)).Generate(agent("tech-product", models.QuestionTypeBoolean), nil, all)

	require.Len(t, results, 4)
	assert.Equal(t, Summary{Qualified: 3, NeedsReview: 1}, Summarize(results))
}

func TestGenerate_PoolSelection(t *testing.T) {
	all := companies(14)
	sample := all[2:13]
	short := all[:5]

	tests := []struct {
		name    string
		sample  []models.Company
		allowed []models.Company
	}{
		{"sample of ten or more is used", sample, sample},
		{"short sample falls back to all companies", short, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := map[string]bool{}
			for _, c := range tt.allowed {
				allowed[c.ID] = true
			}
			for seed := int64(0); seed < 20; seed++ {
				results := New(nil, seeded(seed)).Generate(agent("news-ma", models.QuestionTypeBoolean), tt.sample, all)
				require.Len(t, results, SampleSize)
				for _, r := range results {
					assert.True(t, allowed[r.CompanyID], "seed %d picked %s", seed, r.CompanyID)
				}
			}
		})
	}
}

func TestGenerate_CyclesVariationsWithinBucket(t *testing.T) {
	all := companies(10)
	results := New(nil, seeded(3)).Generate(agent("leadership-changes", models.QuestionTypeBoolean), nil, all)
	table, _ := Builtin("leadership-changes")

	require.Len(t, results, 10)
	for i := 5; i < 10; i++ {
		v := table.Unqualified.Variations[(i-5)%len(table.Unqualified.Variations)]
		want := strings.ReplaceAll(v.ResearchSummary, CompanyNamePlaceholder, results[i].CompanyName)
		assert.Equal(t, want, results[i].ResearchSummary)
	}
	assert.Equal(t, "LinkedIn", results[0].Evidence[0].Source)
	assert.InDelta(t, 0.92, results[0].Evidence[0].Confidence, 1e-9)
	assert.InDelta(t, 0.70, results[9].Evidence[0].Confidence, 1e-9)
}

func TestGenerate_PicklistCarriesSelectedOptions(t *testing.T) {
	overridden := agent("data-hiring", models.QuestionTypePicklist)
	overridden.SourcesByQuestionType = map[models.QuestionType][]string{
		models.QuestionTypePicklist: {"Company Careers Page"},
	}

	results := New(nil, seeded(11)).Generate(overridden, nil, companies(12))

	require.Len(t, results, SampleSize)
	for _, r := range results {
		assert.Equal(t, models.QuestionTypePicklist, r.QuestionType)
		assert.Equal(t, []string{"Company Careers Page"}, r.DataSources)
		if r.Status == models.StatusQualified {
			assert.NotEmpty(t, r.SelectedOptions)
		}
	}
}

func TestGenerate_DatasetTableTakesPrecedence(t *testing.T) {
	dataset := map[string]models.AgentResultTable{
		"news-funding": {
			Qualified:   models.ResultBucket{Variations: []models.Variation{{ResearchSummary: "{companyName} raised.", WhyQualified: "Funded.", Evidence: []string{"Round announced"}}}},
			NeedsReview: models.ResultBucket{Variations: []models.Variation{{ResearchSummary: "{companyName} maybe raised.", WhyQualified: "Unclear."}}},
			Unqualified: models.ResultBucket{Variations: []models.Variation{{ResearchSummary: "{companyName} did not raise.", WhyQualified: "None."}}},
		},
	}

	results := New(dataset, seeded(5)).Generate(agent("news-funding", models.QuestionTypeNumber), nil, companies(10))

	require.Len(t, results, 10)
	assert.Equal(t, results[0].CompanyName+" raised.", results[0].ResearchSummary)
	assert.Equal(t, results[0].CompanyName+": Funded.", results[0].WhyQualified)
	assert.Equal(t, "Press Release", results[0].Evidence[0].Source)
	assert.Equal(t, results[9].CompanyName+" did not raise.", results[9].ResearchSummary)
}

func TestGenerate_EmptyDatasetBucketsFallBackToBuiltin(t *testing.T) {
	dataset := map[string]models.AgentResultTable{
		"news-funding": {
			Qualified: models.ResultBucket{Variations: []models.Variation{{ResearchSummary: "{companyName} raised.", WhyQualified: "Funded."}}},
		},
	}

	results := New(dataset, seeded(5)).Generate(agent("news-funding", models.QuestionTypeBoolean), nil, companies(10))

	require.Len(t, results, 10)
	for _, r := range results[:3] {
		assert.Equal(t, r.CompanyName+" raised.", r.ResearchSummary)
	}
	for _, r := range results[3:] {
		assert.NotEqual(t, models.StatusQualified, r.Status)
		assert.NotEqual(t, r.CompanyName, r.ResearchSummary)
		assert.NotEqual(t, r.CompanyName, r.WhyQualified)
		assert.Contains(t, r.ResearchSummary, r.CompanyName)
		assert.NotEmpty(t, r.Evidence, "company %s", r.CompanyID)
	}
}

func TestGenerate_AllowlistMarksEveryMatchQualified(t *testing.T) {
	all := companies(10)
	dataset := map[string]models.AgentResultTable{
		"icp-fit": {Qualified: models.ResultBucket{CompanyIDs: []string{"c-01", "c-04", "unknown"}}},
	}

	results := New(dataset, seeded(1)).Generate(agent("icp-fit", models.QuestionTypeBoolean), nil, all)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, models.StatusQualified, r.Status)
		assert.True(t, r.Qualified)
		assert.Contains(t, r.ResearchSummary, r.CompanyName)
		assert.Equal(t, "Company Website", r.Evidence[0].Source)
	}
	assert.Equal(t, "c-01", results[0].CompanyID)
	assert.Equal(t, "c-04", results[1].CompanyID)
}

func TestGenerate_UnknownAgentYieldsEmptySlice(t *testing.T) {
	results := New(nil, seeded(1)).Generate(agent("does-not-exist", models.QuestionTypeBoolean), nil, companies(10))

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSourceLabel(t *testing.T) {
	tests := map[string]string{
		"marketing-hiring":   "Jobs Board",
		"data-hiring":        "Jobs Board",
		"leadership-changes": "LinkedIn",
		"news-expansion":     "Press Release",
		"tech-stack":         "Engineering Blog",
		"icp-fit":            "Company Website",
	}
	for id, want := range tests {
		assert.Equal(t, want, SourceLabel(id), id)
	}
}
