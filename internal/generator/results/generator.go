// Package results synthesizes qualification results for a research agent.
//
// Outcomes are a fixed demo policy: a shuffled sample of ten companies is
// split by position into three qualified, two needs-review and five
// unqualified results. Company attributes are not consulted.
package results

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"campaign-builder/internal/models"
)

const (
	// SampleSize is the number of companies one generation call covers.
	SampleSize = 10

	qualifiedSlots   = 3
	needsReviewSlots = 2

	// CompanyNamePlaceholder is substituted in summaries and reasons.
	CompanyNamePlaceholder = "{companyName}"
)

// Rand is the random source. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

//go:embed variations.json
var builtinJSON []byte

var builtinTable = sync.OnceValue(func() map[string]models.AgentResultTable {
	table := map[string]models.AgentResultTable{}
	if err := json.Unmarshal(builtinJSON, &table); err != nil {
		panic(fmt.Sprintf("results: embedded variations are malformed: %v", err))
	}
	return table
})

// Builtin returns the variation table compiled into the binary for agentID.
func Builtin(agentID string) (models.AgentResultTable, bool) {
	t, ok := builtinTable()[agentID]
	return t, ok
}

var bucketConfidence = map[models.Status]struct {
	evidence float64
	result   int
}{
	models.StatusQualified:   {0.92, 92},
	models.StatusNeedsReview: {0.80, 80},
	models.StatusUnqualified: {0.70, 70},
}

// Generator produces AgentResults from the dataset's results document,
// falling back to the built-in variation table.
type Generator struct {
	dataset map[string]models.AgentResultTable
	rng     Rand
}

// New returns a Generator. dataset may be nil.
func New(dataset map[string]models.AgentResultTable, rng Rand) *Generator {
	return &Generator{dataset: dataset, rng: rng}
}

// Summary counts results per bucket.
type Summary struct {
	Qualified   int `json:"qualified"`
	NeedsReview int `json:"needsReview"`
	Unqualified int `json:"unqualified"`
}

// Summarize buckets results by their derived status.
func Summarize(results []models.AgentResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Bucket() {
		case models.StatusQualified:
			s.Qualified++
		case models.StatusNeedsReview:
			s.NeedsReview++
		default:
			s.Unqualified++
		}
	}
	return s
}

// Generate returns one result per sampled company. sample is used as the
// pool when it holds at least SampleSize companies, otherwise all is.
// An agent with neither a variation table nor an allowlist yields an empty
// slice.
func (g *Generator) Generate(agent models.Agent, sample, all []models.Company) []models.AgentResult {
	if table, ok := g.table(agent.ID); ok {
		return g.fromTable(agent, table, pickPool(sample, all))
	}
	if entry, ok := g.dataset[agent.ID]; ok && len(entry.Qualified.CompanyIDs) > 0 {
		return fromAllowlist(agent, entry.Qualified.CompanyIDs, all)
	}
	return []models.AgentResult{}
}

// table resolves variations bucket by bucket: a dataset bucket with
// variations wins, otherwise the built-in bucket for the agent is used.
func (g *Generator) table(agentID string) (models.AgentResultTable, bool) {
	builtin, hasBuiltin := Builtin(agentID)
	entry, ok := g.dataset[agentID]
	if !ok || !entry.HasVariations() {
		return builtin, hasBuiltin
	}
	if !hasBuiltin {
		return entry, true
	}

	merged := builtin
	if len(entry.Qualified.Variations) > 0 {
		merged.Qualified = entry.Qualified
	}
	if len(entry.NeedsReview.Variations) > 0 {
		merged.NeedsReview = entry.NeedsReview
	}
	if len(entry.Unqualified.Variations) > 0 {
		merged.Unqualified = entry.Unqualified
	}
	return merged, true
}

func pickPool(sample, all []models.Company) []models.Company {
	if len(sample) >= SampleSize {
		return sample
	}
	return all
}

func (g *Generator) fromTable(agent models.Agent, table models.AgentResultTable, pool []models.Company) []models.AgentResult {
	shuffled := make([]models.Company, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > SampleSize {
		shuffled = shuffled[:SampleSize]
	}

	out := make([]models.AgentResult, 0, len(shuffled))
	for i, company := range shuffled {
		status, bucket, idx := models.StatusUnqualified, table.Unqualified, i-qualifiedSlots-needsReviewSlots
		switch {
		case i < qualifiedSlots:
			status, bucket, idx = models.StatusQualified, table.Qualified, i
		case i < qualifiedSlots+needsReviewSlots:
			status, bucket, idx = models.StatusNeedsReview, table.NeedsReview, i-qualifiedSlots
		}
		out = append(out, instantiate(agent, company, status, pickVariation(bucket.Variations, idx)))
	}
	return out
}

func pickVariation(variations []models.Variation, idx int) models.Variation {
	if len(variations) == 0 {
		return models.Variation{}
	}
	return variations[idx%len(variations)]
}

func instantiate(agent models.Agent, company models.Company, status models.Status, v models.Variation) models.AgentResult {
	conf := bucketConfidence[status]
	source := SourceLabel(agent.ID)

	evidence := make([]models.Evidence, 0, len(v.Evidence))
	for i, text := range v.Evidence {
		evidence = append(evidence, models.Evidence{
			Title:       fmt.Sprintf("%s finding %d", source, i+1),
			Description: fill(text, company.Name),
			Source:      source,
			Confidence:  conf.evidence,
		})
	}

	r := models.AgentResult{
		AgentID:         agent.ID,
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		Confidence:      conf.result,
		ResearchSummary: mention(fill(v.ResearchSummary, company.Name), company.Name),
		WhyQualified:    mention(fill(v.WhyQualified, company.Name), company.Name),
		Evidence:        evidence,
		DataSources:     agent.EffectiveSources(),
		QuestionType:    agent.QuestionType,
	}
	if agent.QuestionType == models.QuestionTypePicklist && len(v.SelectedOptions) > 0 {
		r.SelectedOptions = append([]string(nil), v.SelectedOptions...)
	}
	r.SetStatus(status)
	return r
}

// fromAllowlist is the legacy path: every listed company is qualified with
// one generic template and no split is applied.
func fromAllowlist(agent models.Agent, ids []string, all []models.Company) []models.AgentResult {
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	generic := models.Variation{
		ResearchSummary: CompanyNamePlaceholder + " matches the " + agent.Title + " criteria.",
		WhyQualified:    CompanyNamePlaceholder + " meets the qualification criteria for this agent.",
		Evidence:        []string{"Company profile matches the target criteria"},
	}

	out := []models.AgentResult{}
	for _, company := range all {
		if allowed[company.ID] {
			out = append(out, instantiate(agent, company, models.StatusQualified, generic))
		}
	}
	return out
}

// SourceLabel names the evidence source for an agent family.
func SourceLabel(agentID string) string {
	switch {
	case strings.HasSuffix(agentID, "-hiring"):
		return "Jobs Board"
	case strings.HasPrefix(agentID, "leadership"):
		return "LinkedIn"
	case strings.HasPrefix(agentID, "news-"):
		return "Press Release"
	case strings.HasPrefix(agentID, "tech-"):
		return "Engineering Blog"
	default:
		return "Company Website"
	}
}

func fill(text, companyName string) string {
	return strings.ReplaceAll(text, CompanyNamePlaceholder, companyName)
}

// mention guarantees the company is named in the text.
func mention(text, companyName string) string {
	if companyName == "" || strings.Contains(text, companyName) {
		return text
	}
	if text == "" {
		return companyName
	}
	return companyName + ": " + text
}
