// Package contacts synthesizes outreach contacts for qualified companies.
package contacts

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"campaign-builder/internal/models"
)

// DefaultPersona supplies titles for personas without their own list and
// is contacted when no persona is given.
const DefaultPersona = "Marketing Leadership"

// Rand is the random source. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

var firstNames = []string{
	"Sarah", "Michael", "Jessica", "David", "Emily", "James", "Ashley", "Robert",
	"Amanda", "Daniel", "Olivia", "Matthew", "Sophia", "Andrew", "Isabella", "Joshua",
	"Mia", "Christopher", "Charlotte", "Ryan", "Priya", "Wei", "Carlos", "Fatima",
	"Liam", "Hannah", "Noah", "Grace", "Ethan", "Zoe",
}

var lastNames = []string{
	"Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez",
	"Martinez", "Anderson", "Taylor", "Thomas", "Moore", "Jackson", "Martin", "Lee",
	"Thompson", "White", "Harris", "Clark", "Lewis", "Walker", "Hall", "Young",
	"Patel", "Chen", "Nguyen", "Kim", "Singh", "Rivera",
}

var titlesByPersona = map[string][]string{
	"Strategic Marketing Executive": {"Chief Marketing Officer", "SVP Marketing", "VP of Marketing", "Head of Marketing", "EVP Brand & Marketing"},
	"Growth Hacker":                 {"Head of Growth", "Growth Marketing Manager", "Director of Growth", "VP Growth", "Growth Lead"},
	"Marketing Leadership":          {"VP Marketing", "Director of Marketing", "Head of Marketing", "Senior Marketing Director", "Marketing Director"},
	"Demand Generation Leader":      {"Director of Demand Generation", "VP Demand Generation", "Head of Demand Gen", "Demand Generation Manager", "Senior Demand Gen Manager"},
	"Product Marketing Leader":      {"VP Product Marketing", "Director of Product Marketing", "Head of Product Marketing", "Senior PMM", "Product Marketing Lead"},
	"Marketing Operations":          {"Marketing Operations Manager", "Director of Marketing Operations", "Head of Marketing Ops", "Marketing Technology Lead", "Senior Marketing Ops Manager"},
	"Sales Leadership":              {"VP Sales", "Chief Revenue Officer", "Head of Sales", "Director of Sales", "SVP Sales"},
	"Revenue Operations":            {"Head of Revenue Operations", "Director of RevOps", "VP Revenue Operations", "RevOps Manager", "Senior RevOps Analyst"},
	"Data & Analytics Leader":       {"Head of Data", "VP Analytics", "Director of Data Engineering", "Chief Data Officer", "Analytics Manager"},
	"Engineering Leadership":        {"VP Engineering", "CTO", "Director of Engineering", "Head of Platform", "Engineering Manager"},
	"Compliance Leader":             {"Chief Compliance Officer", "VP Compliance", "Head of Risk & Compliance", "Compliance Director", "BSA/AML Officer"},
}

var emailPatterns = []func(first, last, domain string) string{
	func(f, l, d string) string { return f + "." + l + "@" + d },
	func(f, l, d string) string { return f[:1] + l + "@" + d },
	func(f, _, d string) string { return f + "@" + d },
	func(f, l, d string) string { return l + "." + f + "@" + d },
}

// Generator synthesizes contacts. Output is deterministic for a seeded Rand
// apart from contact ids.
type Generator struct {
	rng   Rand
	newID func() string
}

func New(rng Rand) *Generator {
	return &Generator{rng: rng, newID: uuid.NewString}
}

// ForCompany returns countPerPersona contacts for each persona, at least
// one per persona. companyIndex picks the status story; nil picks one at
// random.
func (g *Generator) ForCompany(company models.Company, personaNames []string, countPerPersona int, companyIndex *int) []models.Contact {
	story := g.rng.Intn(3)
	if companyIndex != nil {
		story = *companyIndex % 3
		if story < 0 {
			story += 3
		}
	}

	var out []models.Contact
	for pi, persona := range personaNames {
		produced := 0
		for ci := 0; ci < countPerPersona; ci++ {
			status, days := g.status(story, pi, ci)
			out = append(out, g.contact(company, persona, status, days))
			produced++
		}
		if produced == 0 {
			out = append(out, g.contact(company, persona, models.ContactNotContacted, 0))
		}
	}
	return out
}

// ForCompanies contacts every given persona at every company; with no
// personas DefaultPersona is used. The company's position selects its story.
func (g *Generator) ForCompanies(companies []models.Company, personaNames []string, countPerCompany int) []models.Contact {
	if len(personaNames) == 0 {
		personaNames = []string{DefaultPersona}
	}
	if countPerCompany < 1 {
		countPerCompany = 1
	}
	var out []models.Contact
	for i, company := range companies {
		idx := i
		out = append(out, g.ForCompany(company, personaNames, countPerCompany, &idx)...)
	}
	return out
}

func (g *Generator) status(story, personaIdx, contactIdx int) (models.ContactStatus, int) {
	turn := (personaIdx + contactIdx) % 3
	switch story {
	case 1:
		if turn == 0 {
			return models.ContactNotInterested, 1 + g.rng.Intn(7)
		}
		return models.ContactAwaitingReply, 1 + g.rng.Intn(7)
	case 2:
		switch turn {
		case 0:
			return models.ContactAwaitingReply, 1 + g.rng.Intn(5)
		case 1:
			return models.ContactInterested, 1 + g.rng.Intn(4)
		default:
			return models.ContactDemoBooked, 1 + g.rng.Intn(3)
		}
	default:
		return models.ContactNotContacted, 0
	}
}

func (g *Generator) contact(company models.Company, persona string, status models.ContactStatus, days int) models.Contact {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	lf, ll := strings.ToLower(first), strings.ToLower(last)

	return models.Contact{
		ID:           g.newID(),
		Name:         first + " " + last,
		Title:        g.title(persona),
		Email:        emailPatterns[g.rng.Intn(len(emailPatterns))](lf, ll, Domain(company.Name)),
		LinkedIn:     fmt.Sprintf("https://www.linkedin.com/in/%s-%s-%03d", lf, ll, g.rng.Intn(1000)),
		CompanyID:    company.ID,
		CompanyName:  company.Name,
		PersonaMatch: persona,
		MatchScore:   75 + g.rng.Intn(24),
		Status:       status,
		StatusDays:   days,
	}
}

func (g *Generator) title(persona string) string {
	titles := Titles(persona)
	return titles[g.rng.Intn(len(titles))]
}

// Domain derives an email domain from a company name.
func Domain(companyName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(companyName) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "example.com"
	}
	return b.String() + ".com"
}

// Titles returns the title pool used for persona.
func Titles(persona string) []string {
	if titles, ok := titlesByPersona[persona]; ok {
		return titles
	}
	return titlesByPersona[DefaultPersona]
}
