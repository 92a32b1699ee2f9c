package contacts

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/models"
)

var linkedInPattern = regexp.MustCompile(`^https://www\.linkedin\.com/in/[a-z]+-[a-z]+-\d{3}$`)

func newGenerator(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

func intPtr(i int) *int { return &i }

var acme = models.Company{ID: "acme-analytics", Name: "Acme Analytics"}

func TestForCompany_EveryPersonaGetsContacts(t *testing.T) {
	personas := []string{"Growth Hacker", "Sales Leadership", "Unknown Persona"}

	contacts := newGenerator(1).ForCompany(acme, personas, 2, intPtr(0))

	require.Len(t, contacts, 6)
	byPersona := map[string]int{}
	for _, c := range contacts {
		byPersona[c.PersonaMatch]++
		assert.Equal(t, "acme-analytics", c.CompanyID)
		assert.Equal(t, "Acme Analytics", c.CompanyName)
		assert.NotEmpty(t, c.ID)
		assert.True(t, strings.HasSuffix(c.Email, "@acmeanalytics.com"), c.Email)
		assert.Regexp(t, linkedInPattern, c.LinkedIn)
		assert.GreaterOrEqual(t, c.MatchScore, 75)
		assert.LessOrEqual(t, c.MatchScore, 98)
		assert.Contains(t, Titles(c.PersonaMatch), c.Title)
	}
	for _, p := range personas {
		assert.Equal(t, 2, byPersona[p], p)
	}
}

func TestForCompany_ZeroCountStillYieldsOnePerPersona(t *testing.T) {
	personas := []string{"Growth Hacker", "Revenue Operations"}

	contacts := newGenerator(2).ForCompany(acme, personas, 0, intPtr(2))

	require.Len(t, contacts, 2)
	for i, c := range contacts {
		assert.Equal(t, personas[i], c.PersonaMatch)
		assert.Equal(t, models.ContactNotContacted, c.Status)
		assert.Zero(t, c.StatusDays)
	}
}

func TestForCompany_Stories(t *testing.T) {
	personas := []string{"Growth Hacker", "Sales Leadership", "Marketing Operations"}

	t.Run("story 0 is untouched", func(t *testing.T) {
		for _, c := range newGenerator(3).ForCompany(acme, personas, 2, intPtr(3)) {
			assert.Equal(t, models.ContactNotContacted, c.Status)
			assert.Zero(t, c.StatusDays)
		}
	})

	t.Run("story 1 alternates rejections", func(t *testing.T) {
		contacts := newGenerator(4).ForCompany(acme, personas, 2, intPtr(4))
		require.Len(t, contacts, 6)
		for i, c := range contacts {
			pi, ci := i/2, i%2
			want := models.ContactAwaitingReply
			if (pi+ci)%3 == 0 {
				want = models.ContactNotInterested
			}
			assert.Equal(t, want, c.Status, "contact %d", i)
			assert.GreaterOrEqual(t, c.StatusDays, 1)
			assert.LessOrEqual(t, c.StatusDays, 7)
		}
	})

	t.Run("story 2 progresses the pipeline", func(t *testing.T) {
		contacts := newGenerator(5).ForCompany(acme, personas, 2, intPtr(5))
		require.Len(t, contacts, 6)
		wantByTurn := []models.ContactStatus{models.ContactAwaitingReply, models.ContactInterested, models.ContactDemoBooked}
		maxDays := map[models.ContactStatus]int{
			models.ContactAwaitingReply: 5,
			models.ContactInterested:    4,
			models.ContactDemoBooked:    3,
		}
		for i, c := range contacts {
			pi, ci := i/2, i%2
			assert.Equal(t, wantByTurn[(pi+ci)%3], c.Status, "contact %d", i)
			assert.GreaterOrEqual(t, c.StatusDays, 1)
			assert.LessOrEqual(t, c.StatusDays, maxDays[c.Status])
		}
	})
}

func TestForCompany_SameCompanyTellsOneStory(t *testing.T) {
	allowed := map[models.ContactStatus]int{}
	stories := [][]models.ContactStatus{
		{models.ContactNotContacted},
		{models.ContactNotInterested, models.ContactAwaitingReply},
		{models.ContactAwaitingReply, models.ContactInterested, models.ContactDemoBooked},
	}

	contacts := newGenerator(6).ForCompany(acme, []string{"Growth Hacker", "Sales Leadership"}, 3, nil)
	require.Len(t, contacts, 6)
	for _, c := range contacts {
		allowed[c.Status]++
	}

	matched := false
	for _, story := range stories {
		count := 0
		for _, s := range story {
			count += allowed[s]
		}
		if count == len(contacts) {
			matched = true
		}
	}
	assert.True(t, matched, "statuses %v mix stories", allowed)
}

func TestForCompanies_ContactsEveryPersonaAtEveryCompany(t *testing.T) {
	companies := []models.Company{
		acme,
		{ID: "brightloop", Name: "BrightLoop"},
		{ID: "cloudharbor", Name: "CloudHarbor Inc."},
	}
	personas := []string{"Growth Hacker", "Compliance Leader"}

	contacts := newGenerator(7).ForCompanies(companies, personas, 1)

	require.Len(t, contacts, 6)
	pairs := map[string]bool{}
	for _, c := range contacts {
		pairs[c.CompanyID+"/"+c.PersonaMatch] = true
	}
	for _, co := range companies {
		for _, p := range personas {
			assert.True(t, pairs[co.ID+"/"+p], "%s/%s missing", co.ID, p)
		}
	}
	for _, c := range contacts[:2] {
		assert.Equal(t, models.ContactNotContacted, c.Status)
	}
}

func TestForCompanies_Defaults(t *testing.T) {
	contacts := newGenerator(8).ForCompanies([]models.Company{acme}, nil, 0)

	require.Len(t, contacts, 1)
	assert.Equal(t, DefaultPersona, contacts[0].PersonaMatch)
}

func TestDomain(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Acme Analytics", "acmeanalytics.com"},
		{"CloudHarbor Inc.", "cloudharborinc.com"},
		{"Juniper-Pay", "juniperpay.com"},
		{"Café Nord", "cafnord.com"},
		{"!!!", "example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.name), tt.name)
	}
}

func TestTitles_FallBackToMarketingLeadership(t *testing.T) {
	assert.Len(t, Titles("Growth Hacker"), 5)
	assert.Equal(t, Titles(DefaultPersona), Titles("Nobody"))
}
