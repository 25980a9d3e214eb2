package leads

import (
	"testing"
	"time"

	"github.com/artemisa-labs/website-api/internal/pricing"
)

func mustAnswer(t *testing.T, questionID, optionID, multiplierID string) pricing.Answer {
	t.Helper()
	a, err := pricing.NewAnswer(questionID, optionID, multiplierID)
	if err != nil {
		t.Fatalf("NewAnswer(%s, %s, %s): %v", questionID, optionID, multiplierID, err)
	}
	return a
}

func fullAnswerSet(t *testing.T) []pricing.Answer {
	t.Helper()
	return []pricing.Answer{
		mustAnswer(t, "company-size", "mid-market", ""),
		mustAnswer(t, "solution-scope", "automation", "custom"),
		mustAnswer(t, "data-readiness", "scattered", ""),
		mustAnswer(t, "integrations", "several", "modern"),
		mustAnswer(t, "deployment", "cloud", ""),
		mustAnswer(t, "support-plan", "basic", ""),
	}
}

func TestNormalizeFullQuote(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	answers := fullAnswerSet(t)

	record := Normalize(
		Contact{FirstName: " Mariana ", LastName: "Restrepo", Email: " Mariana@Acme.COM ", Phone: "+57 300 123 4567"},
		Business{Company: "Acme Corp", Role: "CTO", Language: "en"},
		answers, "es", now,
	)

	if record.ClientInfo.Email != "mariana@acme.com" {
		t.Errorf("email not normalized: %q", record.ClientInfo.Email)
	}
	if record.ClientInfo.FullName != "Mariana Restrepo" {
		t.Errorf("fullName = %q, want composed from first and last", record.ClientInfo.FullName)
	}
	if record.Language != "en" {
		t.Errorf("language = %q, want explicit en", record.Language)
	}

	if len(record.QuoteDetails) != len(pricing.Stages()) {
		t.Fatalf("breakdown has %d entries, want %d", len(record.QuoteDetails), len(pricing.Stages()))
	}

	// Free stages are always first and marked included at zero price.
	for _, d := range record.QuoteDetails[:2] {
		if !d.Included || d.Price != 0 || d.Selection != "Included" {
			t.Errorf("free stage %s: included=%v price=%d selection=%q", d.StageID, d.Included, d.Price, d.Selection)
		}
	}

	// Answered stages carry the recomputed price.
	var scope QuoteDetail
	for _, d := range record.QuoteDetails {
		if d.StageID == "solution-scope" {
			scope = d
		}
	}
	if scope.Price != 9750 {
		t.Errorf("solution-scope price = %d, want 9750", scope.Price)
	}
	if scope.Selection != "Internal process automation" {
		t.Errorf("solution-scope selection = %q", scope.Selection)
	}

	wantPrice, wantHours := pricing.Totals(answers)
	if record.TotalPrice != wantPrice || record.TotalHours != wantHours {
		t.Errorf("totals = (%d, %d), want (%d, %d)", record.TotalPrice, record.TotalHours, wantPrice, wantHours)
	}
}

func TestNormalizeFullNameOverrideWins(t *testing.T) {
	record := Normalize(
		Contact{FirstName: "Mariana", LastName: "Restrepo", FullName: "M. Restrepo Vélez", Email: "m@acme.com"},
		Business{}, nil, "es", time.Now(),
	)
	if record.ClientInfo.FullName != "M. Restrepo Vélez" {
		t.Errorf("explicit fullName should win, got %q", record.ClientInfo.FullName)
	}
}

func TestNormalizeMissingAnswerPlaceholder(t *testing.T) {
	answers := []pricing.Answer{mustAnswer(t, "company-size", "startup", "")}

	record := Normalize(Contact{Email: "x@acme.com"}, Business{}, answers, "es", time.Now())

	var deploy QuoteDetail
	for _, d := range record.QuoteDetails {
		if d.StageID == "deployment" {
			deploy = d
		}
	}
	if deploy.Price != 0 || deploy.Hours != 0 {
		t.Errorf("unanswered stage should be zero-priced, got price=%d hours=%d", deploy.Price, deploy.Hours)
	}
	if deploy.Selection != "Sin especificar" {
		t.Errorf("placeholder selection = %q, want Spanish default", deploy.Selection)
	}
	if deploy.Included {
		t.Error("unanswered paid stage must not be marked included")
	}
}

func TestNormalizeDefaultLanguage(t *testing.T) {
	record := Normalize(Contact{Email: "x@acme.com"}, Business{}, nil, "es", time.Now())
	if record.Language != "es" {
		t.Errorf("language = %q, want default es", record.Language)
	}

	for _, d := range record.QuoteDetails {
		if d.StageID == "discovery" && d.Selection != "Incluido" {
			t.Errorf("free stage selection = %q, want Incluido", d.Selection)
		}
		if d.StageID == "discovery" && d.Stage != "Taller de Descubrimiento" {
			t.Errorf("stage label = %q, want Spanish label", d.Stage)
		}
	}
}

func TestNormalizeAnswerOrderIrrelevant(t *testing.T) {
	now := time.Now()
	answers := fullAnswerSet(t)
	reversed := make([]pricing.Answer, len(answers))
	for i, a := range answers {
		reversed[len(answers)-1-i] = a
	}

	a := Normalize(Contact{Email: "x@acme.com"}, Business{}, answers, "es", now)
	b := Normalize(Contact{Email: "x@acme.com"}, Business{}, reversed, "es", now)

	for i := range a.QuoteDetails {
		if a.QuoteDetails[i] != b.QuoteDetails[i] {
			t.Errorf("entry %d differs with reordered answers: %+v vs %+v", i, a.QuoteDetails[i], b.QuoteDetails[i])
		}
	}
}

func TestSanitizeStripsAngleBrackets(t *testing.T) {
	if got := Sanitize("  <script>alert</script>  "); got != "scriptalert/script" {
		t.Errorf("Sanitize = %q", got)
	}
}
