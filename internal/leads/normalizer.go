package leads

import (
	"strings"
	"time"

	"github.com/artemisa-labs/website-api/internal/pricing"
)

// Placeholder selections for breakdown entries. Every default a stage
// entry can carry is defined here, once.
const (
	selectionIncluded   = "Included"
	selectionIncludedES = "Incluido"
	selectionMissing    = "Not specified"
	selectionMissingES  = "Sin especificar"
)

// Contact is the loosely-structured contact blob supplied by the UI.
// Any field may be empty.
type Contact struct {
	FirstName string
	LastName  string
	FullName  string
	Email     string
	Phone     string
}

// Business is the loosely-structured business/identification blob.
type Business struct {
	Company        string
	Role           string
	Identification string
	Language       string
}

// Normalize merges contact data, business data and a committed answer
// sequence into the canonical record. Every output field has a defined
// default when its input is absent; Normalize never fails.
func Normalize(c Contact, b Business, answers []pricing.Answer, defaultLang string, now time.Time) NormalizedLead {
	lang := strOr(b.Language, defaultLang)

	fullName := strings.TrimSpace(c.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	}

	summary := pricing.Summarize(answers, now)

	return NormalizedLead{
		ClientInfo: ClientInfo{
			FirstName:      strings.TrimSpace(c.FirstName),
			LastName:       strings.TrimSpace(c.LastName),
			FullName:       fullName,
			Email:          NormalizeEmail(c.Email),
			Phone:          strings.TrimSpace(c.Phone),
			Company:        strings.TrimSpace(b.Company),
			Role:           strings.TrimSpace(b.Role),
			Identification: strings.TrimSpace(b.Identification),
		},
		QuoteDetails: buildQuoteDetails(answers, lang),
		TotalPrice:   summary.TotalPrice,
		TotalHours:   summary.TotalHours,
		Language:     lang,
		Summary:      summary,
	}
}

// buildQuoteDetails maps the committed answers onto the fixed breakdown
// stages. The join is by stage identifier carried on each answer, so
// reordering the calculator questions can never mislabel a stage. Free
// stages are always emitted with zero price; a stage with no matching
// answer gets a zero-price placeholder entry. The result always has
// exactly one entry per catalog stage.
func buildQuoteDetails(answers []pricing.Answer, lang string) []QuoteDetail {
	byStage := make(map[string]pricing.Answer, len(answers))
	for _, a := range answers {
		stage := strOr(a.StepDetails.Stage, a.QuestionID)
		if _, dup := byStage[stage]; !dup {
			byStage[stage] = a
		}
	}

	stages := pricing.Stages()
	details := make([]QuoteDetail, 0, len(stages))
	for _, s := range stages {
		d := QuoteDetail{
			StageID: s.ID,
			Stage:   s.Label(lang),
		}
		if s.Free {
			d.Included = true
			d.Selection = includedLabel(lang)
			details = append(details, d)
			continue
		}

		a, ok := byStage[s.ID]
		if !ok {
			d.Selection = missingLabel(lang)
			details = append(details, d)
			continue
		}

		d.Selection = strOr(a.StepDetails.OptionLabel, missingLabel(lang))
		d.Price = a.FinalPrice
		d.Hours = a.Hours
		details = append(details, d)
	}
	return details
}

// strOr returns s unless it is empty after trimming, in which case the
// default wins.
func strOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func includedLabel(lang string) string {
	if lang == "es" {
		return selectionIncludedES
	}
	return selectionIncluded
}

func missingLabel(lang string) string {
	if lang == "es" {
		return selectionMissingES
	}
	return selectionMissing
}
