package pricing

// Stage is one of the fixed entries in the quote breakdown shown to the
// client. Two stages are always included free of charge; the remaining
// six map to calculator questions.
type Stage struct {
	ID     string
	Name   string
	NameES string
	Free   bool
}

// Label returns the stage name for the given language code.
func (s Stage) Label(lang string) string {
	if lang == "es" && s.NameES != "" {
		return s.NameES
	}
	return s.Name
}

var stages = []Stage{
	{ID: "discovery", Name: "Discovery Workshop", NameES: "Taller de Descubrimiento", Free: true},
	{ID: "strategy", Name: "AI Strategy Session", NameES: "Sesión de Estrategia de IA", Free: true},
	{ID: "company-size", Name: "Company Size Assessment", NameES: "Evaluación de Tamaño de Empresa"},
	{ID: "solution-scope", Name: "Solution Scope", NameES: "Alcance de la Solución"},
	{ID: "data-readiness", Name: "Data Readiness Audit", NameES: "Auditoría de Datos"},
	{ID: "integrations", Name: "Systems Integration", NameES: "Integración de Sistemas"},
	{ID: "deployment", Name: "Deployment & Rollout", NameES: "Despliegue y Puesta en Marcha"},
	{ID: "support-plan", Name: "Support & Maintenance", NameES: "Soporte y Mantenimiento"},
}

var questions = []Question{
	{
		ID:    "company-size",
		Stage: "company-size",
		Title: "How large is your organization?",
		Options: []Option{
			{ID: "startup", Label: "1-20 employees", BasePrice: 1500, Hours: 12, Description: "Early-stage team, single decision maker"},
			{ID: "mid-market", Label: "21-200 employees", BasePrice: 2500, Hours: 20, Description: "Established company with departmental structure"},
			{ID: "enterprise", Label: "200+ employees", BasePrice: 4000, Hours: 32, Description: "Enterprise with compliance and procurement processes"},
		},
	},
	{
		ID:       "solution-scope",
		Stage:    "solution-scope",
		Title:    "What kind of AI solution are you looking for?",
		Subtitle: "Pick the closest match; scope can be refined later.",
		Options: []Option{
			{ID: "assistant", Label: "Customer-facing assistant", BasePrice: 6000, Hours: 60},
			{ID: "automation", Label: "Internal process automation", BasePrice: 7500, Hours: 80},
			{ID: "analytics", Label: "Predictive analytics", BasePrice: 9000, Hours: 100},
		},
		Multipliers: []Multiplier{
			{ID: "standard", Label: "Standard", Factor: 1.0, Description: "Well-understood domain, proven patterns"},
			{ID: "custom", Label: "Custom models", Factor: 1.3, Description: "Domain-specific fine-tuning or bespoke models"},
		},
		RequiresMultiplier: true,
	},
	{
		ID:    "data-readiness",
		Stage: "data-readiness",
		Title: "How would you describe your data today?",
		Options: []Option{
			{ID: "clean", Label: "Centralized and clean", BasePrice: 2000, Hours: 16},
			{ID: "scattered", Label: "Scattered across systems", BasePrice: 3500, Hours: 32},
			{ID: "unstructured", Label: "Mostly unstructured", BasePrice: 5000, Hours: 48},
		},
	},
	{
		ID:       "integrations",
		Stage:    "integrations",
		Title:    "How many systems need to be integrated?",
		Subtitle: "ERPs, CRMs, internal APIs, legacy databases.",
		Options: []Option{
			{ID: "few", Label: "1-2 systems", BasePrice: 3000, Hours: 24},
			{ID: "several", Label: "3-5 systems", BasePrice: 5500, Hours: 48},
			{ID: "many", Label: "More than 5 systems", BasePrice: 8000, Hours: 72},
		},
		Multipliers: []Multiplier{
			{ID: "modern", Label: "Modern APIs", Factor: 0.8, Description: "REST/GraphQL interfaces already available"},
			{ID: "mixed", Label: "Mixed stack", Factor: 1.0},
			{ID: "legacy", Label: "Legacy systems", Factor: 1.3, Description: "Mainframe, file drops or undocumented protocols"},
		},
		RequiresMultiplier: true,
	},
	{
		ID:    "deployment",
		Stage: "deployment",
		Title: "Where should the solution run?",
		Options: []Option{
			{ID: "cloud", Label: "Our managed cloud", BasePrice: 2500, Hours: 20},
			{ID: "client-cloud", Label: "Your cloud account", BasePrice: 4000, Hours: 32},
			{ID: "on-prem", Label: "On-premises", BasePrice: 6500, Hours: 56},
		},
	},
	{
		ID:    "support-plan",
		Stage: "support-plan",
		Title: "What level of ongoing support do you need?",
		Options: []Option{
			{ID: "basic", Label: "Business hours", BasePrice: 1500, Hours: 8},
			{ID: "extended", Label: "Extended coverage", BasePrice: 3000, Hours: 16},
			{ID: "critical", Label: "24/7 mission critical", BasePrice: 5500, Hours: 24},
		},
	},
}

// Stages returns the fixed, ordered quote breakdown stages.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageByID looks up a breakdown stage.
func StageByID(id string) (Stage, bool) {
	for _, s := range stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// Questions returns the ordered calculator questions.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// QuestionByID looks up a calculator question.
func QuestionByID(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (q Question) option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func (q Question) multiplier(id string) (Multiplier, bool) {
	for _, m := range q.Multipliers {
		if m.ID == id {
			return m, true
		}
	}
	return Multiplier{}, false
}
