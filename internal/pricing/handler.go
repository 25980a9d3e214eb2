package pricing

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/artemisa-labs/website-api/pkg/logging"
)

// Handler serves the static quote catalog and on-demand estimates.
type Handler struct {
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a pricing handler.
func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger, now: time.Now}
}

type catalogStage struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Free  bool   `json:"free"`
}

type catalogResponse struct {
	Stages    []catalogStage `json:"stages"`
	Questions []Question     `json:"questions"`
}

// GetCatalog handles GET /api/pricing/catalog. Stage labels follow the
// lang query parameter; question text is served as authored.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")

	stages := Stages()
	out := make([]catalogStage, 0, len(stages))
	for _, s := range stages {
		out = append(out, catalogStage{ID: s.ID, Label: s.Label(lang), Free: s.Free})
	}

	writeJSON(w, http.StatusOK, catalogResponse{Stages: out, Questions: Questions()})
}

type estimateRequest struct {
	Answers []struct {
		QuestionID   string `json:"questionId"`
		OptionID     string `json:"optionId"`
		MultiplierID string `json:"multiplierId"`
	} `json:"answers"`
}

type estimateResponse struct {
	Summary Summary  `json:"summary"`
	Answers []Answer `json:"answers"`
}

// Estimate handles POST /api/pricing/estimate: it resolves the given
// selections against the catalog and returns the computed totals
// without capturing anything.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	var in estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(in.Answers) == 0 {
		http.Error(w, "answers are required", http.StatusBadRequest)
		return
	}

	answers := make([]Answer, 0, len(in.Answers))
	for _, a := range in.Answers {
		answer, err := NewAnswer(a.QuestionID, a.OptionID, a.MultiplierID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		answers = append(answers, answer)
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		Summary: Summarize(answers, h.now()),
		Answers: answers,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
