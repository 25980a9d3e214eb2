package leads

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/artemisa-labs/website-api/pkg/logging"
)

// Handler handles HTTP requests for lead capture and the admin surface
type Handler struct {
	service *CaptureService
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *CaptureService, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

type submissionResponse struct {
	Success   bool           `json:"success"`
	LeadID    string         `json:"leadId,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Error     *errorEnvelope `json:"error,omitempty"`
}

type errorEnvelope struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Field    string        `json:"field,omitempty"`
}

// CreateDemoRequest handles POST /api/requests/demo
func (h *Handler) CreateDemoRequest(w http.ResponseWriter, r *http.Request) {
	var in DemoRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode demo request", "error", err)
		h.writeError(w, invalidArgument("", "invalid request body"))
		return
	}

	result, err := h.service.SubmitDemo(r.Context(), in, metaFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{Success: true, LeadID: result.LeadID, RequestID: result.RequestID})
}

// CreateQuoteRequest handles POST /api/requests/quote
func (h *Handler) CreateQuoteRequest(w http.ResponseWriter, r *http.Request) {
	var in QuoteRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode quote request", "error", err)
		h.writeError(w, invalidArgument("", "invalid request body"))
		return
	}

	result, err := h.service.SubmitQuote(r.Context(), in, metaFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{Success: true, LeadID: result.LeadID, RequestID: result.RequestID})
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/leads
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListLeadsFilter{Limit: 50}
	filter.Limit, filter.Offset = pagination(r, filter.Limit)
	if r.URL.Query().Get("suspicious") == "true" {
		filter.OnlySuspicious = true
	}

	leads, err := h.repo.ListLeads(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// GetLead handles GET /admin/leads/{leadID}
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	if id == "" {
		http.Error(w, "missing lead id", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetLeadByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "error", err, "lead_id", id)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// ListRequestsResponse is the response for listing requests
type ListRequestsResponse struct {
	Requests []*Request `json:"requests"`
	Count    int        `json:"count"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}

// ListRequests handles GET /admin/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := ListRequestsFilter{Limit: 50}
	filter.Limit, filter.Offset = pagination(r, filter.Limit)
	switch r.URL.Query().Get("type") {
	case "demo":
		filter.Type = RequestTypeDemo
	case "quote":
		filter.Type = RequestTypeQuote
	}

	requests, err := h.repo.ListRequests(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list requests", "error", err)
		http.Error(w, "failed to list requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListRequestsResponse{
		Requests: requests,
		Count:    len(requests),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		capErr = internalError(err)
	}

	status := http.StatusInternalServerError
	switch capErr.Category {
	case CategoryInvalidArgument:
		status = http.StatusBadRequest
	case CategoryResourceExhausted:
		status = http.StatusTooManyRequests
	}

	writeJSON(w, status, submissionResponse{
		Success: false,
		Error: &errorEnvelope{
			Category: capErr.Category,
			Message:  capErr.Message,
			Field:    capErr.Field,
		},
	})
}

func metaFromRequest(r *http.Request) RequestMeta {
	// chi's RealIP middleware rewrites RemoteAddr for proxied requests;
	// direct connections still carry an ip:port pair.
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return RequestMeta{
		UserAgent: r.Header.Get("User-Agent"),
		Referer:   r.Header.Get("Referer"),
		Origin:    r.Header.Get("Origin"),
		RemoteIP:  ip,
	}
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
