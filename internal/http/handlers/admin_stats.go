package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/artemisa-labs/website-api/pkg/logging"
)

// openRequestStatuses are the statuses counted as needing sales
// attention. Statuses beyond pending are set by the sales tooling.
var openRequestStatuses = []string{"pending", "contacted"}

// AdminStatsHandler serves aggregate lead and request metrics for the
// sales dashboard. It reads the reporting replica through database/sql.
type AdminStatsHandler struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

// NewAdminStatsHandler creates an admin stats handler.
func NewAdminStatsHandler(db *sql.DB, logger *logging.Logger) *AdminStatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminStatsHandler{db: db, logger: logger, now: time.Now}
}

// StatsResponse contains the dashboard aggregates.
type StatsResponse struct {
	Leads    LeadStats    `json:"leads"`
	Requests RequestStats `json:"requests"`
	Quotes   QuoteStats   `json:"quotes"`
}

// LeadStats aggregates the leads table.
type LeadStats struct {
	Total       int `json:"total"`
	Suspicious  int `json:"suspicious"`
	NewThisWeek int `json:"newThisWeek"`
}

// RequestStats aggregates the requests table.
type RequestStats struct {
	Demo  int `json:"demo"`
	Quote int `json:"quote"`
	Open  int `json:"open"`
}

// QuoteStats aggregates quote request values.
type QuoteStats struct {
	TotalValue   int `json:"totalValue"`
	AverageValue int `json:"averageValue"`
}

// GetStats handles GET /admin/stats.
func (h *AdminStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	weekAgo := h.now().UTC().Add(-7 * 24 * time.Hour)

	var resp StatsResponse
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_suspicious),
		       COUNT(*) FILTER (WHERE created_at >= $1)
		FROM leads`, weekAgo).
		Scan(&resp.Leads.Total, &resp.Leads.Suspicious, &resp.Leads.NewThisWeek)
	if err != nil {
		h.logger.Error("stats: lead aggregates failed", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	rows, err := h.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM requests GROUP BY type`)
	if err != nil {
		h.logger.Error("stats: request aggregates failed", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var (
			reqType string
			count   int
		)
		if err := rows.Scan(&reqType, &count); err != nil {
			h.logger.Error("stats: scan failed", "error", err)
			http.Error(w, "failed to compute stats", http.StatusInternalServerError)
			return
		}
		switch reqType {
		case "demo":
			resp.Requests.Demo = count
		case "quote":
			resp.Requests.Quote = count
		}
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("stats: request aggregates failed", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	err = h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE status = ANY($1)`,
		pq.Array(openRequestStatuses)).
		Scan(&resp.Requests.Open)
	if err != nil {
		h.logger.Error("stats: open request count failed", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM((metadata->>'totalPrice')::int), 0),
		       COALESCE(AVG((metadata->>'totalPrice')::int), 0)::int
		FROM requests
		WHERE type = 'quote'`).
		Scan(&resp.Quotes.TotalValue, &resp.Quotes.AverageValue)
	if err != nil {
		h.logger.Error("stats: quote value aggregates failed", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
