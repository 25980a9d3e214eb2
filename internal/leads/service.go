package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/artemisa-labs/website-api/internal/observability/metrics"
	"github.com/artemisa-labs/website-api/internal/pricing"
	"github.com/artemisa-labs/website-api/pkg/logging"
)

var captureTracer = otel.Tracer("artemisa.internal.leads")

// Due-date horizons. A priority signal for sales routing, not an SLA.
const (
	demoDueIn  = 3 * 24 * time.Hour
	quoteDueIn = 24 * time.Hour
)

// RateLimiter gates submissions per client identifier.
type RateLimiter interface {
	Allow(id string) bool
}

// Notifier is told about each accepted request. Failures are logged and
// never surfaced to the submitting user.
type Notifier interface {
	NotifyNewRequest(ctx context.Context, lead *Lead, req *Request) error
}

// SubmissionResult is returned to the caller on success.
type SubmissionResult struct {
	LeadID    string `json:"leadId"`
	RequestID string `json:"requestId"`
}

// CaptureService runs the submission pipeline: validate, normalize,
// score, rate-limit, persist lead + request, notify sales.
type CaptureService struct {
	repo        Repository
	limiter     RateLimiter
	notifier    Notifier
	metrics     *metrics.LeadMetrics
	logger      *logging.Logger
	defaultLang string
	recipient   string
	now         func() time.Time
}

// NewCaptureService wires the submission pipeline. limiter, notifier
// and m may be nil (no gating, no notification, no metrics).
func NewCaptureService(repo Repository, limiter RateLimiter, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger, defaultLang, recipient string) *CaptureService {
	if repo == nil {
		panic("leads: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if defaultLang == "" {
		defaultLang = "es"
	}
	return &CaptureService{
		repo:        repo,
		limiter:     limiter,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
		defaultLang: defaultLang,
		recipient:   recipient,
		now:         time.Now,
	}
}

// SubmitDemo handles a demo request submission.
func (s *CaptureService) SubmitDemo(ctx context.Context, in DemoRequestInput, meta RequestMeta) (*SubmissionResult, error) {
	ctx, span := captureTracer.Start(ctx, "leads.submit_demo")
	defer span.End()

	if err := in.Validate(); err != nil {
		s.metrics.ObserveSubmission(string(RequestTypeDemo), "invalid")
		return nil, err
	}

	record := Normalize(
		Contact{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone},
		Business{Company: in.Company, Role: in.Role, Language: in.Language},
		nil,
		s.defaultLang,
		s.now(),
	)

	req := &Request{
		Type:        RequestTypeDemo,
		Recipient:   s.recipient,
		Description: demoDescription(record.ClientInfo, in.Message),
		Metadata: RequestMetadata{
			OrganizationSize: Sanitize(in.OrganizationSize),
			Source:           "website",
			Priority:         "high",
		},
		DueDate: s.now().UTC().Add(demoDueIn),
	}

	return s.capture(ctx, span, record, req, meta)
}

// SubmitQuote handles a quote request submission. Prices are recomputed
// from the catalog; client-supplied totals are never trusted.
func (s *CaptureService) SubmitQuote(ctx context.Context, in QuoteRequestInput, meta RequestMeta) (*SubmissionResult, error) {
	ctx, span := captureTracer.Start(ctx, "leads.submit_quote")
	defer span.End()

	if err := in.Validate(); err != nil {
		s.metrics.ObserveSubmission(string(RequestTypeQuote), "invalid")
		return nil, err
	}

	answers := make([]pricing.Answer, 0, len(in.QuoteData.Answers))
	for _, a := range in.QuoteData.Answers {
		answer, err := pricing.NewAnswer(a.QuestionID, a.OptionID, a.MultiplierID)
		if err != nil {
			s.metrics.ObserveSubmission(string(RequestTypeQuote), "invalid")
			return nil, invalidArgument("quoteData.answers", err.Error())
		}
		answers = append(answers, answer)
	}

	record := Normalize(
		Contact{FirstName: in.FirstName, LastName: in.LastName, FullName: in.FullName, Email: in.Email, Phone: in.Phone},
		Business{Company: in.Company, Role: in.Role, Identification: in.Identification, Language: in.QuoteData.Language},
		answers,
		s.defaultLang,
		s.now(),
	)

	req := &Request{
		Type:        RequestTypeQuote,
		Recipient:   s.recipient,
		Description: fmt.Sprintf("Quote request from %s (%s)", record.ClientInfo.FullName, record.ClientInfo.Company),
		Metadata: RequestMetadata{
			TotalPrice:     record.TotalPrice,
			TotalHours:     record.TotalHours,
			EstimatedWeeks: record.Summary.EstimatedWeeks,
			Answers:        answers,
			Stages:         record.QuoteDetails,
			Source:         "quote-calculator",
		},
		DueDate: s.now().UTC().Add(quoteDueIn),
	}

	return s.capture(ctx, span, record, req, meta)
}

// capture runs the shared tail of both submission flows. The lead
// upsert must complete before the request insert, which references the
// lead by id. There is no compensating delete if the request insert
// fails after the upsert succeeded; the lead record alone is still
// worth keeping.
func (s *CaptureService) capture(ctx context.Context, span trace.Span, record NormalizedLead, req *Request, meta RequestMeta) (*SubmissionResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveCaptureLatency(string(req.Type), time.Since(start).Seconds())
	}()

	score, suspicious := SpamScore(record.ClientInfo, meta)
	span.SetAttributes(
		attribute.String("lead.request_type", string(req.Type)),
		attribute.Int("lead.spam_score", score),
		attribute.Bool("lead.suspicious", suspicious),
	)
	s.metrics.ObserveSpamScore(float64(score))

	if s.limiter != nil && meta.RemoteIP != "" && !s.limiter.Allow(meta.RemoteIP) {
		s.logger.Warn("submission rate limited", "ip", meta.RemoteIP, "type", req.Type)
		s.metrics.ObserveSubmission(string(req.Type), "rate_limited")
		return nil, rateLimited()
	}

	lead := &Lead{
		Email:          record.ClientInfo.Email,
		FirstName:      record.ClientInfo.FirstName,
		LastName:       record.ClientInfo.LastName,
		FullName:       record.ClientInfo.FullName,
		Company:        record.ClientInfo.Company,
		Role:           record.ClientInfo.Role,
		Phone:          record.ClientInfo.Phone,
		Identification: record.ClientInfo.Identification,
		Language:       record.Language,
		SpamScore:      score,
		IsSuspicious:   suspicious,
	}

	leadID, err := s.repo.UpsertLead(ctx, lead)
	if err != nil {
		s.logger.Error("lead upsert failed", "error", err, "type", req.Type)
		s.metrics.ObserveSubmission(string(req.Type), "error")
		return nil, s.categorize(err)
	}
	lead.ID = leadID

	req.Requester = Requester{Type: "lead", ID: leadID}
	requestID, err := s.repo.CreateRequest(ctx, req)
	if err != nil {
		s.logger.Error("request insert failed", "error", err, "lead_id", leadID, "type", req.Type)
		s.metrics.ObserveSubmission(string(req.Type), "error")
		return nil, s.categorize(err)
	}
	req.ID = requestID

	s.logger.Info("submission captured",
		"type", req.Type,
		"lead_id", leadID,
		"request_id", requestID,
		"spam_score", score,
		"suspicious", suspicious,
	)
	s.metrics.ObserveSubmission(string(req.Type), "accepted")

	s.notifyAsync(lead, req)

	return &SubmissionResult{LeadID: leadID, RequestID: requestID}, nil
}

// notifyAsync fires the sales notification without holding up the
// response. The notification uses its own context so a caller
// disconnect cannot cancel it mid-send.
func (s *CaptureService) notifyAsync(lead *Lead, req *Request) {
	if s.notifier == nil {
		return
	}
	leadCopy := *lead
	reqCopy := *req
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.NotifyNewRequest(ctx, &leadCopy, &reqCopy); err != nil {
			s.logger.Error("sales notification failed", "error", err, "request_id", reqCopy.ID)
		}
	}()
}

func (s *CaptureService) categorize(err error) error {
	var capErr *CaptureError
	if errors.As(err, &capErr) {
		return capErr
	}
	return internalError(err)
}

func demoDescription(info ClientInfo, message string) string {
	desc := fmt.Sprintf("Demo request from %s (%s)", info.FullName, info.Company)
	if msg := Sanitize(message); msg != "" {
		desc += ": " + msg
	}
	return desc
}
