package leads

import (
	"time"

	"github.com/artemisa-labs/website-api/internal/pricing"
)

// Lead is the canonical contact/business entity. Exactly one Lead
// exists per normalized email; repeat submissions update it in place.
type Lead struct {
	ID             string    `json:"id" dynamodbav:"leadId"`
	Email          string    `json:"email" dynamodbav:"email"`
	FirstName      string    `json:"firstName" dynamodbav:"firstName"`
	LastName       string    `json:"lastName" dynamodbav:"lastName"`
	FullName       string    `json:"fullName" dynamodbav:"fullName"`
	Company        string    `json:"company" dynamodbav:"company"`
	Role           string    `json:"role" dynamodbav:"role"`
	Phone          string    `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Identification string    `json:"identification,omitempty" dynamodbav:"identification,omitempty"`
	Language       string    `json:"language" dynamodbav:"language"`
	SpamScore      int       `json:"spamScore" dynamodbav:"spamScore"`
	IsSuspicious   bool      `json:"isSuspicious" dynamodbav:"isSuspicious"`
	Status         string    `json:"status" dynamodbav:"status"`
	CreatedAt      time.Time `json:"timestamp" dynamodbav:"timestamp"`
	LastUpdated    time.Time `json:"lastUpdated" dynamodbav:"lastUpdated"`
}

// RequestType distinguishes demo from quote submissions.
type RequestType string

const (
	RequestTypeDemo  RequestType = "demo"
	RequestTypeQuote RequestType = "quote"
)

// StatusActive is the lifecycle status assigned to every lead.
const StatusActive = "active"

// StatusPending is the initial status of every request. Transitions are
// handled by the sales tooling, not by this service.
const StatusPending = "pending"

// Requester links a request back to the lead that made it.
type Requester struct {
	Type string `json:"type" dynamodbav:"type"`
	ID   string `json:"id" dynamodbav:"id"`
}

// RequestMetadata carries the type-specific payload of a request.
// Quote requests store the computed totals and the full answer
// breakdown; demo requests store qualification hints.
type RequestMetadata struct {
	TotalPrice     int              `json:"totalPrice,omitempty" dynamodbav:"totalPrice,omitempty"`
	TotalHours     int              `json:"totalHours,omitempty" dynamodbav:"totalHours,omitempty"`
	EstimatedWeeks int              `json:"estimatedWeeks,omitempty" dynamodbav:"estimatedWeeks,omitempty"`
	Answers        []pricing.Answer `json:"answers,omitempty" dynamodbav:"answers,omitempty"`
	Stages         []QuoteDetail    `json:"stages,omitempty" dynamodbav:"stages,omitempty"`

	OrganizationSize string `json:"organizationSize,omitempty" dynamodbav:"organizationSize,omitempty"`
	Source           string `json:"source,omitempty" dynamodbav:"source,omitempty"`
	Priority         string `json:"priority,omitempty" dynamodbav:"priority,omitempty"`
}

// Request is a single demo or quote submission event. Requests are
// never deduplicated; multiple requests may reference the same lead.
type Request struct {
	ID          string          `json:"id" dynamodbav:"requestId"`
	Type        RequestType     `json:"type" dynamodbav:"type"`
	Requester   Requester       `json:"requester" dynamodbav:"requester"`
	Recipient   string          `json:"recipient" dynamodbav:"recipient"`
	Description string          `json:"description" dynamodbav:"description"`
	Status      string          `json:"status" dynamodbav:"status"`
	Metadata    RequestMetadata `json:"metadata" dynamodbav:"metadata"`
	DueDate     time.Time       `json:"dueDate" dynamodbav:"dueDate"`
	CreatedAt   time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" dynamodbav:"updatedAt"`
}

// ClientInfo is the contact/business portion of a normalized record.
type ClientInfo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	Role           string `json:"role"`
	Identification string `json:"identification"`
}

// QuoteDetail is one entry of the fixed 8-stage quote breakdown.
type QuoteDetail struct {
	StageID   string `json:"stageId" dynamodbav:"stageId"`
	Stage     string `json:"stage" dynamodbav:"stage"`
	Selection string `json:"selection" dynamodbav:"selection"`
	Price     int    `json:"price" dynamodbav:"price"`
	Hours     int    `json:"hours" dynamodbav:"hours"`
	Included  bool   `json:"included" dynamodbav:"included"`
}

// NormalizedLead is the canonical record produced by the normalizer:
// contact data, the 8-entry quote breakdown and computed totals, ready
// for scoring and persistence.
type NormalizedLead struct {
	ClientInfo   ClientInfo      `json:"clientInfo"`
	QuoteDetails []QuoteDetail   `json:"quoteDetails"`
	TotalPrice   int             `json:"totalPrice"`
	TotalHours   int             `json:"totalHours"`
	Language     string          `json:"language"`
	Summary      pricing.Summary `json:"summary"`
}

// ListLeadsFilter bounds admin lead listings.
type ListLeadsFilter struct {
	Limit          int
	Offset         int
	OnlySuspicious bool
}

// ListRequestsFilter bounds admin request listings.
type ListRequestsFilter struct {
	Limit  int
	Offset int
	Type   RequestType
}
