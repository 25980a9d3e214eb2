package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/artemisa-labs/website-api/internal/leads"
	"github.com/artemisa-labs/website-api/pkg/logging"
)

// Service alerts the sales team when a new demo or quote request lands.
// It implements leads.Notifier; failures here never affect the
// submitting user.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a sales notification service. recipients is the
// list of sales inbox addresses.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

var _ leads.Notifier = (*Service)(nil)

// NotifyNewRequest emails the sales team about an accepted submission.
func (s *Service) NotifyNewRequest(ctx context.Context, lead *leads.Lead, req *leads.Request) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: no email sender or recipients configured, skipping")
		return nil
	}

	subject := s.subject(lead, req)
	body := s.textBody(lead, req)
	html := s.htmlBody(lead, req)

	var errs []error
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
			HTML:    html,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send sales email", "error", err, "to", recipient, "request_id", req.ID)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: sales email sent", "to", recipient, "request_id", req.ID, "type", req.Type)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}

func (s *Service) subject(lead *leads.Lead, req *leads.Request) string {
	label := "New Demo Request"
	if req.Type == leads.RequestTypeQuote {
		label = fmt.Sprintf("New Quote Request - $%d", req.Metadata.TotalPrice)
	}
	suffix := ""
	if lead.IsSuspicious {
		suffix = " [suspicious]"
	}
	return fmt.Sprintf("%s - %s (%s)%s", label, lead.FullName, lead.Company, suffix)
}

func (s *Service) textBody(lead *leads.Lead, req *leads.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", req.Description)
	fmt.Fprintf(&b, "Name: %s\n", lead.FullName)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	fmt.Fprintf(&b, "Role: %s\n", lead.Role)
	fmt.Fprintf(&b, "Language: %s\n", lead.Language)
	fmt.Fprintf(&b, "Spam score: %d\n", lead.SpamScore)

	if req.Type == leads.RequestTypeQuote {
		fmt.Fprintf(&b, "\nEstimate: $%d / %d hours / ~%d weeks\n",
			req.Metadata.TotalPrice, req.Metadata.TotalHours, req.Metadata.EstimatedWeeks)
		b.WriteString("\nBreakdown:\n")
		for _, d := range req.Metadata.Stages {
			if d.Included {
				fmt.Fprintf(&b, "  %s: included\n", d.Stage)
				continue
			}
			fmt.Fprintf(&b, "  %s: %s ($%d, %dh)\n", d.Stage, d.Selection, d.Price, d.Hours)
		}
	} else if req.Metadata.OrganizationSize != "" {
		fmt.Fprintf(&b, "Organization size: %s\n", req.Metadata.OrganizationSize)
	}

	fmt.Fprintf(&b, "\nDue by %s.\n\n— Artemisa AI", req.DueDate.Format("Monday, January 2 at 3:04 PM"))
	return b.String()
}

func (s *Service) htmlBody(lead *leads.Lead, req *leads.Request) string {
	var rows strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&rows, `<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`, label, value)
	}
	row("Name", lead.FullName)
	row("Email", fmt.Sprintf(`<a href="mailto:%s">%s</a>`, lead.Email, lead.Email))
	if lead.Phone != "" {
		row("Phone", fmt.Sprintf(`<a href="tel:%s">%s</a>`, lead.Phone, lead.Phone))
	}
	row("Company", lead.Company)
	row("Role", lead.Role)
	if req.Type == leads.RequestTypeQuote {
		row("Estimate", fmt.Sprintf("$%d / %d hours / ~%d weeks", req.Metadata.TotalPrice, req.Metadata.TotalHours, req.Metadata.EstimatedWeeks))
	}
	if req.Metadata.OrganizationSize != "" {
		row("Organization size", req.Metadata.OrganizationSize)
	}
	row("Spam score", fmt.Sprintf("%d", lead.SpamScore))

	banner := ""
	if lead.IsSuspicious {
		banner = `<p style="background: #fef2f2; padding: 12px; border-radius: 8px; border-left: 4px solid #ef4444;"><strong>Flagged suspicious</strong> — review before reaching out.</p>`
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #6366f1;">%s</h2>
<table style="border-collapse: collapse; margin: 20px 0;">%s</table>
%s<p>Due by %s.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— Artemisa AI</p>
</div>`, req.Description, rows.String(), banner, req.DueDate.Format("Monday, January 2 at 3:04 PM"))
}
