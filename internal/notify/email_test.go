package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Artemisa AI" {
		t.Errorf("expected default from name 'Artemisa AI', got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{
		client: nil,
	}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

type fakeSES struct {
	sent []*sesv2.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	ses := &fakeSES{}
	sender := NewSESSender(ses, SESConfig{FromEmail: "no-reply@artemisa.ai"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "sales@artemisa.ai",
		Subject: "Test Subject",
		Body:    "Plain text",
		HTML:    "<p>HTML</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(ses.sent) != 1 {
		t.Fatalf("sent %d emails", len(ses.sent))
	}

	in := ses.sent[0]
	if got := aws.ToString(in.FromEmailAddress); got != "Artemisa AI <no-reply@artemisa.ai>" {
		t.Errorf("from = %q", got)
	}
	if in.Destination.ToAddresses[0] != "sales@artemisa.ai" {
		t.Errorf("to = %v", in.Destination.ToAddresses)
	}
	if in.Content.Simple.Body.Text == nil || in.Content.Simple.Body.Html == nil {
		t.Error("both text and html bodies should be set")
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "no-reply@artemisa.ai"}, nil)

	if err := sender.Send(context.Background(), EmailMessage{To: "sales@artemisa.ai", Subject: "x", Body: "y"}); err == nil {
		t.Error("expected error from failed send")
	}
}

func TestNewSESSender_NilClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{}, nil); sender != nil {
		t.Error("expected nil sender without a client")
	}
}
