package leads

import "strings"

// Spam scoring weights. Additive; the score annotates a submission but
// never rejects it.
const (
	weightDisposableDomain = 50
	weightBotUserAgent     = 30
	weightShortName        = 10
	weightMissingCompany   = 10
	weightNoReferer        = 10

	// SuspiciousThreshold marks leads whose score warrants manual review.
	SuspiciousThreshold = 50
)

// disposableDomains lists throwaway email providers. Membership adds
// the heaviest weight on its own.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"temp-mail.org":     {},
	"trashmail.com":     {},
	"yopmail.com":       {},
	"sharklasers.com":   {},
	"getnada.com":       {},
	"dispostable.com":   {},
	"maildrop.cc":       {},
	"throwawaymail.com": {},
}

// RequestMeta carries the HTTP-level signals used by the scorer and
// the rate limiter.
type RequestMeta struct {
	UserAgent string
	Referer   string
	Origin    string
	RemoteIP  string
}

// SpamScore computes the heuristic risk score for a candidate lead.
// Returns the score and whether it crosses the suspicious threshold.
// This is a heuristic, not a security control.
func SpamScore(info ClientInfo, meta RequestMeta) (int, bool) {
	score := 0

	if isDisposableDomain(info.Email) {
		score += weightDisposableDomain
	}
	if strings.Contains(strings.ToLower(meta.UserAgent), "bot") {
		score += weightBotUserAgent
	}
	if len(strings.TrimSpace(info.FirstName)+strings.TrimSpace(info.LastName)) < 4 {
		score += weightShortName
	}
	if len(strings.TrimSpace(info.Company)) < 2 {
		score += weightMissingCompany
	}
	if meta.Referer == "" && meta.Origin == "" {
		score += weightNoReferer
	}

	return score, score >= SuspiciousThreshold
}

func isDisposableDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	_, ok := disposableDomains[domain]
	return ok
}
