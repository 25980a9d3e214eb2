package leads

import "strings"

// angleStripper removes characters that could open HTML tags in any
// downstream rendering of stored lead data.
var angleStripper = strings.NewReplacer("<", "", ">", "")

// Sanitize trims whitespace and strips angle brackets from a free-form
// string field.
func Sanitize(s string) string {
	return strings.TrimSpace(angleStripper.Replace(s))
}

// NormalizeEmail lower-cases and trims an email address. All lead
// uniqueness is keyed on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sanitizeLead applies Sanitize to every free-form string field of a
// lead and normalizes its email.
func sanitizeLead(l *Lead) {
	l.Email = NormalizeEmail(l.Email)
	l.FirstName = Sanitize(l.FirstName)
	l.LastName = Sanitize(l.LastName)
	l.FullName = Sanitize(l.FullName)
	l.Company = Sanitize(l.Company)
	l.Role = Sanitize(l.Role)
	l.Phone = Sanitize(l.Phone)
	l.Identification = Sanitize(l.Identification)
}
