package field

import (
	"regexp"
	"strings"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// PublicSuffixList decides whether a domain's suffix is a registered
// public suffix. It is a dependency of EmailField rather than a hardcoded
// check, so a host can swap in a fuller implementation or disable the
// check entirely by passing nil (spec §4.3's public-suffix rule is noted
// there as configurable).
type PublicSuffixList interface {
	IsPublicSuffix(domain string) bool
}

// embeddedSuffixList is a small built-in set covering the common TLDs
// good enough to reject obviously-fake domains without a network lookup
// or a large generated table.
type embeddedSuffixList struct{}

var knownSuffixes = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"io": true, "co": true, "dev": true, "app": true, "me": true,
	"us": true, "uk": true, "ca": true, "de": true, "fr": true,
	"jp": true, "au": true, "info": true, "biz": true, "name": true,
}

func (embeddedSuffixList) IsPublicSuffix(domain string) bool {
	parts := strings.Split(domain, ".")
	tld := strings.ToLower(parts[len(parts)-1])
	return knownSuffixes[tld]
}

// DefaultPublicSuffixList is the embedded fallback used when a field
// definition doesn't supply its own PublicSuffixList.
var DefaultPublicSuffixList PublicSuffixList = embeddedSuffixList{}

var emailSyntax = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailField trims input, maps empty to nil when optional, checks
// RFC-style syntax, and — unless Suffixes is nil — rejects an unknown
// public suffix (spec §4.3).
type EmailField struct {
	Set      location.Location
	Optional bool
	Default  *string
	Label    *template.Template

	Suffixes PublicSuffixList

	RequireValue        *string
	RequireValueMessage string
}

func (f *EmailField) Kind() string                  { return "email" }
func (f *EmailField) SetLocation() location.Location { return f.Set }

func (f *EmailField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &ValidationError{Reason: "expected a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return s, nil
}

func (f *EmailField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if !f.Optional {
			return nil, &ValidationError{Field: name, Reason: "a value is required"}
		}
		return nil, nil
	}
	s := coerced.(string)
	if !emailSyntax.MatchString(s) {
		return nil, &ValidationError{Field: name, Reason: "not a valid email address"}
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	if f.Suffixes != nil && !f.Suffixes.IsPublicSuffix(domain) {
		return nil, &ValidationError{Field: name, Reason: "unrecognized email domain"}
	}
	if f.RequireValue != nil && s != *f.RequireValue {
		msg := f.RequireValueMessage
		if msg == "" {
			msg = "required"
		}
		return nil, &ValidationError{Field: name, Reason: msg}
	}
	return s, nil
}

func (f *EmailField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	a := AskField{Type: "email", Optional: f.Optional, Label: label}
	if f.Default != nil {
		a.Default = *f.Default
	}
	return a, nil
}
