// internal/app/system/sanitize/sanitize.go
//
// Package sanitize cleans free-text fields (follow-up notes, enquiry
// answers) before they are stored. Counselor input may arrive from rich
// text editors; only harmless inline markup survives.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var notePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "br", "p", "ul", "ol", "li")
	return p
}()

var strictPolicy = bluemonday.StrictPolicy()

// Note sanitizes rich-text note content, keeping basic inline markup.
func Note(s string) string {
	return notePolicy.Sanitize(s)
}

// Plain strips all markup, returning text only.
func Plain(s string) string {
	return strictPolicy.Sanitize(s)
}
