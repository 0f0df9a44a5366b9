// internal/app/system/sanitize/sanitize_test.go
package sanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/system/sanitize"
)

func TestNote_KeepsInlineMarkup(t *testing.T) {
	got := sanitize.Note("<p>Called the candidate, <b>very interested</b></p>")
	want := "<p>Called the candidate, <b>very interested</b></p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNote_StripsScripts(t *testing.T) {
	got := sanitize.Note(`<script>alert(1)</script>follow up tomorrow`)
	if strings.Contains(got, "<script>") {
		t.Errorf("script survived: %q", got)
	}
	if !strings.Contains(got, "follow up tomorrow") {
		t.Errorf("text content lost: %q", got)
	}
}

func TestPlain_StripsEverything(t *testing.T) {
	got := sanitize.Plain("<b>Fee</b> <a href='http://x'>query</a>")
	if strings.ContainsAny(got, "<>") {
		t.Errorf("markup survived: %q", got)
	}
}
