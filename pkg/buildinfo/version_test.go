package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date, "go: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", tmpl)
	}
}
