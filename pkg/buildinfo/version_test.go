package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateIncludesVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template() = %q, want it to contain version", Template())
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q, want it to contain version", String())
	}
	if got := UserAgent(); got != "nepdate-go/v1.2.3" {
		t.Errorf("UserAgent() = %q, want %q", got, "nepdate-go/v1.2.3")
	}
}
