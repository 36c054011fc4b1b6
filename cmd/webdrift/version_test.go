package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version resolution without ldflags.
func TestGetVersion(t *testing.T) {
	if got := getVersion(); got == "" {
		t.Error("expected a non-empty version string")
	}
}

// TestVersionCmd tests the version subcommand output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "webdrift version") {
		t.Errorf("expected version line, got %q", got)
	}
	if !strings.Contains(got, "commit:") || !strings.Contains(got, "built:") {
		t.Errorf("expected commit and build date lines, got %q", got)
	}
}
