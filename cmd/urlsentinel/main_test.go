package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "urlsentinel version dev") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestScanCmd_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "whitespace", url: "exa mple.com", want: "invalid URL format"},
		{name: "unsupported scheme", url: "ftp://example.com", want: "invalid URL format"},
		{name: "no dot", url: "localhost", want: "invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "scan", "--log-level", "error", tt.url)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestScanCmd_RequiresArgument(t *testing.T) {
	if _, err := execute(t, "scan"); err == nil {
		t.Error("Expected error without a URL")
	}
}

func TestRootCmd_InvalidFlagValue(t *testing.T) {
	_, err := execute(t, "scan", "--classifier", "neural", "example.com")
	if err == nil || !strings.Contains(err.Error(), "invalid classifier mode") {
		t.Errorf("Expected classifier validation error, got %v", err)
	}
}
