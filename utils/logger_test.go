package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected non-verbose after SetVerbose(false)")
	}
}

func TestVerboseSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Verbose("hidden %s", "message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Error("debug output should be suppressed when not verbose")
	}

	SetVerbose(true)
	Verbose("shown %s", "message")
	if !strings.Contains(buf.String(), "shown message") {
		t.Error("debug output should appear when verbose")
	}
}
