package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true")
	}
}

func TestDebug_GatedOnVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %s", "message")
	if buf.Len() > 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %s", "message")
	if got := buf.String(); got != "[DEBUG] shown message\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSection(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Hybrid Search")
	if got := buf.String(); got != "\n=== Hybrid Search ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestError_Unconditional(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("broke: %d", 7)
	if got := buf.String(); got != "[ERROR] broke: 7\n" {
		t.Errorf("unexpected error output: %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
