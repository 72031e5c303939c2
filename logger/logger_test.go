package logger_test

import (
	"strings"
	"testing"

	"github.com/db47h/hwbridge/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()
	var b strings.Builder

	logger.Write(&b)
	if b.String() != "" {
		t.Fatalf("expected empty log, got %q", b.String())
	}

	logger.Log("test", "this is a test")
	logger.Write(&b)
	if got, want := b.String(), "test: this is a test\n"; got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}

	b.Reset()
	logger.Logf("test2", "this is test #%d", 2)
	logger.Write(&b)
	if got, want := b.String(), "test: this is a test\ntest2: this is test #2\n"; got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}

	// asking for too many entries in a Tail() should be okay
	b.Reset()
	logger.Tail(&b, 100)
	if got, want := b.String(), "test: this is a test\ntest2: this is test #2\n"; got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}

	b.Reset()
	logger.Tail(&b, 1)
	if got, want := b.String(), "test2: this is test #2\n"; got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}

	b.Reset()
	logger.Tail(&b, 0)
	if b.String() != "" {
		t.Fatalf("expected no entries, got %q", b.String())
	}
}

func TestLogger_repeat(t *testing.T) {
	logger.Clear()
	var echo strings.Builder
	logger.SetEcho(&echo)
	defer logger.SetEcho(nil)

	logger.Log("uart", "queue\nfull")
	logger.Log("uart", "queuefull")
	logger.Log("uart", "queuefull")

	e := logger.Entries()
	if len(e) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(e))
	}
	if got, want := e[0].String(), "uart: queuefull (repeat x3)\n"; got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}
	if got := strings.Count(echo.String(), "\n"); got != 3 {
		t.Fatalf("expected 3 echoed lines, got %d", got)
	}
}

func TestLogger_max(t *testing.T) {
	logger.Clear()
	for i := 0; i < 1000; i++ {
		logger.Logf("tag", "entry %d", i)
	}
	e := logger.Entries()
	if len(e) != 256 {
		t.Fatalf("expected 256 entries, got %d", len(e))
	}
	if e[len(e)-1].Detail != "entry 999" {
		t.Fatalf("last entry = %q", e[len(e)-1].Detail)
	}
}
