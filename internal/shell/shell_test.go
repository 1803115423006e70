package shell

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLineWriterSplitsStreamedOutput(t *testing.T) {
	var got []string
	w := NewLineWriter(func(line string) { got = append(got, line) })

	for _, chunk := range []string{"he", "llo\r\nwor", "ld\n", "\n", "tail"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	want := []string{"hello", "world", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("before close got %q, want %q", got, want)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want = append(want, "tail")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("after close got %q, want %q", got, want)
	}
	_ = w.Close()
	if len(got) != len(want) {
		t.Fatalf("second Close should not emit again")
	}
}

func TestRunCommandRejectsEmpty(t *testing.T) {
	if err := RunCommand(context.Background(), "", "   ", nil); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestRunCommandStreamsThroughPTY(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var lines []string
	w := NewLineWriter(func(line string) { lines = append(lines, line) })
	err := Runner{Shell: "sh", Workdir: t.TempDir()}.Run(ctx, `printf 'one\ntwo\n'; exit 3`, w)
	if errors.Is(err, ErrStartPTY) {
		t.Skipf("pty unavailable: %v", err)
	}
	_ = w.Close()
	if err == nil {
		t.Fatalf("expected exit error")
	}
	if !strings.Contains(strings.Join(lines, "|"), "one|two") {
		t.Fatalf("lines = %q", lines)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("nil error should map to 0")
	}
	if ExitCode(errors.New("boom")) != -1 {
		t.Fatalf("non-exit error should map to -1")
	}
}
