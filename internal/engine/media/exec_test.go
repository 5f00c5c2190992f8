package media

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestRunCommandSuccess(t *testing.T) {
	out, err := RunCommand(exec.Command("sh", "-c", "echo hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("out = %q", out)
	}
}

func TestRunCommandExitError(t *testing.T) {
	_, err := RunCommand(exec.Command("sh", "-c", "echo it broke; exit 3"))
	if err == nil {
		t.Fatal("expected error")
	}

	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecError, got %T: %v", err, err)
	}
	if ee.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", ee.ExitCode)
	}
	// Failure reasons land on stdout for these tools, so the message
	// carries the captured output.
	if !strings.Contains(ee.Error(), "it broke") {
		t.Errorf("output missing from error: %q", ee.Error())
	}
}

func TestTail(t *testing.T) {
	if got := tail("abcdef", 3); got != "def" {
		t.Errorf("tail = %q, want %q", got, "def")
	}
	if got := tail("ab", 3); got != "ab" {
		t.Errorf("tail = %q, want %q", got, "ab")
	}
}
