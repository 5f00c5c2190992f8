package media

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ExecError wraps a failed external binary run with its exit code and the
// output it produced. yt-dlp and friends print their failure reasons on
// stdout, so that is captured alongside stderr.
type ExecError struct {
	Bin      string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: exit code %d: %s", e.Bin, e.ExitCode, e.Output)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RunCommand executes bin with args and returns combined stdout+stderr.
// A non-zero exit comes back as *ExecError; exit code -1 means the process
// was killed, usually by context cancellation.
func RunCommand(cmd *exec.Cmd) (string, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.String(), &ExecError{
				Bin:      cmd.Path,
				ExitCode: exitErr.ExitCode(),
				Output:   tail(out.String(), 2000),
				Err:      err,
			}
		}
		return out.String(), fmt.Errorf("%s: %w", cmd.Path, err)
	}
	return out.String(), nil
}

// tail keeps the last n bytes of s; failure details sit at the end of tool output.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
