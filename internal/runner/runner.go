// Package runner hands Aron programs to the external interpreter through the
// platform shell.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Terminal accepts shell command lines.
type Terminal interface {
	SendText(ctx context.Context, line string) error
}

// CommandLine builds `<interpreter> <quoted abs path>`. The path is quoted for
// the shell ShellTerminal uses; see quotePath.
func CommandLine(interpreter, path string) (string, error) {
	interpreter = strings.TrimSpace(interpreter)
	if interpreter == "" {
		return "", errors.New("interpreter command is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return interpreter + " " + quotePath(abs, runtime.GOOS), nil
}

// quotePath single-quotes p for sh, writing each ' as '\''. cmd.exe has no
// escape for a double quote inside quotes, but Windows paths cannot contain
// one, so double quotes are enough there.
func quotePath(p, goos string) string {
	if goos == "windows" {
		return `"` + p + `"`
	}
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}

// ShellTerminal runs each line with `sh -c` (`cmd /C` on Windows). With Wait
// unset the process is started and left running; its exit is reported to
// OnExit if set.
type ShellTerminal struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Wait   bool
	OnExit func(line string, err error)
}

func (t *ShellTerminal) SendText(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return errors.New("empty command line")
	}
	cmd := shellCommand(ctx, line)
	cmd.Dir = t.Dir
	cmd.Stdin = t.Stdin
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr

	if t.Wait {
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run %q: %w", line, err)
		}
		return nil
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", line, err)
	}
	go func() {
		err := cmd.Wait()
		if t.OnExit != nil {
			t.OnExit(line, err)
		}
	}()
	return nil
}

func shellCommand(ctx context.Context, line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", line)
	}
	return exec.CommandContext(ctx, "sh", "-c", line)
}
