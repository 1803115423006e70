// Package shell runs committed input lines as shell commands under a pty and
// streams their output back line by line.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"termcanvas/internal/logger"

	"github.com/creack/pty"
)

var log = logger.Named("shell")

// ErrStartPTY 表示无法分配伪终端。
var ErrStartPTY = errors.New("failed to start pty")

// DefaultTimeout 是单条命令的最长运行时间。
const DefaultTimeout = 2 * time.Minute

// Runner 描述命令的执行方式。
type Runner struct {
	Shell   string
	Workdir string
	Timeout time.Duration
}

// RunCommand 以默认 Runner（bash）执行命令，输出实时写入 w。
func RunCommand(ctx context.Context, workdir string, command string, w io.Writer) error {
	return Runner{Workdir: workdir}.Run(ctx, command, w)
}

// Run executes command through "<shell> -lc" attached to a pty and copies the
// combined output to w until the process exits.
func (r Runner) Run(ctx context.Context, command string, w io.Writer) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty command")
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sh := r.Shell
	if sh == "" {
		sh = "bash"
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, sh, "-lc", command)
	if r.Workdir != "" {
		cmd.Dir = r.Workdir
	}
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStartPTY, err)
	}
	defer ptmx.Close()

	done := make(chan struct{})
	go func() {
		// EIO on the master side marks the end of output on Linux.
		_, _ = io.Copy(w, ptmx)
		close(done)
	}()

	err = cmd.Wait()
	ptmx.Close()
	<-done
	log.WithField("command", command).WithField("exit_code", ExitCode(err)).Debug("command finished")
	if err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// ExitCode 从 Wait 的错误中提取退出码；nil 为 0，非退出错误为 -1。
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
