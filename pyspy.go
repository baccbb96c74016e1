package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// PySpySampler shells out to py-spy's dump subcommand once per cycle and
// folds the reported thread stacks, one sample per thread.
type PySpySampler struct {
	pid         int
	includeIdle bool
	extraArgs   []string
	log         *logrus.Logger
}

func NewPySpySampler(pid int, includeIdle bool, extraArgs []string, log *logrus.Logger) *PySpySampler {
	return &PySpySampler{pid: pid, includeIdle: includeIdle, extraArgs: extraArgs, log: log}
}

func (s *PySpySampler) Sample(ctx context.Context) ([]Stack, error) {
	args := []string{"dump", "--pid", strconv.Itoa(s.pid)}
	args = append(args, s.extraArgs...)

	out, err := exec.CommandContext(ctx, "py-spy", args...).Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, s.classify(err)
	}
	return parsePySpyDump(out, s.includeIdle), nil
}

func (s *PySpySampler) Close() error { return nil }

// classify turns a failed dump into one of the terminal sentinels where the
// evidence supports it, otherwise reports it as transient.
func (s *PySpySampler) classify(err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: py-spy not found in PATH", ErrSamplerUnavailable)
	}

	var stderr string
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr = firstLine(string(exitErr.Stderr))
	}
	s.log.WithFields(logrus.Fields{
		"pid":    s.pid,
		"stderr": stderr,
	}).Debug("py-spy dump failed")

	// The kernel's view of the pid beats whatever py-spy printed.
	if perr := probeProcess(s.pid); perr != nil {
		return perr
	}

	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "no such process"),
		strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "failed to find"):
		return fmt.Errorf("%w: pid %d", ErrProcessNotFound, s.pid)
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "operation not permitted"):
		return fmt.Errorf("%w: pid %d", ErrPermissionDenied, s.pid)
	}
	if stderr != "" {
		return fmt.Errorf("py-spy dump: %s", stderr)
	}
	return fmt.Errorf("py-spy dump: %w", err)
}

// parsePySpyDump folds py-spy's thread listing. Frames arrive innermost
// first and are reversed to root-first order. Idle threads are skipped
// unless asked for.
func parsePySpyDump(out []byte, includeIdle bool) []Stack {
	var stacks []Stack
	var frames []string
	active := false

	flush := func() {
		if active && len(frames) > 0 {
			rev := make([]string, len(frames))
			for i, f := range frames {
				rev[len(frames)-1-i] = f
			}
			stacks = append(stacks, Stack{Frames: rev, Weight: 1})
		}
		frames = frames[:0]
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Thread "):
			flush()
			active = includeIdle || !isIdleThread(trimmed)
		case trimmed == "":
			flush()
		case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
			frames = append(frames, trimmed)
		default:
			// Process and interpreter headers before the first thread.
		}
	}
	flush()
	return stacks
}

// isIdleThread inspects the parenthesized status in a thread header like
// `Thread 5678 (idle): "MainThread"`. Only the status counts; a thread
// named "idle" stays active.
func isIdleThread(header string) bool {
	open := strings.IndexByte(header, '(')
	if open < 0 {
		return false
	}
	end := strings.IndexByte(header[open:], ')')
	if end < 0 {
		return false
	}
	return strings.Contains(header[open:open+end], "idle")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
