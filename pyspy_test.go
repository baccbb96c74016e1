package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

const sampleDump = `Process 12345: python busy.py
Python v3.11.4 (/usr/bin/python3.11)

Thread 12345 (active): "MainThread"
    render (app/render.py:88)
    serve (app/server.py:41)
    main (busy.py:10)
Thread 12346 (idle): "worker-0"
    wait (threading.py:320)
    run (worker.py:55)
Thread 12347 (active+gil)
    tick (app/clock.py:12)
    main (busy.py:10)
`

func stackPaths(stacks []Stack) []string {
	paths := make([]string, len(stacks))
	for i, s := range stacks {
		paths[i] = fmt.Sprintf("%s %d", strings.Join(s.Frames, ";"), s.Weight)
	}
	return paths
}

func TestParsePySpyDump(t *testing.T) {
	stacks := parsePySpyDump([]byte(sampleDump), false)
	want := []string{
		"main (busy.py:10);serve (app/server.py:41);render (app/render.py:88) 1",
		"main (busy.py:10);tick (app/clock.py:12) 1",
	}
	got := stackPaths(stacks)
	if len(got) != len(want) {
		t.Fatalf("got %d stacks %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stack %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParsePySpyDumpIncludeIdle(t *testing.T) {
	stacks := parsePySpyDump([]byte(sampleDump), true)
	if len(stacks) != 3 {
		t.Fatalf("got %d stacks, want 3", len(stacks))
	}
	idle := "run (worker.py:55);wait (threading.py:320) 1"
	if got := stackPaths(stacks)[1]; got != idle {
		t.Errorf("idle stack = %q, want %q", got, idle)
	}
}

func TestParsePySpyDumpNoThreads(t *testing.T) {
	out := "Process 999: python idle.py\nPython v3.11.4 (/usr/bin/python3.11)\n"
	if stacks := parsePySpyDump([]byte(out), true); len(stacks) != 0 {
		t.Errorf("got %d stacks, want 0", len(stacks))
	}
	if stacks := parsePySpyDump(nil, true); len(stacks) != 0 {
		t.Errorf("empty output: got %d stacks, want 0", len(stacks))
	}
}

func TestIsIdleThread(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`Thread 5678 (idle): "MainThread"`, true},
		{`Thread 5678 (active): "MainThread"`, false},
		{`Thread 5678 (active+gil)`, false},
		{`Thread 5678 (active): "idle"`, false},
		{`Thread 5678`, false},
		{`Thread 5678 (idle`, false},
	}
	for _, tt := range tests {
		if got := isIdleThread(tt.header); got != tt.want {
			t.Errorf("isIdleThread(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Error: no such process\nUsage: py-spy dump ...", "Error: no such process"},
		{"  padded  ", "padded"},
		{"single", "single"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifySampleError(t *testing.T) {
	// Using our own pid means probeProcess reports the process alive and
	// the stderr mapping decides the outcome.
	s := NewPySpySampler(os.Getpid(), false, nil, quietLogger())

	exit := func(stderr string) error {
		return &exec.ExitError{Stderr: []byte(stderr)}
	}

	tests := []struct {
		name    string
		err     error
		want    error
		message string
	}{
		{"binary missing", &exec.Error{Name: "py-spy", Err: exec.ErrNotFound}, ErrSamplerUnavailable, ""},
		{"no such process", exit("Error: No such process (os error 3)"), ErrProcessNotFound, ""},
		{"target vanished", exit("Failed to find python version from target process"), ErrProcessNotFound, ""},
		{"permission denied", exit("Permission Denied (os error 13)"), ErrPermissionDenied, ""},
		{"not permitted", exit("Error: Operation not permitted\nTry running as root"), ErrPermissionDenied, ""},
		{"transient with stderr", exit("failed to suspend process"), nil, "failed to suspend process"},
		{"transient opaque", errors.New("wait: broken pipe"), nil, "broken pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.classify(tt.err)
			if tt.want != nil {
				if !errors.Is(got, tt.want) {
					t.Fatalf("classify = %v, want %v", got, tt.want)
				}
				return
			}
			if isTerminalSampleError(got) {
				t.Fatalf("classify = %v, want transient", got)
			}
			if !strings.Contains(got.Error(), tt.message) {
				t.Errorf("classify = %q, want substring %q", got, tt.message)
			}
		})
	}
}

func TestIsTerminalSampleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"process not found", fmt.Errorf("%w: pid 4", ErrProcessNotFound), true},
		{"permission denied", fmt.Errorf("%w: pid 4", ErrPermissionDenied), true},
		{"sampler unavailable", ErrSamplerUnavailable, true},
		{"plain failure", errors.New("py-spy dump: timed out"), false},
		{"nil is not terminal", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTerminalSampleError(tt.err); got != tt.want {
				t.Errorf("isTerminalSampleError = %v, want %v", got, tt.want)
			}
		})
	}
}
