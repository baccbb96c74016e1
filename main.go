package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	pidFlag       int
	rateFlag      int
	freezeFlag    bool
	echoFlag      bool
	idleFlag      bool
	pySpyArgsFlag string
	debugFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "flametui [file]",
	Short: "Interactive flamegraph viewer for the terminal",
	Long: `flametui renders profiling data as an interactive terminal flamegraph.

It reads folded stacks, pprof protobuf, or JFR recordings from a file or
stdin, or attaches to a running Python process with py-spy and builds the
graph live while you browse it.`,
	Version:       "0.2.0",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVar(&pidFlag, "pid", 0, "profile a running process live instead of reading a file")
	rootCmd.Flags().IntVar(&rateFlag, "rate", defaultSampleRate, "live sampling cycles per second")
	rootCmd.Flags().BoolVar(&freezeFlag, "freeze", false, "start a live session frozen")
	rootCmd.Flags().BoolVar(&echoFlag, "echo", false, "print the ingested stacks as folded lines on exit")
	rootCmd.Flags().BoolVar(&idleFlag, "idle", false, "include idle threads when sampling live")
	rootCmd.Flags().StringVar(&pySpyArgsFlag, "py-spy-args", "", "extra arguments passed to py-spy dump")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "log debug details to flametui-debug.log and show timings")
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger(debugFlag)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := appConfig{
		ctx:    ctx,
		cancel: cancel,
		debug:  debugFlag,
		log:    log,
	}

	if pidFlag > 0 {
		if len(args) > 0 {
			return errors.New("cannot combine a file argument with --pid")
		}
		if err := probeProcess(pidFlag); err != nil {
			return err
		}
		cfg.tree = NewFrameTree()
		cfg.stats = &IngestStats{Format: FormatLive, Unit: "samples"}
		cfg.live = newLiveFeed(pidFlag, rateFlag, freezeFlag)
		sampler := NewPySpySampler(pidFlag, idleFlag, strings.Fields(pySpyArgsFlag), log)
		defer sampler.Close()
		cfg.sampler = sampler
		cfg.source = fmt.Sprintf("pid %d", pidFlag)
	} else {
		path := ""
		cfg.source = "stdin"
		if len(args) > 0 {
			path = args[0]
			cfg.source = path
		}
		data, err := readInput(path)
		if err != nil {
			return err
		}
		tree, stats, err := LoadProfile(data)
		if err != nil {
			return err
		}
		cfg.tree = tree
		cfg.stats = stats
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if echoFlag {
		if fm, ok := final.(model); ok {
			return WriteFolded(os.Stdout, fm.tree)
		}
	}
	return nil
}

// newLogger stays silent unless --debug routes it to a log file; writing to
// the terminal would fight the UI for the screen.
func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if debug {
		f, err := os.OpenFile("flametui-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			log.SetOutput(f)
			log.SetLevel(logrus.DebugLevel)
		}
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
