package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ProfileFormat identifies how an input payload encodes its samples.
type ProfileFormat string

const (
	FormatFolded ProfileFormat = "folded"
	FormatPprof  ProfileFormat = "pprof"
	FormatJFR    ProfileFormat = "jfr"
	FormatLive   ProfileFormat = "live"
)

// IngestStats summarizes one ingestion pass for the status line. Unit names
// what the tree's weights measure: "samples" for folded and JFR input, the
// selected sample type's unit for pprof.
type IngestStats struct {
	Format  ProfileFormat
	Unit    string
	Stacks  int
	Skipped int
}

// readInput slurps the profile bytes from a file path, or from stdin when
// path is "-" or empty. The raw bytes are kept whole so echo mode can pass
// them through unmodified.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadProfile detects the payload format, decodes it, and builds the frame
// tree. Gzip payloads are unwrapped first regardless of inner format.
func LoadProfile(data []byte) (*FrameTree, *IngestStats, error) {
	data, err := maybeGunzip(data)
	if err != nil {
		return nil, nil, err
	}

	tree := NewFrameTree()
	stats := &IngestStats{Format: detectFormat(data), Unit: "samples"}

	switch stats.Format {
	case FormatJFR:
		err = parseJFRProfile(tree, data, stats)
	case FormatPprof:
		err = parsePprofProfile(tree, data, stats)
	default:
		err = parseFoldedProfile(tree, bytes.NewReader(data), stats)
	}
	if err != nil {
		return nil, nil, err
	}
	return tree, stats, nil
}

var jfrMagic = []byte("FLR\x00")

func detectFormat(data []byte) ProfileFormat {
	if bytes.HasPrefix(data, jfrMagic) {
		return FormatJFR
	}
	// Folded stacks are plain text; a NUL this early means a protobuf
	// payload.
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return FormatPprof
	}
	return FormatFolded
}

func maybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gunzip input: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gunzip input: %w", err)
	}
	return out, nil
}

// parseFoldedLine splits one folded line "frame1;frame2;...;frameN weight"
// at the last whitespace run. Blank lines, comment lines starting with '#',
// and lines without a positive integer weight report ok=false.
func parseFoldedLine(line string) (Stack, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Stack{}, false
	}
	idx := strings.LastIndexAny(line, " \t")
	if idx < 0 {
		return Stack{}, false
	}
	path := strings.TrimSpace(line[:idx])
	weight, err := strconv.ParseInt(strings.TrimSpace(line[idx+1:]), 10, 64)
	if err != nil || weight <= 0 || path == "" {
		return Stack{}, false
	}
	return Stack{Frames: strings.Split(path, ";"), Weight: weight}, true
}

// WriteFolded serializes the tree back to folded lines, one per call path
// holding self weight. Feeding the output back in reproduces the tree.
func WriteFolded(w io.Writer, tree *FrameTree) error {
	bw := bufio.NewWriter(w)
	var path []string
	tree.Walk(RootID, func(id NodeID, depth int) bool {
		if id == RootID {
			return true
		}
		path = append(path[:depth-1], tree.Name(id))
		if self := tree.Self(id); self > 0 {
			fmt.Fprintf(bw, "%s %d\n", strings.Join(path, ";"), self)
		}
		return true
	})
	return bw.Flush()
}

// parseFoldedProfile ingests folded-stack text line by line. Malformed lines
// are counted and skipped; they never abort the rest of the input.
func parseFoldedProfile(tree *FrameTree, r io.Reader, stats *IngestStats) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		s, ok := parseFoldedLine(raw)
		if !ok {
			// Blank lines and comments are not worth a warning.
			if t := strings.TrimSpace(raw); t != "" && !strings.HasPrefix(t, "#") {
				stats.Skipped++
			}
			continue
		}
		if err := tree.Insert(s.Frames, s.Weight); err != nil {
			stats.Skipped++
			continue
		}
		stats.Stacks++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading folded stacks: %w", err)
	}
	return nil
}
