package main

import (
	"bytes"
	"fmt"

	"github.com/google/pprof/profile"
)

// parsePprofProfile folds a pprof protobuf payload into the tree. pprof
// stacks are ordered callee to caller, so locations are walked in reverse;
// inlined frames within a location expand outermost-first. The profile's
// default sample type picks which value column weights the tree, falling
// back to the last column.
func parsePprofProfile(tree *FrameTree, data []byte, stats *IngestStats) error {
	p, err := profile.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("could not parse pprof data: %w", err)
	}
	if len(p.SampleType) == 0 {
		return fmt.Errorf("pprof profile has no sample types")
	}
	idx := sampleValueIndex(p)
	stats.Unit = p.SampleType[idx].Unit

	frames := make([]string, 0, 64)
	for _, s := range p.Sample {
		if idx >= len(s.Value) {
			stats.Skipped++
			continue
		}
		val := s.Value[idx]
		if val <= 0 {
			continue
		}
		frames = frames[:0]
		for i := len(s.Location) - 1; i >= 0; i-- {
			loc := s.Location[i]
			if len(loc.Line) == 0 {
				frames = append(frames, fmt.Sprintf("0x%x", loc.Address))
				continue
			}
			for j := len(loc.Line) - 1; j >= 0; j-- {
				frames = append(frames, frameNameForLine(loc, j))
			}
		}
		if len(frames) == 0 {
			stats.Skipped++
			continue
		}
		if err := tree.Insert(frames, val); err != nil {
			stats.Skipped++
			continue
		}
		stats.Stacks++
	}
	return nil
}

func sampleValueIndex(p *profile.Profile) int {
	idx := len(p.SampleType) - 1
	if p.DefaultSampleType != "" {
		for i, st := range p.SampleType {
			if st.Type == p.DefaultSampleType {
				idx = i
			}
		}
	}
	return idx
}

func frameNameForLine(loc *profile.Location, j int) string {
	if fn := loc.Line[j].Function; fn != nil && fn.Name != "" {
		return fn.Name
	}
	return fmt.Sprintf("0x%x", loc.Address)
}
