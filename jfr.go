package main

import (
	"fmt"
	"io"

	"github.com/grafana/jfr-parser/parser"
	"github.com/grafana/jfr-parser/parser/types"
)

// parseJFRProfile folds the execution samples of a JFR recording into the
// tree, weight 1 per sample. Frames resolve through the recording's constant
// pools to "Class.method" names and arrive leaf-first, so each stack is
// reversed on the way in.
func parseJFRProfile(tree *FrameTree, data []byte, stats *IngestStats) error {
	p := parser.NewParser(data, parser.Options{})
	for {
		typ, err := p.ParseEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parse jfr event: %w", err)
		}
		if typ != p.TypeMap.T_EXECUTION_SAMPLE {
			continue
		}
		st := p.GetStacktrace(p.ExecutionSample.StackTrace)
		if st == nil || len(st.Frames) == 0 {
			stats.Skipped++
			continue
		}
		n := len(st.Frames)
		frames := make([]string, n)
		for i, f := range st.Frames {
			frames[n-1-i] = resolveJFRFrame(p, f)
		}
		if err := tree.Insert(frames, 1); err != nil {
			stats.Skipped++
			continue
		}
		stats.Stacks++
	}
	return nil
}

func resolveJFRFrame(p *parser.Parser, sf types.StackFrame) string {
	method := p.GetMethod(sf.Method)
	if method == nil {
		return "<unknown>"
	}
	className := ""
	if class := p.GetClass(method.Type); class != nil {
		className = p.GetSymbolString(class.Name)
	}
	methodName := p.GetSymbolString(method.Name)
	if className == "" {
		return methodName
	}
	return className + "." + methodName
}
