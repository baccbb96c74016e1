package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

type frameLoc struct {
	file string
	line int
}

// frameLocation parses the trailing "(file:line)" that py-spy style frame
// names carry, e.g. `work (busy.py:9)`. Names without one report ok=false.
func frameLocation(name string) (frameLoc, bool) {
	if !strings.HasSuffix(name, ")") {
		return frameLoc{}, false
	}
	i := strings.LastIndex(name, " (")
	if i < 0 {
		return frameLoc{}, false
	}
	inner := name[i+2 : len(name)-1]
	colon := strings.LastIndex(inner, ":")
	if colon <= 0 {
		return frameLoc{}, false
	}
	line, err := strconv.Atoi(inner[colon+1:])
	if err != nil || line < 1 {
		return frameLoc{}, false
	}
	return frameLoc{file: inner[:colon], line: line}, true
}

// languageForFile maps a source path to a chroma lexer name.
func languageForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".rs":
		return "rust"
	case ".rb":
		return "ruby"
	case ".js":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".c", ".h":
		return "c"
	case ".cc", ".cpp", ".hpp":
		return "cpp"
	case ".java":
		return "java"
	default:
		return "text"
	}
}

// getHighlightedSource reads a file, highlights it, and adds line numbers and an arrow.
func getHighlightedSource(filePath string, targetLine int) string {
	if filePath == "" {
		return "No source file available."
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s:\n%v", filePath, err)
	}

	// Use Chroma for syntax highlighting
	var highlighted bytes.Buffer
	err = quick.Highlight(&highlighted, string(content), languageForFile(filePath), "terminal256", "monokai")
	if err != nil {
		// Fallback to plain text if highlighting fails
		highlighted.WriteString(string(content))
	}

	lines := strings.Split(highlighted.String(), "\n")
	var result strings.Builder

	for i, line := range lines {
		lineNumber := i + 1
		lineHeader := fmt.Sprintf("%4d | ", lineNumber)
		if lineNumber == targetLine {
			// Add an arrow to the target line
			lineHeader = "  -> | "
		}
		result.WriteString(lineHeader + line + "\n")
	}

	return result.String()
}
