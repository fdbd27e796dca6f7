package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
)

// DiagnosticCategory mirrors tsgo's diagnostics.Category.
type DiagnosticCategory int

const (
	CategoryWarning    DiagnosticCategory = 0
	CategoryError      DiagnosticCategory = 1
	CategorySuggestion DiagnosticCategory = 2
	CategoryMessage    DiagnosticCategory = 3
)

func (c DiagnosticCategory) Name() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	}
	return "unknown"
}

func (c DiagnosticCategory) color() *color.Color {
	switch c {
	case CategoryError:
		return color.New(color.FgHiRed)
	case CategoryWarning:
		return color.New(color.FgHiYellow)
	case CategoryMessage:
		return color.New(color.FgHiBlue)
	}
	return color.New(color.FgHiBlack)
}

var (
	fileColor   = color.New(color.FgHiCyan)
	posColor    = color.New(color.FgHiYellow)
	codeColor   = color.New(color.FgHiBlack)
	gutterColor = color.New(color.ReverseVideo)
)

// CategoryOf returns the category of a tsgo diagnostic.
func CategoryOf(d *ast.Diagnostic) DiagnosticCategory {
	return DiagnosticCategory(ast.Diagnostic_Category(d))
}

// DiagnosticReporter formats and writes a single diagnostic.
type DiagnosticReporter func(d *ast.Diagnostic)

// IsPrettyOutput determines if diagnostics should be colored with code
// snippets. fatih/color already honors NO_COLOR and terminal detection;
// FORCE_COLOR turns color back on for piped output.
func IsPrettyOutput() bool {
	if os.Getenv("FORCE_COLOR") != "" {
		color.NoColor = false
		return true
	}
	return !color.NoColor
}

// CreateDiagnosticReporter creates a reporter that formats diagnostics in
// tsc style. Pretty output is colored and shows the offending source line;
// plain output is `file(line,col): error TS1005: message`.
func CreateDiagnosticReporter(w io.Writer, cwd string, pretty bool) DiagnosticReporter {
	if pretty {
		return func(d *ast.Diagnostic) {
			writePrettyDiagnostic(w, d, cwd)
			fmt.Fprint(w, "\n")
		}
	}
	return func(d *ast.Diagnostic) {
		writePlainDiagnostic(w, d, cwd)
	}
}

func writePlainDiagnostic(w io.Writer, d *ast.Diagnostic, cwd string) {
	if d.File() != nil {
		line, char := shimscanner.GetECMALineAndCharacterOfPosition(d.File(), d.Pos())
		fmt.Fprintf(w, "%s(%d,%d): ", relativePath(d.File().FileName(), cwd), line+1, char+1)
	}
	fmt.Fprintf(w, "%s TS%d: %s\n", CategoryOf(d).Name(), d.Code(), d.String())
}

func writePrettyDiagnostic(w io.Writer, d *ast.Diagnostic, cwd string) {
	cat := CategoryOf(d)

	if d.File() != nil {
		line, char := shimscanner.GetECMALineAndCharacterOfPosition(d.File(), d.Pos())
		fmt.Fprintf(w, "%s:%s:%s - ",
			fileColor.Sprint(relativePath(d.File().FileName(), cwd)),
			posColor.Sprint(line+1),
			posColor.Sprint(char+1))
	}

	fmt.Fprintf(w, "%s %s %s",
		cat.color().Sprint(cat.Name()),
		codeColor.Sprintf("TS%d:", d.Code()),
		d.String())

	if d.File() != nil {
		fmt.Fprint(w, "\n")
		writeLineSnippet(w, d.File(), d.Pos(), d.Len(), cat.color())
	}
}

// writeLineSnippet prints the first line of the diagnostic span with a
// squiggle underneath.
func writeLineSnippet(w io.Writer, file *ast.SourceFile, start int, length int, squiggle *color.Color) {
	line, char := shimscanner.GetECMALineAndCharacterOfPosition(file, start)
	text := file.Text()

	lineStart := shimscanner.GetECMAPositionOfLineAndCharacter(file, line, 0)
	lineEnd := strings.IndexByte(text[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += lineStart
	}
	content := strings.TrimRightFunc(text[lineStart:lineEnd], unicode.IsSpace)
	content = strings.ReplaceAll(content, "\t", " ")

	width := max(length, 1)
	if char+width > len(content) {
		width = max(len(content)-char, 1)
	}

	gutter := fmt.Sprintf("%d", line+1)
	fmt.Fprintf(w, "%s %s\n", gutterColor.Sprint(gutter), content)
	fmt.Fprintf(w, "%s %s%s\n",
		gutterColor.Sprint(strings.Repeat(" ", len(gutter))),
		strings.Repeat(" ", char),
		squiggle.Sprint(strings.Repeat("~", width)))
}

// CountErrors returns the number of CategoryError diagnostics.
func CountErrors(diags []*ast.Diagnostic) int {
	count := 0
	for _, d := range diags {
		if CategoryOf(d) == CategoryError {
			count++
		}
	}
	return count
}

// relativePath converts an absolute path to relative if possible.
func relativePath(absPath string, cwd string) string {
	if cwd == "" {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
