package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/codementor/internal/review"
)

// Report is a review result together with what was reviewed.
type Report struct {
	FileName string
	Language review.Language
	Result   *review.ReviewResult
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, rep *Report) error
}

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "markdown", "yaml", "sarif"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "yaml", "yml":
		return &YAMLWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteResult writes the report to the specified output (file path or stdout).
func WriteResult(rep *Report, format, outPath string) error {
	return WriteResults([]*Report{rep}, format, outPath)
}

// WriteResults writes the reports one after another in the given format.
func WriteResults(reps []*Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	for i, rep := range reps {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writer.Write(w, rep); err != nil {
			return err
		}
	}
	return nil
}

// Concatenable reports whether several reports can share one output in
// format.
func Concatenable(format string) bool {
	switch format {
	case "", "text", "markdown", "md":
		return true
	}
	return false
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
