package output

import (
	"io"

	"github.com/dshills/codementor/internal/store"
)

// WriteState renders the result panel for s. An error takes precedence over
// streaming progress, which takes precedence over a result; otherwise a
// placeholder is shown.
func WriteState(w io.Writer, s store.State) error {
	ew := &errWriter{w: w}
	switch {
	case s.Error != "":
		ew.printf("Error: %s\n", s.Error)
	case s.IsStreaming():
		progress := s.Progress
		if progress == "" {
			progress = store.ProgressInitializing
		}
		ew.printf("%s\n", progress)
	case s.IsLoading():
		ew.println("Reviewing...")
	case s.Result != nil:
		if err := (&TextWriter{}).Write(w, &Report{
			FileName: s.Submission.FileName,
			Language: s.Submission.Language,
			Result:   s.Result,
		}); err != nil {
			return err
		}
	default:
		ew.println("Submit code to see the review here.")
	}
	return ew.err
}
