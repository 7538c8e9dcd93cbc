package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the review result as JSON, as the service returned it.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, rep *Report) error {
	data, err := json.MarshalIndent(rep.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
