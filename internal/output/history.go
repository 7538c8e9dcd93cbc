package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dshills/codementor/internal/review"
)

// WriteHistory renders entries as a table, newest first, with timestamps
// relative to now.
func WriteHistory(w io.Writer, entries []review.HistoryEntry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No review history yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tFILE\tLANGUAGE\tSEVERITY\tISSUES\tSCORE\tWHEN\n")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.0f\t%s\n",
			e.ID,
			e.FileName,
			e.Language.Label(),
			strings.ToUpper(string(e.Severity)),
			e.VulnerabilityCount,
			e.Score,
			humanize.RelTime(e.Timestamp, now, "ago", "from now"),
		)
	}
	return tw.Flush()
}
