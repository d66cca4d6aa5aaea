package export

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// textExporter writes an aligned plain-text view for terminals and ad-hoc
// sharing. Export-only: the text format is not designed to be re-parsed.
type textExporter struct{}

func (e *textExporter) Export(w io.Writer, b *Bundle) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "run\t%s\n", b.RunID)
	fmt.Fprintf(tw, "lines\t%d\trecords\t%d\tfailures\t%d\n",
		b.Summary.TotalLines, b.Summary.Records, b.Summary.Failures)
	fmt.Fprintf(tw, "distinct users\t%d\tevents\t%d\tips\t%d\n",
		b.Summary.DistinctUsers, b.Summary.DistinctEvents, b.Summary.DistinctIPs)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "timestamp\tevent\tuser\tip\tpath\tpid\tline")
	for _, r := range b.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.Timestamp,
			strOrEmpty(r.EventType),
			strOrEmpty(r.Username),
			strOrEmpty(r.IPAddress),
			strOrEmpty(r.FilePath),
			intOrEmpty(r.ProcessID),
			r.SourceLine,
		)
	}

	if len(b.Flags) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "bucket\tlabel\tanomalous")
		for _, f := range b.Flags {
			if !f.Anomalous {
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%t\n", f.BucketStart, f.Label, f.Anomalous)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush text output: %w", err)
	}
	return nil
}
