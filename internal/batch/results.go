package batch

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

var resultHeader = []string{"VIN", "EBROCHURE_URL", "CARFAX_URL", "STATUS", "ERROR_MESSAGE", "FILE_NAME"}

// WriteResults exports the per-record result log as CSV, one row per input
// record in input order.
func WriteResults(w io.Writer, results []carfax.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for _, res := range results {
		row := []string{
			res.Identifier,
			res.SourceURL,
			res.ResolvedURL,
			string(res.Status),
			res.ErrorMsg,
			res.Filename,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write result row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}
