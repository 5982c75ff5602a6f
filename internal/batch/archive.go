package batch

import (
	"archive/zip"
	"bytes"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// buildArchive zips every downloaded report, walking results in input order.
// When duplicate identifiers collide on a filename the first document wins,
// matching the first-seen join policy. Returns nil when nothing was stored.
func buildArchive(results []carfax.Result, docs map[int]*carfax.Document) ([]byte, int) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	written := make(map[string]struct{})
	count := 0
	for _, res := range results {
		if res.Status != carfax.StatusDownloaded {
			continue
		}
		doc, ok := docs[res.Index]
		if !ok {
			continue
		}
		if _, dup := written[doc.Filename]; dup {
			continue
		}
		f, err := zw.Create(doc.Filename)
		if err != nil {
			continue
		}
		if _, err := f.Write(doc.Body); err != nil {
			continue
		}
		written[doc.Filename] = struct{}{}
		count++
	}

	if err := zw.Close(); err != nil || count == 0 {
		return nil, 0
	}
	return buf.Bytes(), count
}
