package pipeline

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"github.com/skydeck/aeroload/internal/standardize"
)

// sanitizeUTF8 replaces invalid byte sequences so the CSV reader never
// chokes on a mis-encoded export.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// parseCSV reads the whole file leniently: ragged rows are tolerated (column
// matching is by header name, not position) and stray quotes do not abort
// the parse.
func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// makeRawRow pairs a data row with the header, keyed by the trimmed header
// names as found in the file. Cells past the header width are dropped;
// missing trailing cells read as empty.
func makeRawRow(header, row []string) standardize.RawRow {
	rr := make(standardize.RawRow, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(row) {
			rr[h] = row[i]
		} else {
			rr[h] = ""
		}
	}
	return rr
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
