package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// parseCSV reads the file as rows with the first row as header and writes
// each data row back as "header: value" pairs joined by ", ". A file with
// only a header row yields the header line itself.
func parseCSV(name string, data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", readError(name, "file is not valid CSV", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return "", nil
	}

	header := rows[0]
	if len(rows) == 1 {
		return strings.Join(header, ", "), nil
	}

	lines := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		pairs := make([]string, 0, len(row))
		for i, v := range row {
			pairs = append(pairs, column(header, i)+": "+v)
		}
		lines = append(lines, strings.Join(pairs, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func column(header []string, i int) string {
	if i < len(header) && strings.TrimSpace(header[i]) != "" {
		return strings.TrimSpace(header[i])
	}
	return "column" + strconv.Itoa(i+1)
}
