package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ParseFile reads a product CSV with a header line and returns one Record
// per data row. Unknown columns are ignored; missing columns leave the
// field empty for the processor to reject.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()

	return Parse(f)
}

func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}
		out = append(out, Record{
			Title:       field(row, "title"),
			Description: field(row, "description"),
			Price:       field(row, "price"),
			Count:       field(row, "count"),
		})
	}
	return out, nil
}
