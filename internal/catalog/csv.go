package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names accepted in the CSV header, matched case-insensitively.
var columnAliases = map[string][]string{
	"name":                 {"packaging_type", "name", "packaging"},
	"cost":                 {"cost"},
	"durability":           {"durability"},
	"environmental_impact": {"environmental_impact", "env_impact", "environmental impact"},
	"reusability":          {"reusability"},
}

var requiredColumns = []string{"name", "cost", "durability", "environmental_impact", "reusability"}

// CSVSource reads options from a delimited file.
type CSVSource struct {
	Path  string
	Comma rune
}

// NewCSVSource returns a comma-delimited source for path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, Comma: ','}
}

func (s *CSVSource) Load(_ context.Context) ([]Option, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	opts, err := ReadCSV(f, s.Comma)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return opts, nil
}

// ReadCSV parses a header row followed by one option per row. Extra columns
// are ignored.
func ReadCSV(r io.Reader, comma rune) ([]Option, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var opts []Option
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		o, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		opts = append(opts, o)
	}
	if len(opts) == 0 {
		return nil, ErrEmptyCatalog
	}
	return opts, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range columnAliases {
			if _, ok := idx[col]; ok {
				continue
			}
			for _, a := range aliases {
				if h == a {
					idx[col] = i
					break
				}
			}
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int) (Option, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(rec) {
			return "", fmt.Errorf("missing value for %s", col)
		}
		return strings.TrimSpace(rec[i]), nil
	}
	number := func(col string) (float64, error) {
		s, err := field(col)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid number %q", col, s)
		}
		return v, nil
	}

	var o Option
	var err error
	if o.Name, err = field("name"); err != nil {
		return o, err
	}
	if o.Cost, err = number("cost"); err != nil {
		return o, err
	}
	if o.Durability, err = number("durability"); err != nil {
		return o, err
	}
	if o.EnvironmentalImpact, err = number("environmental_impact"); err != nil {
		return o, err
	}
	if o.Reusability, err = number("reusability"); err != nil {
		return o, err
	}
	return o, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
