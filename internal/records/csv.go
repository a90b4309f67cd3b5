package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
)

// naValues are read as missing and become "". Same set pandas treats as NA
// by default, plus gota's own "<nil>".
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null", "<nil>",
}

// CSVSource reads the installation table from a delimited text file.
type CSVSource struct {
	Path      string
	Delimiter rune
	// Encoding is "utf-8" (default) or "windows-1252".
	Encoding string
}

func (s CSVSource) String() string {
	return "csv:" + s.Path
}

func (s CSVSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", s.Path, err)
	}
	defer file.Close()

	r, err := decode(file, s.Encoding)
	if err != nil {
		return nil, err
	}

	return ReadCSV(r, s.Delimiter)
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// ReadCSV parses a headed CSV stream with every column kept as text. Rows
// shorter than the header are padded with missing cells. A header without
// rows yields no records and no error.
func ReadCSV(r io.Reader, delimiter rune) ([]Record, error) {
	if delimiter == 0 {
		delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to parse csv: no header")
	}

	header := dedupeHeader(rows[0])
	if len(rows) == 1 {
		return nil, nil
	}

	rows[0] = header
	for i := 1; i < len(rows); i++ {
		switch {
		case len(rows[i]) < len(header):
			padded := make([]string, len(header))
			copy(padded, rows[i])
			rows[i] = padded
		case len(rows[i]) > len(header):
			return nil, fmt.Errorf("failed to parse csv: line %d has %d fields, header has %d", i+1, len(rows[i]), len(header))
		}
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	return FromDataFrame(df), nil
}

// dedupeHeader renames repeated column names NAME.1, NAME.2, ... keeping the
// first occurrence as is.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, name := range header {
		taken[name] = true
	}
	for i, name := range header {
		n, dup := seen[name]
		seen[name] = n + 1
		if !dup {
			out[i] = name
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, n)
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[name] = n + 1
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// FromDataFrame converts every row of df into a Record.
func FromDataFrame(df dataframe.DataFrame) []Record {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}

	out := make([]Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		vals := make([]string, len(cols))
		for j := range cols {
			vals[j] = elemString(cols[j].Elem(i))
		}
		out = append(out, NewRecord(names, vals))
	}
	return out
}

func elemString(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	return e.String()
}
