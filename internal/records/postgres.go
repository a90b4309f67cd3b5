package records

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads the installation table from a database table with the
// same column layout as the CSV export.
type PostgresSource struct {
	DB    *sqlx.DB
	Table string
}

func (s PostgresSource) String() string {
	return "postgres:" + s.Table
}

func (s PostgresSource) Load(ctx context.Context) ([]Record, error) {
	if !tableName.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	rows, err := s.DB.QueryxContext(ctx, "SELECT * FROM "+s.Table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Record
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		vals := make([]string, len(raw))
		for i, v := range raw {
			vals[i] = sqlString(v)
		}
		out = append(out, NewRecord(columns, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func sqlString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("02/01/2006")
	default:
		return fmt.Sprint(t)
	}
}
