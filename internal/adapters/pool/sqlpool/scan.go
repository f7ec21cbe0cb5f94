package sqlpool

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// scanRows reads all rows into maps. Exact numeric columns are scanned as
// decimal.Decimal so no precision is lost.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading column types: %w", err)
	}

	result := []map[string]any{}
	for rows.Next() {
		dest := make([]any, len(types))
		for i, ct := range types {
			if isExactNumeric(ct.DatabaseTypeName()) {
				dest[i] = new(decimal.NullDecimal)
			} else {
				dest[i] = new(any)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make(map[string]any, len(types))
		for i, ct := range types {
			row[ct.Name()] = columnValue(dest[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return result, nil
}

func isExactNumeric(typeName string) bool {
	base, _, _ := strings.Cut(typeName, "(")
	switch strings.ToUpper(strings.TrimSpace(base)) {
	case "NUMERIC", "DECIMAL", "MONEY", "SMALLMONEY":
		return true
	default:
		return false
	}
}

// columnValue converts a scanned value into a JSON friendly form.
func columnValue(v any) any {
	switch d := v.(type) {
	case *decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal
	case *any:
		switch x := (*d).(type) {
		case []byte:
			return string(x)
		case time.Time:
			return x.UTC().Format(time.RFC3339Nano)
		default:
			return x
		}
	default:
		return v
	}
}
