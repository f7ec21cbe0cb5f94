// Package sqlproc implements procedures that run one SQL query or statement
// inside the transaction of an sqlpool connection.
//
// Data bindings:
//
//	sql    the SQL template; ":name" inserts a quoted string literal and
//	       "@name" the raw argument text
//	flags  space separated options for queries: "single-row" returns the
//	       first row (or nil), "single-column" returns the first column of
//	       each row
//
// The connection binding named "connection" selects the pool. Queries
// (type "sql.query") return rows; statements (type "sql.statement") return
// the number of affected rows.
package sqlproc

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool/sqlpool"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Procedure type names.
const (
	TypeQuery     = "sql.query"
	TypeStatement = "sql.statement"
)

// Binding names.
const (
	BindingConnection = "connection"
	BindingSQL        = "sql"
	BindingFlags      = "flags"
)

// Procedure is an SQL query or statement procedure.
type Procedure struct {
	procedure.Base
	statement bool
}

// New builds a procedure from its stored definition. It implements
// library.Factory for both TypeQuery and TypeStatement.
func New(def *procedure.Definition) (procedure.Procedure, error) {
	base, err := procedure.BaseFromDefinition(def)
	if err != nil {
		return nil, err
	}
	b := base.Bindings()
	if typ, err := b.Type(BindingSQL); err != nil || typ != procedure.TypeData {
		return nil, procedure.Errorf(procedure.ErrBinding, "missing %q data binding", BindingSQL)
	}
	if typ, err := b.Type(BindingConnection); err != nil || typ != procedure.TypeConnection {
		return nil, procedure.Errorf(procedure.ErrBinding, "missing %q connection binding", BindingConnection)
	}
	return &Procedure{Base: base, statement: def.Type == TypeStatement}, nil
}

// Call implements procedure.Procedure.
func (p *Procedure) Call(cx procedure.CallContext, args *procedure.Bindings) (any, error) {
	conn, ok := args.ValueOr(BindingConnection, nil).(*sqlpool.Conn)
	if !ok {
		return nil, procedure.Errorf(procedure.ErrReservation, "no SQL connection bound to %q", BindingConnection)
	}
	query := strings.TrimSpace(args.ProcessTemplate(args.StringOr(BindingSQL, ""), procedure.EncodingSQL))
	if cx.IsTracing() {
		cx.Log("SQL " + conn.Pool() + ": " + query)
	}

	if p.statement {
		n, err := conn.Exec(cx, query)
		if err != nil {
			return nil, &procedure.Error{Kind: procedure.ErrExecution, Msg: "SQL statement failed", Err: err}
		}
		if cx.IsTracing() {
			cx.Log(fmt.Sprintf("SQL %d rows affected", n))
		}
		return n, nil
	}

	rows, err := conn.Query(cx, query)
	if err != nil {
		return nil, &procedure.Error{Kind: procedure.ErrExecution, Msg: "SQL query failed", Err: err}
	}
	if cx.IsTracing() {
		cx.Log(fmt.Sprintf("SQL %d rows returned", len(rows)))
	}
	for _, row := range rows {
		for k, v := range row {
			row[k] = normalize(v)
		}
	}
	return shape(rows, parseFlags(args.StringOr(BindingFlags, ""))), nil
}

// shape applies the single-row and single-column flags.
func shape(rows []map[string]any, flags map[string]bool) any {
	var result []any
	for _, row := range rows {
		if flags["single-column"] {
			result = append(result, firstColumn(row))
		} else {
			result = append(result, row)
		}
	}
	if flags["single-row"] {
		if len(result) == 0 {
			return nil
		}
		return result[0]
	}
	if result == nil {
		return []any{}
	}
	return result
}

// firstColumn returns the only value of a single column row. Rows with
// several columns are returned unchanged since map order is undefined.
func firstColumn(row map[string]any) any {
	if len(row) != 1 {
		return row
	}
	for _, v := range row {
		return v
	}
	return nil
}

// normalize turns integral decimals into int64 when they fit.
func normalize(v any) any {
	d, ok := v.(decimal.Decimal)
	if !ok || !d.IsInteger() {
		return v
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return v
	}
	return d.IntPart()
}

func parseFlags(s string) map[string]bool {
	flags := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		flags[f] = true
	}
	return flags
}
