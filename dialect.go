package sqlcraft

import (
	"fmt"
	"sort"
)

// Dialect names the target SQL dialect for a format call.
type Dialect string

const (
	DialectANSI       Dialect = "ansi"
	DialectSQLServer  Dialect = "sqlserver"
	DialectMySQL      Dialect = "mysql"
	DialectOracle     Dialect = "oracle"
	DialectNRQL       Dialect = "nrql"
)

// clauseOrderFn rewrites the base clause order for dialects that render
// clauses in a non-default sequence (e.g. MySQL's UPDATE ... SET ... WHERE).
type clauseOrderFn func(base []string) []string

// dialectInfo is one row of the built-in dialect table.
type dialectInfo struct {
	quoteOpen  byte
	quoteClose byte
	// emitAS is false when the dialect suppresses the AS keyword in aliases.
	emitAS bool
	order   clauseOrderFn
}

func (d dialectInfo) quote(s string) string {
	return string(d.quoteOpen) + s + string(d.quoteClose)
}

var dialectTable = map[Dialect]dialectInfo{
	DialectANSI: {
		quoteOpen: '"', quoteClose: '"', emitAS: true,
	},
	DialectOracle: {
		quoteOpen: '"', quoteClose: '"', emitAS: true,
	},
	DialectSQLServer: {
		quoteOpen: '[', quoteClose: ']', emitAS: true,
	},
	DialectMySQL: {
		quoteOpen: '`', quoteClose: '`', emitAS: true,
		order: mysqlClauseOrder,
	},
	DialectNRQL: {
		quoteOpen: '`', quoteClose: '`', emitAS: false,
		order: nrqlClauseOrder,
	},
}

// Dialects returns every built-in dialect tag, sorted, for callers (the
// cmd/sqlcraft "dialects" command) that want to list them without reaching
// into the unexported table.
func Dialects() []Dialect {
	out := make([]Dialect, 0, len(dialectTable))
	for d := range dialectTable {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// lookupDialect resolves a Dialect tag to its descriptor, failing with
// ErrUnknownDialect when the tag is not in the built-in table.
func lookupDialect(d Dialect) (dialectInfo, error) {
	info, ok := dialectTable[d]
	if !ok {
		return dialectInfo{}, newFormatError(ErrUnknownDialect, fmt.Sprintf("dialect %q is not registered", d), map[string]any{"dialect": string(d)})
	}

	return info, nil
}

// mysqlClauseOrder moves "set" to appear between "update" and "where", per
// MySQL's UPDATE ... SET ... WHERE clause order.
func mysqlClauseOrder(base []string) []string {
	return moveBefore(base, "set", "where")
}

// nrqlClauseOrder has its own, much smaller, set of clauses.
func nrqlClauseOrder(base []string) []string {
	wanted := map[string]bool{
		"select": true, "from": true, "where": true,
		"facet": true, "limit": true, "since": true, "until": true,
	}

	out := make([]string, 0, len(base))

	for _, c := range base {
		if wanted[c] {
			out = append(out, c)
		}
	}

	for _, c := range []string{"facet", "since", "until"} {
		if !contains(out, c) {
			out = append(out, c)
		}
	}

	return out
}

func moveBefore(base []string, name, before string) []string {
	out := make([]string, 0, len(base))

	var moved string

	for _, c := range base {
		if c == name {
			moved = c
			continue
		}

		if c == before && moved != "" {
			out = append(out, moved, c)
			moved = ""

			continue
		}

		out = append(out, c)
	}

	if moved != "" {
		if idx := indexOf(out, before); idx >= 0 {
			return insertAt(out, idx, moved)
		}

		out = append(out, moved)
	}

	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
