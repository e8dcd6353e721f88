package main

import (
	"strings"

	"github.com/sqlcraft/sqlcraft"
)

// decodeStmt turns a YAML/JSON-decoded value (map[string]any, []any and
// scalars, the shape goccy/go-yaml and encoding/json both produce for an
// interface{} target) into the statement tree sqlcraft.Format expects.
//
// A mapping always becomes a sqlcraft.Stmt (map[string]any) — every
// mapping in the declarative tree, nested or not, is exactly that shape.
// A sequence always becomes a sqlcraft.Seq. Scalars decode according to
// one rule: a string prefixed with ':' is a symbolic sqlcraft.Name (the
// colon stripped, the remainder kept as-is so a further '?', '%' or '!'
// prefix still carries its own meaning — ":?user_id" is the named-param
// reference Name("?user_id"), ":*" is the star column Name("*")); a bare
// string with no leading colon is a raw string literal, exactly how the
// core package distinguishes a symbolic name from a raw value.
func decodeStmt(raw map[string]any) sqlcraft.Stmt {
	out := make(sqlcraft.Stmt, len(raw))
	for k, v := range raw {
		out[k] = decodeValue(v)
	}

	return out
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return decodeStmt(t)
	case []any:
		seq := make(sqlcraft.Seq, len(t))
		for i, e := range t {
			seq[i] = decodeValue(e)
		}

		return seq
	case string:
		if name, ok := strings.CutPrefix(t, ":"); ok {
			return sqlcraft.Name(name)
		}

		return t
	default:
		return v
	}
}
