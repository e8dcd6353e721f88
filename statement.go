package sqlcraft

import (
	"sort"
	"strings"
)

// formatStatement implements format_statement: walk the registry's
// clause order, render every clause present in stmt, join the fragments,
// and wrap the result in parentheses when it is both nested and unaliased
// (a bare subquery, not one bound to an alias by its caller).
func (c *callCtx) formatStatement(stmt Stmt, flags renderFlags) (string, []any, error) {
	seen := make(map[string]bool, len(stmt))

	var (
		parts  []string
		params []any
	)

	for _, clause := range c.reg.clauseOrder {
		value, ok := stmt[clause]
		if !ok {
			continue
		}

		seen[clause] = true

		renderer, ok := c.reg.clauseRenderers[clause]
		if !ok {
			return "", nil, newFormatError(ErrUnknownClause, clause, map[string]any{"clause": clause})
		}

		frag, p, err := renderer(c, renderFlags{}, clause, value)
		if err != nil {
			return "", nil, err
		}

		if frag == "" {
			continue
		}

		parts = append(parts, frag)
		params = append(params, p...)
	}

	if len(seen) != len(stmt) {
		return "", nil, newFormatError(ErrUnknownClause, firstUnknownClause(stmt, seen), map[string]any{"known": c.reg.clauseOrder})
	}

	sep := " "
	if c.pretty {
		sep = "\n"
	}

	sql := strings.Join(parts, sep)

	if flags.nested && !flags.aliased {
		sql = "(" + sql + ")"
	}

	return sql, params, nil
}

// firstUnknownClause returns a deterministic (sorted) first offending key,
// so error messages do not depend on Go's randomized map iteration order.
func firstUnknownClause(stmt Stmt, seen map[string]bool) string {
	keys := make([]string, 0, len(stmt))

	for k := range stmt {
		if !seen[k] {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	if len(keys) == 0 {
		return ""
	}

	return keys[0]
}
