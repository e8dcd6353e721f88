package sqlcraft

import "strings"

// registerDMLClauses wires up the core SELECT/INSERT/UPDATE/DELETE clause
// family. Each RegisterClause call appends the name to the registry's base
// clause order; registerBuiltinClauses then replaces that order with its
// curated SQL sequence.
func registerDMLClauses(r *Registry) {
	must(r.RegisterClause("select-distinct-on", renderSelectDistinctOn, ""))
	must(r.RegisterClause("select-distinct", renderSelectDistinct, ""))
	must(r.RegisterClause("select", renderSelect, ""))
	must(r.RegisterClause("insert-into", renderInsertInto, ""))
	must(r.RegisterClause("update", renderUpdate, ""))
	must(r.RegisterClause("delete", renderDelete, ""))
	must(r.RegisterClause("from", renderFrom, ""))
	must(r.RegisterClause("values", renderValues, ""))
	must(r.RegisterClause("where", renderWhere, ""))
	must(r.RegisterClause("group-by", renderGroupBy, ""))
	must(r.RegisterClause("having", renderHaving, ""))
	must(r.RegisterClause("order-by", renderOrderBy, ""))
	must(r.RegisterClause("limit", renderLimit, ""))
	must(r.RegisterClause("offset", renderOffset, ""))
	must(r.RegisterClause("for", renderFor, ""))
	must(r.RegisterClause("partition-by", renderPartitionBy, ""))
	must(r.RegisterClause("set", renderSet, ""))
	must(r.RegisterClause("returning", renderReturning, ""))
}

// renderReturning implements the RETURNING clause (an INSERT/UPDATE/DELETE
// trailer): a sequence of entity-or-alias-pairs, exactly like select.
func renderReturning(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("RETURNING", frag), params, nil
}

// must panics on a registration error from a builtin clause — the names
// and shapes here are fixed at compile time, so failure means the table
// itself is wrong, not caller input.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func renderSelect(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("SELECT", frag), params, nil
}

func renderSelectDistinct(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("SELECT DISTINCT", frag), params, nil
}

// renderSelectDistinctOn: first element is the sequence of
// distinct-columns; the rest are ordinary select entries.
func renderSelectDistinctOn(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	items, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	if len(items) == 0 {
		return "", nil, newFormatError(ErrBadShape, "select-distinct-on requires a distinct-column list", nil)
	}

	distinctCols, err := asItemList(items[0])
	if err != nil {
		return "", nil, err
	}

	var params []any

	distinctFrag, p, err := c.formatExprSeqList(distinctCols)
	if err != nil {
		return "", nil, err
	}

	params = append(params, p...)

	entriesFrag, p, err := c.formatEntityAliasList(items[1:])
	if err != nil {
		return "", nil, err
	}

	params = append(params, p...)

	return "SELECT DISTINCT ON (" + distinctFrag + ") " + entriesFrag, params, nil
}

func renderFrom(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("FROM", frag), params, nil
}

func renderDelete(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("DELETE", frag), params, nil
}

func renderUpdate(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAlias(value)
	if err != nil {
		return "", nil, err
	}

	return "UPDATE " + frag, params, nil
}

// renderInsertInto implements the insert-into shapes: a bare table,
// [table cols], [table subquery], [[table cols] subquery], with an
// optional alias riding along on the table position in every shape.
func renderInsertInto(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	seq, isSeq := asSeqOrNil(value)
	if !isSeq {
		tableFrag, params, err := c.formatEntityAlias(value)
		if err != nil {
			return "", nil, err
		}

		return "INSERT INTO " + tableFrag, params, nil
	}

	if len(seq) != 2 {
		return "", nil, newFormatError(ErrBadShape, "insert-into takes a table, or a 2-element [table, cols-or-subquery] pair", map[string]any{"count": len(seq)})
	}

	head, tail := seq[0], seq[1]

	if subquery, ok := tail.(Stmt); ok {
		tablePart := head
		cols, hasCols := asSeqOrNil(head)
		if hasCols && len(cols) == 2 {
			_, hasCols = asSeqOrNil(cols[1])
		}

		var (
			tableFrag string
			params []any
			err error
		)

		if hasCols && len(cols) == 2 {
			tableFrag, params, err = c.formatEntityAlias(cols[0])
			if err != nil {
				return "", nil, err
			}

			colsFrag, p, err := c.formatExprSeqList(cols[1])
			if err != nil {
				return "", nil, err
			}

			params = append(params, p...)
			tableFrag += " (" + colsFrag + ")"
		} else {
			tableFrag, params, err = c.formatEntityAlias(tablePart)
			if err != nil {
				return "", nil, err
			}
		}

		subFrag, p, err := c.formatStatement(subquery, renderFlags{nested: true})
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)

		return "INSERT INTO " + tableFrag + " " + subFrag, params, nil
	}

	tableFrag, params, err := c.formatEntityAlias(head)
	if err != nil {
		return "", nil, err
	}

	colsFrag, p, err := c.formatExprSeqList(tail)
	if err != nil {
		return "", nil, err
	}

	params = append(params, p...)

	return "INSERT INTO " + tableFrag + " (" + colsFrag + ")", params, nil
}

func asSeqOrNil(v any) ([]any, bool) {
	switch t := v.(type) {
	case Seq:
		return t, true
	case []any:
		return t, true
	default:
		return nil, false
	}
}

// renderValues implements the values shapes: sequence-of-sequences
// (positional rows) or sequence-of-mappings (named rows, unioning keys
// across rows, padding missing fields with null).
func renderValues(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	rows, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	if len(rows) == 0 {
		return "", nil, newFormatError(ErrBadShape, "values requires at least one row", nil)
	}

	if _, isMapRow := rows[0].(Stmt); isMapRow {
		return c.renderMappedValues(rows)
	}

	return c.renderPositionalValues(rows)
}

func (c *callCtx) renderPositionalValues(rows []any) (string, []any, error) {
	width := 0

	parsed := make([][]any, len(rows))

	for i, row := range rows {
		items, err := asItemList(row)
		if err != nil {
			return "", nil, err
		}

		parsed[i] = items

		if len(items) > width {
			width = len(items)
		}
	}

	var (
		rowFrags []string
		params []any
	)

	for _, items := range parsed {
		padded := make([]any, width)
		copy(padded, items)

		rowFrag, p, err := c.formatExprSeqList(padded)
		if err != nil {
			return "", nil, err
		}

		rowFrags = append(rowFrags, "("+rowFrag+")")
		params = append(params, p...)
	}

	return "VALUES " + strings.Join(rowFrags, ", "), params, nil
}

func (c *callCtx) renderMappedValues(rows []any) (string, []any, error) {
	var columns []string

	seen := map[string]bool{}

	for _, row := range rows {
		stmt, ok := row.(Stmt)
		if !ok {
			return "", nil, newFormatError(ErrBadShape, "values rows must be uniformly sequences or mappings", map[string]any{"value": row})
		}

		for k := range stmt {
			if !seen[k] {
				seen[k] = true

				columns = append(columns, k)
			}
		}
	}

	sortStable(columns)

	colsFrag, colParams, err := c.formatExprSeqList(namesOf(columns))
	if err != nil {
		return "", nil, err
	}

	var (
		rowFrags []string
		params = colParams
	)

	for _, row := range rows {
		stmt := row.(Stmt)

		cells := make([]any, len(columns))

		for i, col := range columns {
			if v, ok := stmt[col]; ok {
				cells[i] = v
			} else {
				cells[i] = nil
			}
		}

		rowFrag, p, err := c.formatExprSeqList(cells)
		if err != nil {
			return "", nil, err
		}

		rowFrags = append(rowFrags, "("+rowFrag+")")
		params = append(params, p...)
	}

	return "(" + colsFrag + ") VALUES " + strings.Join(rowFrags, ", "), params, nil
}

func namesOf(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = Name(c)
	}

	return out
}

func sortStable(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// renderSet implements the set clause: mapping col -> expr, rendered
// "col = expr, ..." in deterministic (sorted) key order.
func renderSet(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	stmt, ok := value.(Stmt)
	if !ok {
		return "", nil, newFormatError(ErrBadShape, "set requires a mapping from column to expression", map[string]any{"value": value})
	}

	cols := make([]string, 0, len(stmt))
	for k := range stmt {
		cols = append(cols, k)
	}

	sortStable(cols)

	var (
		parts []string
		params []any
	)

	for _, col := range cols {
		colFrag, err := c.formatEntity(Name(col), entityOpts{})
		if err != nil {
			return "", nil, err
		}

		valFrag, p, err := c.formatExpr(stmt[col], renderFlags{})
		if err != nil {
			return "", nil, err
		}

		parts = append(parts, colFrag+" = "+valFrag)
		params = append(params, p...)
	}

	return keywordPrefixed("SET", strings.Join(parts, ", ")), params, nil
}

func renderWhere(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "WHERE " + frag, params, nil
}

func renderHaving(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "HAVING " + frag, params, nil
}

func renderGroupBy(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExprSeqList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("GROUP BY", frag), params, nil
}

func renderPartitionBy(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExprSeqList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("PARTITION BY", frag), params, nil
}

// renderOrderBy implements the order-by: a sequence of either a bare
// entity (implicit ASC) or an [entity, direction] pair.
func renderOrderBy(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	items, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	var (
		parts []string
		params []any
	)

	for _, item := range items {
		if pair, ok := asSeqOrNil(item); ok && len(pair) == 2 {
			entFrag, p, err := c.formatExpr(pair[0], renderFlags{})
			if err != nil {
				return "", nil, err
			}

			dirText, err := rawKeywordText(pair[1])
			if err != nil {
				return "", nil, err
			}

			parts = append(parts, entFrag+" "+sqlKw(dirText))
			params = append(params, p...)

			continue
		}

		entFrag, p, err := c.formatExpr(item, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		parts = append(parts, entFrag)
		params = append(params, p...)
	}

	return keywordPrefixed("ORDER BY", strings.Join(parts, ", ")), params, nil
}

func renderLimit(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "LIMIT " + frag, params, nil
}

func renderOffset(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "OFFSET " + frag, params, nil
}

// renderFor implements the for clause: lock strength, an optional
// table list introduced by OF, and a final qualifier (nowait /
// skip-locked / wait).
func renderFor(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	items, err := asItemList(value)
	if err != nil {
		text, terr := rawKeywordText(value)
		if terr != nil {
			return "", nil, err
		}

		return "FOR " + sqlKw(text), nil, nil
	}

	if len(items) == 0 {
		return "", nil, newFormatError(ErrBadShape, "for requires a lock strength", nil)
	}

	strengthText, err := rawKeywordText(items[0])
	if err != nil {
		return "", nil, err
	}

	b := "FOR " + sqlKw(strengthText)

	rest := items[1:]

	if len(rest) > 0 {
		if tables, ok := asSeqOrNil(rest[0]); ok {
			tablesFrag, _, err := c.formatEntityAliasList(tables)
			if err != nil {
				return "", nil, err
			}

			b += " OF " + tablesFrag
			rest = rest[1:]
		}
	}

	if len(rest) > 0 {
		qualifierText, err := rawKeywordText(rest[0])
		if err != nil {
			return "", nil, err
		}

		b += " " + sqlKw(qualifierText)
	}

	return b, nil, nil
}
