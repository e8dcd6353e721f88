package sqlcraft

import "strings"

// registerSetOpClauses wires up set operations, CTEs, and upsert.
func registerSetOpClauses(r *Registry) {
	setOps := []string{"union", "union-all", "intersect", "except", "except-all"}
	for _, name := range setOps {
		must(r.RegisterClause(name, renderSetOp, ""))
	}

	must(r.RegisterClause("with", renderWith, ""))
	must(r.RegisterClause("with-recursive", renderWith, ""))
	must(r.RegisterClause("on-conflict", renderOnConflict, ""))
	must(r.RegisterClause("do-update-set", renderDoUpdateSet, ""))
}

// renderSetOp implements the set-operation clauses: a sequence of
// further subqueries, each rendered nested and each preceded by the
// operation's own keyword (the clause's own enclosing statement supplies
// the left-hand operand).
func renderSetOp(c *callCtx, _ renderFlags, clause string, value any) (string, []any, error) {
	kw := sqlKw(clause)

	operands, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	var (
		parts []string
		params []any
	)

	for _, op := range operands {
		stmt, ok := op.(Stmt)
		if !ok {
			return "", nil, newFormatError(ErrBadShape, "set-operation operands must be statements", map[string]any{"value": op})
		}

		frag, p, err := c.formatStatement(stmt, renderFlags{nested: true})
		if err != nil {
			return "", nil, err
		}

		parts = append(parts, kw+" "+frag)
		params = append(params, p...)
	}

	return strings.Join(parts, " "), params, nil
}

// renderWith implements the with / with-recursive: a sequence of
// [alias, subquery] pairs, subquery always parenthesized.
func renderWith(c *callCtx, _ renderFlags, clause string, value any) (string, []any, error) {
	kw := "WITH"
	if clause == "with-recursive" {
		kw = "WITH RECURSIVE"
	}

	items, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	var (
		parts []string
		params []any
	)

	for _, item := range items {
		pair, ok := asSeqOrNil(item)
		if !ok || len(pair) != 2 {
			return "", nil, newFormatError(ErrBadShape, "with entries must be [alias, subquery] pairs", map[string]any{"value": item})
		}

		alias, err := c.formatEntity(pair[0], entityOpts{})
		if err != nil {
			return "", nil, err
		}

		stmt, ok := pair[1].(Stmt)
		if !ok {
			return "", nil, newFormatError(ErrBadShape, "with subquery must be a statement", map[string]any{"value": pair[1]})
		}

		frag, p, err := c.formatStatement(stmt, renderFlags{nested: true})
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)
		parts = append(parts, alias+" AS "+frag)
	}

	return keywordPrefixed(kw, strings.Join(parts, ", ")), params, nil
}

// renderOnConflict implements the four on-conflict shapes: a bare
// column, a list of columns, a mapping (columns/where/constraint), or
// [col-or-cols, {where: expr}].
func renderOnConflict(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	var (
		cols any
		whereExpr any
		hasWhere bool
		constraint any
	)

	switch t := value.(type) {
	case Stmt:
		cols = t["columns"]
		if w, ok := t["where"]; ok {
			whereExpr = w
			hasWhere = true
		}
		constraint = t["constraint"]
	default:
		if pair, ok := asSeqOrNil(value); ok && len(pair) == 2 {
			if whereStmt, ok := pair[1].(Stmt); ok {
				cols = pair[0]

				if w, ok := whereStmt["where"]; ok {
					whereExpr = w
					hasWhere = true
				}

				break
			}
		}

		cols = value
	}

	b := "ON CONFLICT"
	var params []any

	if constraint != nil {
		constraintFrag, err := c.formatEntity(constraint, entityOpts{})
		if err != nil {
			return "", nil, err
		}

		b += " ON CONSTRAINT " + constraintFrag
	}

	if cols != nil {
		colsFrag, p, err := c.formatOnConflictColumns(cols)
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)
		b += " (" + colsFrag + ")"
	}

	if hasWhere {
		whereFrag, p, err := c.formatExpr(whereExpr, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)
		b += " WHERE " + whereFrag
	}

	return b, params, nil
}

func (c *callCtx) formatOnConflictColumns(cols any) (string, []any, error) {
	if items, ok := asSeqOrNil(cols); ok {
		return c.formatExprSeqList(items)
	}

	frag, err := c.formatEntity(cols, entityOpts{})

	return frag, nil, err
}

// renderDoUpdateSet implements the do-update-set: either a plain
// mapping (column -> expression, like set), or {fields: [...], where:
// expr}, which expands to "SET a = EXCLUDED.a, ... WHERE expr".
func renderDoUpdateSet(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	stmt, ok := value.(Stmt)
	if !ok {
		return "", nil, newFormatError(ErrBadShape, "do-update-set requires a mapping", map[string]any{"value": value})
	}

	if fields, ok := stmt["fields"]; ok {
		items, err := asItemList(fields)
		if err != nil {
			return "", nil, err
		}

		parts := make([]string, len(items))

		for i, f := range items {
			colFrag, err := c.formatEntity(f, entityOpts{})
			if err != nil {
				return "", nil, err
			}

			excludedFrag, err := c.formatEntity(f, entityOpts{dropNS: true})
			if err != nil {
				return "", nil, err
			}

			parts[i] = colFrag + " = EXCLUDED." + excludedFrag
		}

		b := "DO UPDATE SET " + strings.Join(parts, ", ")

		var params []any

		if whereExpr, ok := stmt["where"]; ok {
			whereFrag, p, err := c.formatExpr(whereExpr, renderFlags{})
			if err != nil {
				return "", nil, err
			}

			params = p
			b += " WHERE " + whereFrag
		}

		return b, params, nil
	}

	parts := make([]string, 0, len(stmt))
	cols := make([]string, 0, len(stmt))

	for k := range stmt {
		cols = append(cols, k)
	}

	sortStable(cols)

	var params []any

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

	return "DO UPDATE SET " + strings.Join(parts, ", "), params, nil
}
