package sqlcraft

import "strings"

// registerJoinClauses wires up the join family and window.
func registerJoinClauses(r *Registry) {
	joinNames := []string{"join", "left-join", "right-join", "inner-join", "outer-join", "full-join"}
	for _, name := range joinNames {
		must(r.RegisterClause(name, renderJoin, ""))
	}

	must(r.RegisterClause("cross-join", renderCrossJoin, ""))
	must(r.RegisterClause("window", renderWindow, ""))
}

// renderJoin implements the join family: a sequence of [target, condition]
// pairs. "join" is the synonym for "inner-join"; the SQL keyword is
// derived from the clause name itself via sql_kw so every member of the
// family shares one renderer.
func renderJoin(c *callCtx, _ renderFlags, clause string, value any) (string, []any, error) {
	kw := sqlKw(clause)
	if clause == "join" {
		kw = "JOIN"
	}

	pairs, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	var (
		parts []string
		params []any
	)

	for _, item := range pairs {
		pair, ok := asSeqOrNil(item)
		if !ok || len(pair) != 2 {
			return "", nil, newFormatError(ErrBadShape, "join entries must be [target, condition] pairs", map[string]any{"value": item})
		}

		targetFrag, p, err := c.formatEntityAlias(pair[0])
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)

		condFrag, p, err := c.formatJoinCondition(pair[1])
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)

		frag := kw + " " + targetFrag
		if condFrag != "" {
			frag += " " + condFrag
		}

		parts = append(parts, frag)
	}

	return strings.Join(parts, " "), params, nil
}

// formatJoinCondition implements the three join-condition shapes:
// null (no ON clause), [:using col...] (USING (col, ...)), or a plain
// expression (ON expr).
func (c *callCtx) formatJoinCondition(cond any) (string, []any, error) {
	if cond == nil {
		return "", nil, nil
	}

	if seq, ok := asSeqOrNil(cond); ok && len(seq) >= 1 {
		if head, ok := seq[0].(Name); ok && string(head) == ":using" {
			colsFrag, params, err := c.formatExprSeqList(seq[1:])
			if err != nil {
				return "", nil, err
			}

			return "USING (" + colsFrag + ")", params, nil
		}
	}

	frag, params, err := c.formatExpr(cond, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "ON " + frag, params, nil
}

func renderCrossJoin(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatEntityAliasList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("CROSS JOIN", frag), params, nil
}

// renderWindow implements the window clause: a sequence of
// [name, window-spec] pairs, rendered "WINDOW name AS (spec), ...".
func renderWindow(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
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
			return "", nil, newFormatError(ErrBadShape, "window entries must be [name, spec] pairs", map[string]any{"value": item})
		}

		nameFrag, err := c.formatEntity(pair[0], entityOpts{})
		if err != nil {
			return "", nil, err
		}

		specFrag, p, err := c.formatWindowSpec(pair[1])
		if err != nil {
			return "", nil, err
		}

		params = append(params, p...)
		parts = append(parts, nameFrag+" AS ("+specFrag+")")
	}

	return keywordPrefixed("WINDOW", strings.Join(parts, ", ")), params, nil
}
