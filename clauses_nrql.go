package sqlcraft

// registerNRQLClauses wires up the NRQL-specific clause trio: facet (a
// GROUP-BY analogue), and since/until (the dialect's own time-window
// bounds). They sit at the tail of the base clause order, so every
// dialect's order contains them; a statement that uses none of them
// renders the same in every dialect.
func registerNRQLClauses(r *Registry) {
	must(r.RegisterClause("facet", renderFacet, ""))
	must(r.RegisterClause("since", renderSince, ""))
	must(r.RegisterClause("until", renderUntil, ""))
}

func renderFacet(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExprSeqList(value)
	if err != nil {
		return "", nil, err
	}

	return keywordPrefixed("FACET", frag), params, nil
}

func renderSince(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "SINCE " + frag, params, nil
}

func renderUntil(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, params, err := c.formatExpr(value, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return "UNTIL " + frag, params, nil
}
