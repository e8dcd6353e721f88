package sqlcraft

import "strings"

// registerDDLClauses wires up the DDL clause family. Every DDL
// piece is its own top-level clause (create-table, with-columns,
// add-column, ...) rather than a nested value, so the ordinary
// format_statement join-in-clause-order algorithm produces the right
// juxtaposition ("CREATE TABLE t" followed immediately by "(col ...)")
// without any special-casing in the statement formatter itself.
func registerDDLClauses(r *Registry) {
	must(r.RegisterClause("create-table", renderCreateTable, ""))
	must(r.RegisterClause("drop-table", renderDropTable, ""))
	must(r.RegisterClause("alter-table", renderAlterTable, ""))
	must(r.RegisterClause("rename-table", renderRenameTable, ""))
	must(r.RegisterClause("create-view", renderCreateView, ""))
	must(r.RegisterClause("with-columns", renderWithColumns, ""))
	must(r.RegisterClause("add-column", renderAddColumn, ""))
	must(r.RegisterClause("drop-column", renderDropColumn, ""))
	must(r.RegisterClause("modify-column", renderModifyColumn, ""))
	must(r.RegisterClause("rename-column", renderRenameColumn, ""))
	must(r.RegisterClause("add-index", renderAddIndex, ""))
	must(r.RegisterClause("drop-index", renderDropIndex, ""))
}

func renderCreateTable(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "CREATE TABLE " + frag, nil, nil
}

func renderDropTable(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "DROP TABLE " + frag, nil, nil
}

func renderAlterTable(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "ALTER TABLE " + frag, nil, nil
}

// renderRenameTable accepts an [old, new] pair, or a bare new name when
// the old name is supplied by an accompanying alter-table clause.
func renderRenameTable(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	if pair, ok := asSeqOrNil(value); ok && len(pair) == 2 {
		oldFrag, err := c.formatEntity(pair[0], entityOpts{})
		if err != nil {
			return "", nil, err
		}

		newFrag, err := c.formatEntity(pair[1], entityOpts{})
		if err != nil {
			return "", nil, err
		}

		return "RENAME TABLE " + oldFrag + " TO " + newFrag, nil, nil
	}

	newFrag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "RENAME TO " + newFrag, nil, nil
}

// renderCreateView accepts [name, query] or {name: ..., query: ...}.
func renderCreateView(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	var (
		name any
		query any
	)

	switch t := value.(type) {
	case Stmt:
		name = t["name"]
		query = t["query"]
	default:
		pair, ok := asSeqOrNil(value)
		if !ok || len(pair) != 2 {
			return "", nil, newFormatError(ErrBadShape, "create-view requires [name, query] or {name, query}", map[string]any{"value": value})
		}

		name, query = pair[0], pair[1]
	}

	nameFrag, err := c.formatEntity(name, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	queryStmt, ok := query.(Stmt)
	if !ok {
		return "", nil, newFormatError(ErrBadShape, "create-view query must be a statement", map[string]any{"value": query})
	}

	queryFrag, params, err := c.formatStatement(queryStmt, renderFlags{nested: true})
	if err != nil {
		return "", nil, err
	}

	return "CREATE VIEW " + nameFrag + " AS " + queryFrag, params, nil
}

// renderWithColumns implements the column-definition list: each entry
// is [identifier, type-and-constraint-tokens...], every token after the
// identifier uppercased as a SQL keyword unless it is itself a sequence
// (a parameterized type like [varchar [inline 255]], rendered
// "VARCHAR(255)"; a plain 255 would be lifted as a parameter, and a column
// token that lifts parameters is rejected with ErrColumnOpNotSimple).
func renderWithColumns(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	defs, err := asItemList(value)
	if err != nil {
		return "", nil, err
	}

	colFrags := make([]string, len(defs))

	for i, def := range defs {
		frag, err := c.formatColumnDef(def)
		if err != nil {
			return "", nil, err
		}

		colFrags[i] = frag
	}

	return "(" + strings.Join(colFrags, ", ") + ")", nil, nil
}

func (c *callCtx) formatColumnDef(def any) (string, error) {
	tokens, ok := asSeqOrNil(def)
	if !ok || len(tokens) == 0 {
		return "", newFormatError(ErrBadShape, "column definition requires at least an identifier", map[string]any{"value": def})
	}

	nameFrag, err := c.formatEntity(tokens[0], entityOpts{})
	if err != nil {
		return "", err
	}

	parts := []string{nameFrag}

	for _, tok := range tokens[1:] {
		frag, err := c.formatColumnDefToken(tok)
		if err != nil {
			return "", err
		}

		parts = append(parts, frag)
	}

	return strings.Join(parts, " "), nil
}

func (c *callCtx) formatColumnDefToken(tok any) (string, error) {
	if nested, ok := asSeqOrNil(tok); ok {
		frag, params, err := c.formatExpr(Seq(nested), renderFlags{})
		if err != nil {
			return "", err
		}

		if len(params) > 0 {
			return "", newFormatError(ErrColumnOpNotSimple, "column definition token must not lift parameters", map[string]any{"value": tok})
		}

		return frag, nil
	}

	switch t := tok.(type) {
	case Name:
		return sqlKw(string(t)), nil
	case string:
		return sqlKw(t), nil
	default:
		return "", newFormatError(ErrBadShape, "unsupported column definition token", map[string]any{"value": tok})
	}
}

func renderAddColumn(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatColumnDef(value)
	if err != nil {
		return "", nil, err
	}

	return "ADD COLUMN " + frag, nil, nil
}

func renderModifyColumn(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatColumnDef(value)
	if err != nil {
		return "", nil, err
	}

	return "MODIFY COLUMN " + frag, nil, nil
}

func renderDropColumn(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "DROP COLUMN " + frag, nil, nil
}

func renderRenameColumn(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	pair, ok := asSeqOrNil(value)
	if !ok || len(pair) != 2 {
		return "", nil, newFormatError(ErrBadShape, "rename-column requires an [old, new] pair", map[string]any{"value": value})
	}

	oldFrag, err := c.formatEntity(pair[0], entityOpts{})
	if err != nil {
		return "", nil, err
	}

	newFrag, err := c.formatEntity(pair[1], entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "RENAME COLUMN " + oldFrag + " TO " + newFrag, nil, nil
}

// renderAddIndex accepts [index-name, cols] or a bare cols list.
func renderAddIndex(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	if pair, ok := asSeqOrNil(value); ok && len(pair) == 2 {
		if _, isCols := asSeqOrNil(pair[1]); isCols {
			nameFrag, err := c.formatEntity(pair[0], entityOpts{})
			if err != nil {
				return "", nil, err
			}

			colsFrag, _, err := c.formatExprSeqList(pair[1])
			if err != nil {
				return "", nil, err
			}

			return "ADD INDEX " + nameFrag + " (" + colsFrag + ")", nil, nil
		}
	}

	colsFrag, _, err := c.formatExprSeqList(value)
	if err != nil {
		return "", nil, err
	}

	return "ADD INDEX (" + colsFrag + ")", nil, nil
}

func renderDropIndex(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
	frag, err := c.formatEntity(value, entityOpts{})
	if err != nil {
		return "", nil, err
	}

	return "DROP INDEX " + frag, nil, nil
}
