package sqlcraft

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func boolPtr(b bool) *bool { return &b }

func TestFormat_ConcreteScenarios(t *testing.T) {
	// Each case mirrors one of spec.md the numbered scenarios.
	testCases := []struct {
		name string
		stmt Stmt
		opts Options
		expectedSQL string
		expectedArgs []any
	}{
		{
			name: "basic select with a parameter",
			stmt: Stmt{
				"select": Seq{Name("*")},
				"from": Seq{Name("table")},
				"where": Seq{Name("="), Name("id"), 1},
			},
			expectedSQL: "SELECT * FROM table WHERE id = ?",
			expectedArgs: []any{1},
		},
		{
			name: "alias with dialect",
			stmt: Stmt{
				"select": Seq{Name("t/id"), Seq{Name("name"), Name("item")}},
				"from": Seq{Seq{Name("table"), Name("t")}},
				"where": Seq{Name("="), Name("id"), 1},
			},
			expectedSQL: "SELECT t.id, name AS item FROM table AS t WHERE id = ?",
			expectedArgs: []any{1},
		},
		{
			name: "in with a collection parameter",
			stmt: Stmt{
				"select": Seq{Name("*")},
				"from": Seq{Name("table")},
				"where": Seq{Name("in"), Name("id"), []any{1, 2, 3, 4}},
			},
			expectedSQL: "SELECT * FROM table WHERE id IN (?, ?, ?, ?)",
			expectedArgs: []any{1, 2, 3, 4},
		},
		{
			name: "values with heterogeneous row maps",
			stmt: Stmt{
				"insert-into": Name("foo"),
				"values": []any{
					Stmt{"a": 1, "b": 2},
					Stmt{"b": 3, "c": 4},
				},
			},
			expectedSQL: "INSERT INTO foo (a, b, c) VALUES (?, ?, ?), (?, ?, ?)",
			expectedArgs: []any{1, 2, nil, nil, 3, 4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := Format(tc.stmt, tc.opts)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedSQL, sql)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestFormat_NamedParameterNumberedMode(t *testing.T) {
	stmt := Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("table")},
		"where": Seq{Name("="), Name("a"), Name("?x")},
	}

	sql, args, err := Format(stmt, Options{Params: map[string]any{"x": 42}, Numbered: true})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM table WHERE a = $1", sql)
	assert.Equal(t, []any{42}, args)
}

func TestFormat_UpsertDoUpdate(t *testing.T) {
	stmt := Stmt{
		"insert-into": Name("distributors"),
		"values": []any{
			Stmt{"did": 5, "dname": "Gizmo Transglobal"},
			Stmt{"did": 6, "dname": "Associated Computing, Inc"},
		},
		"on-conflict": Name("did"),
		"do-update-set": Stmt{"fields": Seq{Name("dname")}},
		"returning": Seq{Name("*")},
	}

	sql, args, err := Format(stmt, Options{})
	assert.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO distributors (did, dname) VALUES (?, ?), (?, ?) ON CONFLICT (did) DO UPDATE SET dname = EXCLUDED.dname RETURNING *",
		sql)
	assert.Equal(t, []any{5, "Gizmo Transglobal", 6, "Associated Computing, Inc"}, args)
}

func TestFormat_MySQLClauseReorder(t *testing.T) {
	stmt := Stmt{
		"update": Name("users"),
		"where": Seq{Name("="), Name("id"), 1},
		"set": Stmt{"name": "bob"},
	}

	sql, args, err := Format(stmt, Options{Dialect: DialectMySQL})
	assert.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `name` = ? WHERE `id` = ?", sql)
	assert.Equal(t, []any{"bob", 1}, args)
}

func TestFormat_UnknownClauseErrors(t *testing.T) {
	_, _, err := Format(Stmt{"bogus-clause": 1}, Options{})
	assert.Error(t, err)
	assert.IsError(t, err, ErrUnknownClause)
}

func TestFormat_UnknownDialectErrors(t *testing.T) {
	_, _, err := Format(Stmt{"select": Seq{Name("*")}}, Options{Dialect: Dialect("bogus")})
	assert.Error(t, err)
	assert.IsError(t, err, ErrUnknownDialect)
}

func TestFormat_MissingNamedParamErrors(t *testing.T) {
	stmt := Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("="), Name("a"), Name("?missing")},
	}

	_, _, err := Format(stmt, Options{})
	assert.Error(t, err)
	assert.IsError(t, err, ErrMissingParam)
}

func TestFormat_IsNullAndIsNotNull(t *testing.T) {
	sql, args, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("="), Name("x"), nil},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE x IS NULL", sql)
	assert.Equal(t, []any(nil), args)

	sql, args, err = Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("<>"), Name("x"), nil},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE x IS NOT NULL", sql)
	assert.Equal(t, []any(nil), args)
}

func TestFormat_EmptyInCollection(t *testing.T) {
	sql, args, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("in"), Name("x"), []any{}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE x IN ()", sql)
	assert.Equal(t, []any(nil), args)
}

func TestFormat_UnusualIdentifierQuotedByDefault(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("weird col")},
		"from": Seq{Name("t")},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "weird col" FROM t`, sql)
}

func TestFormat_StarNeverQuoted(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
	}, Options{Quoted: boolPtr(true)})
	assert.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t"`, sql)
}

func TestFormat_InlineRoundTrip(t *testing.T) {
	direct, _, err := FormatExpr(42, Options{Inline: true})
	assert.NoError(t, err)

	wrapped, _, err := FormatExpr(Seq{Name("inline"), 42}, Options{Inline: false})
	assert.NoError(t, err)

	assert.Equal(t, direct, wrapped)
}

func TestFormat_OperatorAliasesMatchCanonical(t *testing.T) {
	aliasPairs := [][2]string{
		{"!=", "<>"},
		{"not=", "<>"},
		{"regex", "regexp"},
		{"is", "="},
		{"is-not", "<>"},
	}

	for _, pair := range aliasPairs {
		alias, canonical := pair[0], pair[1]
		t.Run(alias, func(t *testing.T) {
			aliasSQL, _, err := FormatExpr(Seq{Name(alias), Name("a"), Name("b")}, Options{})
			assert.NoError(t, err)

			canonicalSQL, _, err := FormatExpr(Seq{Name(canonical), Name("a"), Name("b")}, Options{})
			assert.NoError(t, err)

			assert.Equal(t, canonicalSQL, aliasSQL)
		})
	}
}

func TestFormat_RegisteringClauseDoesNotChangeBuiltinOutput(t *testing.T) {
	before, beforeArgs, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
	}, Options{})
	assert.NoError(t, err)

	reg := DefaultRegistry.Clone()
	err = reg.RegisterClause("frobnicate", func(c *callCtx, _ renderFlags, _ string, value any) (string, []any, error) {
		return "FROBNICATE", nil, nil
	}, "")
	assert.NoError(t, err)

	after, afterArgs, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
	}, Options{Registry: reg})
	assert.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, beforeArgs, afterArgs)
}

func TestFormat_Deterministic(t *testing.T) {
	stmt := Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("="), Name("id"), 1},
	}

	sql1, args1, err := Format(stmt, Options{})
	assert.NoError(t, err)

	sql2, args2, err := Format(stmt, Options{})
	assert.NoError(t, err)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, args1, args2)
}

func TestFormat_PrettyJoinsWithNewline(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from": Seq{Name("t")},
		"where": Seq{Name("="), Name("id"), 1},
	}, Options{Pretty: true})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT *\nFROM t\nWHERE id = ?", sql)
}

func TestFormatExprList(t *testing.T) {
	frags, params, err := FormatExprList([]any{
		Seq{Name("="), Name("a"), 1},
		Seq{Name("="), Name("b"), 2},
	}, Options{Numbered: true})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a = $1", "b = $2"}, frags)
	assert.Equal(t, []any{1, 2}, params)
}

func TestSQLKw(t *testing.T) {
	assert.Equal(t, "NULLS FIRST", SQLKw("nulls-first"))
	assert.Equal(t, "DESC", SQLKw("desc"))
}

func TestSetDialect_Idempotent(t *testing.T) {
	reg := NewRegistry()
	assert.NoError(t, reg.SetDialect(DialectMySQL, nil))
	first := append([]string(nil), reg.currentClauseOrder...)

	assert.NoError(t, reg.SetDialect(DialectMySQL, nil))
	second := append([]string(nil), reg.currentClauseOrder...)

	assert.Equal(t, first, second)
}
