package sqlcraft

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestInsertInto_Shapes(t *testing.T) {
	testCases := []struct {
		name        string
		stmt        Stmt
		expectedSQL string
	}{
		{
			name: "bare table",
			stmt: Stmt{
				"insert-into": Name("foo"),
				"values":      []any{Seq{1, 2}},
			},
			expectedSQL: "INSERT INTO foo VALUES (?, ?)",
		},
		{
			name: "table with column list",
			stmt: Stmt{
				"insert-into": Seq{Name("foo"), Seq{Name("a"), Name("b")}},
				"values":      []any{Seq{1, 2}},
			},
			expectedSQL: "INSERT INTO foo (a, b) VALUES (?, ?)",
		},
		{
			name: "table with subquery",
			stmt: Stmt{
				"insert-into": Seq{Name("foo"), Stmt{"select": Seq{Name("*")}, "from": Seq{Name("bar")}}},
			},
			expectedSQL: "INSERT INTO foo (SELECT * FROM bar)",
		},
		{
			name: "table and columns with subquery",
			stmt: Stmt{
				"insert-into": Seq{Seq{Name("foo"), Seq{Name("a"), Name("b")}}, Stmt{"select": Seq{Name("a"), Name("b")}, "from": Seq{Name("bar")}}},
			},
			expectedSQL: "INSERT INTO foo (a, b) (SELECT a, b FROM bar)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, err := Format(tc.stmt, Options{})
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedSQL, sql)
		})
	}
}

func TestForClause_Shapes(t *testing.T) {
	testCases := []struct {
		name        string
		value       any
		expectedSQL string
	}{
		{name: "bare strength", value: Name("update"), expectedSQL: "FOR UPDATE"},
		{
			name:        "strength with table list",
			value:       Seq{Name("update"), Seq{Name("foo")}},
			expectedSQL: "FOR UPDATE OF foo",
		},
		{
			name:        "strength with qualifier",
			value:       Seq{Name("update"), Name("nowait")},
			expectedSQL: "FOR UPDATE NOWAIT",
		},
		{
			name:        "strength table list and qualifier",
			value:       Seq{Name("update"), Seq{Name("foo")}, Name("skip-locked")},
			expectedSQL: "FOR UPDATE OF foo SKIP LOCKED",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, err := Format(Stmt{
				"select": Seq{Name("*")},
				"from":   Seq{Name("t")},
				"for":    tc.value,
			}, Options{})
			assert.NoError(t, err)
			assert.Equal(t, "SELECT * FROM t "+tc.expectedSQL, sql)
		})
	}
}

func TestOrderBy_ImplicitAscAndExplicitDirection(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select":   Seq{Name("*")},
		"from":     Seq{Name("t")},
		"order-by": Seq{Name("a"), Seq{Name("b"), Name("desc")}, Seq{Name("c"), Name("nulls-first")}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t ORDER BY a, b DESC, c NULLS FIRST", sql)
}

func TestSet_DeterministicColumnOrder(t *testing.T) {
	sql1, _, err := Format(Stmt{
		"update": Name("t"),
		"set":    Stmt{"z": 1, "a": 2, "m": 3},
	}, Options{})
	assert.NoError(t, err)

	sql2, _, err := Format(Stmt{
		"update": Name("t"),
		"set":    Stmt{"a": 2, "m": 3, "z": 1},
	}, Options{})
	assert.NoError(t, err)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, "UPDATE t SET a = ?, m = ?, z = ?", sql1)
}

func TestSelect_FunctionCallColumn(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Seq{Name("count"), Name("*")}},
		"from":   Seq{Name("t")},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM t", sql)
}

func TestSelect_AliasedFunctionCallColumn(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Seq{Seq{Name("count"), Name("*")}, Name("total")}},
		"from":   Seq{Name("t")},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS total FROM t", sql)
}

func TestSelectDistinctOn(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select-distinct-on": Seq{Seq{Name("a")}, Name("a"), Name("b")},
		"from":               Seq{Name("t")},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT ON (a) a, b FROM t", sql)
}

func TestValues_PositionalRowsPadToMaxWidth(t *testing.T) {
	sql, args, err := Format(Stmt{
		"insert-into": Name("t"),
		"values":      []any{Seq{1, 2}, Seq{3}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "INSERT INTO t VALUES (?, ?), (?, ?)", sql)
	assert.Equal(t, []any{1, 2, 3, nil}, args)
}
