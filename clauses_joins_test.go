package sqlcraft

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestJoin_Family(t *testing.T) {
	testCases := []struct {
		clause     string
		expectedKw string
	}{
		{"join", "JOIN"},
		{"left-join", "LEFT JOIN"},
		{"right-join", "RIGHT JOIN"},
		{"inner-join", "INNER JOIN"},
		{"outer-join", "OUTER JOIN"},
		{"full-join", "FULL JOIN"},
	}

	for _, tc := range testCases {
		t.Run(tc.clause, func(t *testing.T) {
			sql, args, err := Format(Stmt{
				"select":  Seq{Name("*")},
				"from":    Seq{Name("a")},
				tc.clause: Seq{Seq{Name("b"), Seq{Name("="), Name("a/id"), Name("b/a_id")}}},
			}, Options{})
			assert.NoError(t, err)
			assert.Equal(t, "SELECT * FROM a "+tc.expectedKw+" b ON a.id = b.a_id", sql)
			assert.Equal(t, []any(nil), args)
		})
	}
}

func TestJoin_UsingCondition(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from":   Seq{Name("a")},
		"join":   Seq{Seq{Name("b"), Seq{Name(":using"), Name("id")}}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a JOIN b USING (id)", sql)
}

func TestJoin_NilConditionOmitsON(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from":   Seq{Name("a")},
		"join":   Seq{Seq{Name("b"), nil}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a JOIN b", sql)
}

func TestCrossJoin(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select":     Seq{Name("*")},
		"from":       Seq{Name("a")},
		"cross-join": Seq{Name("b")},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a CROSS JOIN b", sql)
}

func TestWindow_NamedWindowClause(t *testing.T) {
	sql, _, err := Format(Stmt{
		"select": Seq{Name("*")},
		"from":   Seq{Name("a")},
		"window": Seq{Seq{Name("w"), Stmt{"partition-by": Seq{Name("dept")}}}},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a WINDOW w AS (PARTITION BY dept)", sql)
}
