package sqlcraft

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFormatExpr_VariadicOperators(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("and"), Seq{Name("="), Name("a"), 1}, Seq{Name("="), Name("b"), 2}, nil}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "(a = ?) AND (b = ?)", sql)
	assert.Equal(t, []any{1, 2}, params)
}

func TestFormatExpr_VariadicNotNested(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("+"), 1, 2, 3}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "? + ? + ?", sql)
}

func TestFormatExpr_BinaryWrongArityErrors(t *testing.T) {
	_, _, err := FormatExpr(Seq{Name("="), Name("a")}, Options{})
	assert.Error(t, err)
	assert.IsError(t, err, ErrBadShape)
}

func TestFormatExpr_InNotIn(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("not-in"), Name("id"), []any{1, 2}}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "id NOT IN (?, ?)", sql)
	assert.Equal(t, []any{1, 2}, params)
}

func TestFormatExpr_InWithSubquery(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("in"), Name("id"), Stmt{"select": Seq{Name("id")}, "from": Seq{Name("active")}}}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "id IN (SELECT id FROM active)", sql)
}

func TestFormatExpr_FunctionCall(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("count"), Name("*")}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "COUNT(*)", sql)
	assert.Equal(t, []any(nil), params)

	sql, params, err = FormatExpr(Seq{Name("coalesce"), Name("a"), 0}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "COALESCE(a, ?)", sql)
	assert.Equal(t, []any{0}, params)
}

func TestFormatExpr_ZeroArgFunctionCall(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("now")}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "NOW()", sql)
}

func TestFormatExpr_FunctionCallWithSubqueryArgument(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("exists"), Stmt{"select": Seq{Name("*")}, "from": Seq{Name("t")}}}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "EXISTS (SELECT * FROM t)", sql)
}

func TestFormatExpr_KeywordArgFunctionCall(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("substring"), Name("col"), Name("!from"), 3, Name("!for"), 4}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "SUBSTRING(col FROM ? FOR ?)", sql)
	assert.Equal(t, []any{3, 4}, params)
}

func TestFormatExpr_MultiWordKeywordArg(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("trim"), Name("col"), Name("!both-from"), Name("x")}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "TRIM(col BOTH FROM x)", sql)
}

func TestFormatExpr_KeywordArgAsFirstToken(t *testing.T) {
	sql, _, err := FormatExpr(Seq{Name("trim"), Name("!leading"), Name("x"), Name("!from"), Name("y")}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "TRIM(LEADING x FROM y)", sql)
}

func TestFormatExpr_InWithDeferredCollectionParenthesizes(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("in"), Name("id"), Name("?ids")}, Options{Params: map[string]any{"ids": []int{1, 2, 3}}})
	assert.NoError(t, err)
	assert.Equal(t, "id IN (?, ?, ?)", sql)
	assert.Equal(t, []any{1, 2, 3}, params)
}

func TestFormatExpr_InWithDeferredScalarStaysBare(t *testing.T) {
	sql, params, err := FormatExpr(Seq{Name("in"), Name("id"), Name("?x")}, Options{Params: map[string]any{"x": 7}})
	assert.NoError(t, err)
	assert.Equal(t, "id IN ?", sql)
	assert.Equal(t, []any{7}, params)
}

func TestFormatExpr_FnShorthandOnBareLeaf(t *testing.T) {
	sql, _, err := FormatExpr(Name("%concat.a.b"), Options{})
	assert.NoError(t, err)
	assert.Equal(t, "CONCAT(a, b)", sql)
}

func TestFormatExpr_TupleWithNonSymbolicHead(t *testing.T) {
	sql, params, err := FormatExpr(Seq{1, 2, 3}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "(?, ?, ?)", sql)
	assert.Equal(t, []any{1, 2, 3}, params)
}

func TestFormatExpr_NestedSubqueryParenthesized(t *testing.T) {
	sql, _, err := FormatExpr(Stmt{"select": Seq{Name("*")}, "from": Seq{Name("t")}}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, "(SELECT * FROM t)", sql)
}
