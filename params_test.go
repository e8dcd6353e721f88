package sqlcraft

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestUnwrapParams(t *testing.T) {
	params := []any{1, namedParamRef{name: "x"}, liftedValue{[]any{1, 2}}}

	out, err := unwrapParams(params, map[string]any{"x": "bound"})
	assert.NoError(t, err)
	assert.Equal(t, []any{1, "bound", liftedValue{[]any{1, 2}}}, out)
}

func TestUnwrapParams_MissingBindingErrors(t *testing.T) {
	_, err := unwrapParams([]any{namedParamRef{name: "missing"}}, nil)
	assert.Error(t, err)
	assert.IsError(t, err, ErrMissingParam)
}

func TestExpandCollections(t *testing.T) {
	sql, params := expandCollections("x IN ? AND y = ?", []any{[]any{1, 2, 3}, 9})
	assert.Equal(t, "x IN ?, ?, ? AND y = ?", sql)
	assert.Equal(t, []any{1, 2, 3, 9}, params)
}

func TestExpandCollections_NoCollectionIsNoOp(t *testing.T) {
	sql, params := expandCollections("x = ?", []any{1})
	assert.Equal(t, "x = ?", sql)
	assert.Equal(t, []any{1}, params)
}

func TestRenumberPlaceholders(t *testing.T) {
	assert.Equal(t, "$1 AND $2 OR $3", renumberPlaceholders("? AND ? OR ?"))
}

func TestRenumberPlaceholdersFrom_ContinuesCounter(t *testing.T) {
	out, n := renumberPlaceholdersFrom("a = ? AND b = ?", 2)
	assert.Equal(t, "a = $3 AND b = $4", out)
	assert.Equal(t, 4, n)
}
