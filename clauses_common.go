package sqlcraft

import "strings"

// asItemList coerces a clause value into a plain []any, accepting both Seq
// and []any spellings (callers of the public API may hand either, since
// Go literal slices don't automatically become Seq).
func asItemList(v any) ([]any, error) {
	switch t := v.(type) {
	case Seq:
		return t, nil
	case []any:
		return t, nil
	default:
		return nil, newFormatError(ErrBadShape, "expected a sequence", map[string]any{"value": v})
	}
}

// formatEntityAliasList renders a clause value that is a sequence of
// entity-or-alias-pairs (select/select-distinct/delete/from/window/
// cross-join), joined with ", ".
func (c *callCtx) formatEntityAliasList(v any) (string, []any, error) {
	items, err := asItemList(v)
	if err != nil {
		return "", nil, err
	}

	frags := make([]string, len(items))

	var params []any

	for i, item := range items {
		frag, p, err := c.formatEntityAlias(item)
		if err != nil {
			return "", nil, err
		}

		frags[i] = frag
		params = append(params, p...)
	}

	return strings.Join(frags, ", "), params, nil
}

// formatExprSeqList renders a clause value that is a plain sequence of
// expressions, joined with ", ".
func (c *callCtx) formatExprSeqList(v any) (string, []any, error) {
	items, err := asItemList(v)
	if err != nil {
		return "", nil, err
	}

	frags := make([]string, len(items))

	var params []any

	for i, item := range items {
		frag, p, err := c.formatExpr(item, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		frags[i] = frag
		params = append(params, p...)
	}

	return strings.Join(frags, ", "), params, nil
}

// keywordPrefixed renders "KEYWORD fragment", or just "KEYWORD" when
// fragment is empty (used by clauses whose body can be omitted).
func keywordPrefixed(keyword, fragment string) string {
	if fragment == "" {
		return keyword
	}

	return keyword + " " + fragment
}
