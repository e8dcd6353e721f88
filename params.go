package sqlcraft

import (
	"reflect"
	"strconv"
	"strings"
)

// namedParamRef is the deferred parameter carrier : a "pending"
// value that resolves against the params binding map during the final
// unwrap pass, rather than a closure-with-metadata trick (not idiomatic
// in Go, and exactly the indirection the tells us to replace with a typed
// sum).
type namedParamRef struct {
	name string
}

// unwrapParams resolves every deferred parameter carrier, failing with
// ErrMissingParam if a binding is absent. It resolves namedParamRef
// wherever one is found, including nested inside liftedValue/
// inClauseValue, but leaves those wrapper values in place: they still
// carry expansion instructions expandCollections needs to see.
func unwrapParams(params []any, bindings map[string]any) ([]any, error) {
	out := make([]any, len(params))

	for i, p := range params {
		resolved, err := resolveNamedRefs(p, bindings)
		if err != nil {
			return nil, err
		}

		out[i] = resolved
	}

	return out, nil
}

func resolveNamedRefs(p any, bindings map[string]any) (any, error) {
	switch t := p.(type) {
	case namedParamRef:
		v, ok := bindings[t.name]
		if !ok {
			return nil, newFormatError(ErrMissingParam, t.name, map[string]any{"name": t.name})
		}

		return v, nil

	case liftedValue:
		inner, err := resolveNamedRefs(t.v, bindings)
		if err != nil {
			return nil, err
		}

		return liftedValue{inner}, nil

	case inClauseValue:
		inner, err := resolveNamedRefs(t.v, bindings)
		if err != nil {
			return nil, err
		}

		return inClauseValue{inner}, nil

	default:
		return p, nil
	}
}

// inClauseValue marks a parameter as the still-deferred right-hand
// operand of an IN/NOT IN clause (formatIn wraps it there). If the
// resolved value turns out to be a collection, expandCollections wraps
// its unpacked placeholders in parens, matching the parens formatIn
// itself would have emitted had the collection been known at format
// time rather than deferred to a named parameter binding.
type inClauseValue struct{ v any }

// expandCollections rewrites a fragment+params pair so that any parameter
// which is a slice/array is unpacked into one "?" placeholder per element
// at the position of its original placeholder. Collection expansion
// happens before numbering. liftedValue parameters are never expanded,
// regardless of their underlying value, and are unwrapped to their raw
// value in the output; inClauseValue parameters that do expand get their
// placeholders wrapped in parens.
//
// Only the placeholder at byte offset matching a collection value is
// expanded; identifying *which* placeholder corresponds to which
// parameter is done positionally, by counting "?" occurrences left to
// right, matching the ordering guarantee.
func expandCollections(sql string, params []any) (string, []any) {
	hasCollection := false

	for _, p := range params {
		if needsExpansion(p) {
			hasCollection = true
			break
		}
	}

	if !hasCollection {
		out := make([]any, len(params))
		for i, p := range params {
			out[i] = unwrapMarker(p)
		}

		return sql, out
	}

	var (
		b strings.Builder
		out []any
		paramI int
	)

	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			b.WriteByte(sql[i])
			continue
		}

		p := params[paramI]
		paramI++

		writePlaceholder(&b, &out, p)
	}

	return b.String(), out
}

// needsExpansion reports whether p, once markers are accounted for,
// must be unpacked into multiple placeholders.
func needsExpansion(p any) bool {
	switch t := p.(type) {
	case liftedValue:
		return false
	case inClauseValue:
		return needsExpansion(t.v)
	default:
		return isSliceValue(p)
	}
}

// unwrapMarker strips any lift/in-clause wrapper down to the raw bound
// value, for the path where no parameter in the fragment needs
// expanding.
func unwrapMarker(p any) any {
	switch t := p.(type) {
	case liftedValue:
		return t.v
	case inClauseValue:
		return unwrapMarker(t.v)
	default:
		return p
	}
}

func writePlaceholder(b *strings.Builder, out *[]any, p any) {
	switch t := p.(type) {
	case liftedValue:
		b.WriteByte('?')
		*out = append(*out, t.v)

	case inClauseValue:
		writeInClausePlaceholder(b, out, t.v)

	default:
		if isSliceValue(p) {
			writeExpandedElems(b, out, p)
			return
		}

		b.WriteByte('?')
		*out = append(*out, p)
	}
}

// writeInClausePlaceholder renders the right-hand side of an IN/NOT IN
// clause whose collection-ness was only known after resolving a named
// parameter: a collection gets parenthesized, matching formatIn's own
// immediate-literal rendering; a scalar is a plain placeholder.
func writeInClausePlaceholder(b *strings.Builder, out *[]any, v any) {
	if !isSliceValue(v) {
		b.WriteByte('?')
		*out = append(*out, v)

		return
	}

	b.WriteByte('(')
	writeExpandedElems(b, out, v)
	b.WriteByte(')')
}

func writeExpandedElems(b *strings.Builder, out *[]any, v any) {
	elems := toAnySlice(v)

	for j, e := range elems {
		if j > 0 {
			b.WriteString(", ")
		}

		b.WriteByte('?')
		*out = append(*out, e)
	}
}

func isSliceValue(v any) bool {
	if v == nil {
		return false
	}

	switch v.(type) {
	case string, []byte:
		return false
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func toAnySlice(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())

	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

// renumberPlaceholders replaces every "?" with "$1", "$2", ... in textual
// order.
func renumberPlaceholders(sql string) string {
	out, _ := renumberPlaceholdersFrom(sql, 0)
	return out
}

// renumberPlaceholdersFrom is renumberPlaceholders with an externally
// supplied starting counter, for callers (format_expr_list) that
// renumber a series of independently-formatted fragments as one
// contiguous sequence.
func renumberPlaceholdersFrom(sql string, start int) (string, int) {
	var b strings.Builder

	n := start

	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++

			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteByte(sql[i])
	}

	return b.String(), n
}
