package sqlcraft

import (
	"strings"
)

// registerBuiltinSpecialSyntax seeds the special-syntax registry with the
// built-in forms.
func registerBuiltinSpecialSyntax(r *Registry) {
	r.specialSyntax["inline"] = specialInline
	r.specialSyntax["param"] = specialParam
	r.specialSyntax["lift"] = specialLift
	r.specialSyntax["nest"] = specialNest
	r.specialSyntax["not"] = specialNot
	r.specialSyntax["cast"] = specialCast
	r.specialSyntax["between"] = specialBetween
	r.specialSyntax["case"] = specialCase
	r.specialSyntax["interval"] = specialInterval
	r.specialSyntax["array"] = specialArray
	r.specialSyntax["composite"] = specialComposite
	r.specialSyntax["raw"] = specialRaw
	r.specialSyntax["over"] = specialOver
}

// specialInline: "inline x" literalizes x with inline=true, regardless of
// the ambient Options.Inline setting.
func specialInline(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "inline takes exactly one argument", map[string]any{"count": len(args)})
	}

	inlined := *c
	inlined.inline = true

	return inlined.formatExpr(args[0], renderFlags{})
}

// specialParam: "param name" is equivalent to the ":?name" form.
func specialParam(c *callCtx, flags renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "param takes exactly one argument", map[string]any{"count": len(args)})
	}

	name, ok := args[0].(Name)
	if !ok {
		if s, ok := args[0].(string); ok {
			name = Name(s)
		} else {
			return "", nil, newFormatError(ErrBadShape, "param requires a name", map[string]any{"value": args[0]})
		}
	}

	return "?", []any{namedParamRef{name: string(name)}}, nil
}

// specialLift: "lift x" emits a placeholder with x appended verbatim,
// bypassing IN's collection-unwrapping even if x is a slice.
func specialLift(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "lift takes exactly one argument", map[string]any{"count": len(args)})
	}

	return "?", []any{liftedValue{args[0]}}, nil
}

// liftedValue wraps a value so isCollectionLiteral never unpacks it at
// format time, and expandCollections never expands it at bind time;
// unwrapParams resolves any named reference nested inside it but keeps
// the wrapper intact so that guarantee survives to expandCollections.
type liftedValue struct{ v any }

// specialNest: "nest e" renders e with nested=true (forces parenthesization
// where the operator/expression would otherwise be bare).
func specialNest(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "nest takes exactly one argument", map[string]any{"count": len(args)})
	}

	return c.formatExpr(args[0], renderFlags{nested: true})
}

// specialNot: "not e" -> "NOT e".
func specialNot(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "not takes exactly one argument", map[string]any{"count": len(args)})
	}

	frag, params, err := c.formatExpr(args[0], renderFlags{nested: true})
	if err != nil {
		return "", nil, err
	}

	return "NOT " + frag, params, nil
}

// specialCast: "cast e type" -> "CAST(e AS type)".
func specialCast(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 2 {
		return "", nil, newFormatError(ErrBadShape, "cast takes exactly two arguments", map[string]any{"count": len(args)})
	}

	frag, params, err := c.formatExpr(args[0], renderFlags{})
	if err != nil {
		return "", nil, err
	}

	typeText, err := rawKeywordText(args[1])
	if err != nil {
		return "", nil, err
	}

	return "CAST(" + frag + " AS " + sqlKw(typeText) + ")", params, nil
}

// specialBetween: "between x a b" -> "x BETWEEN a AND b".
func specialBetween(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 3 {
		return "", nil, newFormatError(ErrBadShape, "between takes exactly three arguments", map[string]any{"count": len(args)})
	}

	parts := make([]string, 3)

	var params []any

	for i, a := range args {
		frag, p, err := c.formatExpr(a, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		parts[i] = frag
		params = append(params, p...)
	}

	return parts[0] + " BETWEEN " + parts[1] + " AND " + parts[2], params, nil
}

// specialCase: "case c1 v1 c2 v2 ... :else d" -> a CASE WHEN/THEN chain
// with an optional ELSE.
func specialCase(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	var (
		b strings.Builder
		params []any
	)

	b.WriteString("CASE")

	i := 0
	for i+1 < len(args) {
		if name, ok := args[i].(Name); ok && string(name) == ":else" {
			break
		}

		condFrag, p1, err := c.formatExpr(args[i], renderFlags{})
		if err != nil {
			return "", nil, err
		}

		valFrag, p2, err := c.formatExpr(args[i+1], renderFlags{})
		if err != nil {
			return "", nil, err
		}

		b.WriteString(" WHEN ")
		b.WriteString(condFrag)
		b.WriteString(" THEN ")
		b.WriteString(valFrag)

		params = append(params, p1...)
		params = append(params, p2...)

		i += 2
	}

	if i < len(args) {
		if name, ok := args[i].(Name); ok && string(name) == ":else" && i+1 < len(args) {
			elseFrag, p, err := c.formatExpr(args[i+1], renderFlags{})
			if err != nil {
				return "", nil, err
			}

			b.WriteString(" ELSE ")
			b.WriteString(elseFrag)
			params = append(params, p...)
		}
	}

	b.WriteString(" END")

	return b.String(), params, nil
}

// specialInterval: "interval n units" -> "INTERVAL n UNITS".
func specialInterval(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 2 {
		return "", nil, newFormatError(ErrBadShape, "interval takes exactly two arguments", map[string]any{"count": len(args)})
	}

	nFrag, params, err := c.formatExpr(args[0], renderFlags{})
	if err != nil {
		return "", nil, err
	}

	unitText, err := rawKeywordText(args[1])
	if err != nil {
		return "", nil, err
	}

	return "INTERVAL " + nFrag + " " + sqlKw(unitText), params, nil
}

// specialArray: "array [e1 ...]" -> "ARRAY[e1, ...]".
func specialArray(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	var elems []any
	if len(args) == 1 {
		if s, ok := args[0].(Seq); ok {
			elems = s
		} else if s, ok := args[0].([]any); ok {
			elems = s
		}
	}

	if elems == nil {
		elems = args
	}

	frags := make([]string, len(elems))

	var params []any

	for i, e := range elems {
		frag, p, err := c.formatExpr(e, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		frags[i] = frag
		params = append(params, p...)
	}

	return "ARRAY[" + strings.Join(frags, ", ") + "]", params, nil
}

// specialComposite: "composite e1 ..." -> "(e1, ...)".
func specialComposite(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	frags := make([]string, len(args))

	var params []any

	for i, e := range args {
		frag, p, err := c.formatExpr(e, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		frags[i] = frag
		params = append(params, p...)
	}

	return "(" + strings.Join(frags, ", ") + ")", params, nil
}

// specialRaw: "raw s" emits s verbatim; if s is a sequence, concatenates
// its elements with NO separator, recursively
// formatting any sub-expressions it contains.
func specialRaw(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, newFormatError(ErrBadShape, "raw takes exactly one argument", map[string]any{"count": len(args)})
	}

	return c.formatRawValue(args[0])
}

func (c *callCtx) formatRawValue(v any) (string, []any, error) {
	switch t := v.(type) {
	case string:
		return t, nil, nil
	case Seq:
		return c.formatRawSeq(t)
	case []any:
		return c.formatRawSeq(t)
	default:
		return c.formatExpr(v, renderFlags{})
	}
}

func (c *callCtx) formatRawSeq(seq []any) (string, []any, error) {
	var (
		b strings.Builder
		params []any
	)

	for _, el := range seq {
		frag, p, err := c.formatRawValue(el)
		if err != nil {
			return "", nil, err
		}

		b.WriteString(frag)
		params = append(params, p...)
	}

	return b.String(), params, nil
}

// specialOver: "over (expr window alias?)+" renders one or more
// aggregate-OVER-window pairs, joined with ", ".
func specialOver(c *callCtx, _ renderFlags, _ string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return "", nil, newFormatError(ErrBadShape, "over requires at least one (expr, window) pair", nil)
	}

	var (
		frags []string
		params []any
	)

	for _, a := range args {
		triple, ok := a.(Seq)
		if !ok {
			if s, ok2 := a.([]any); ok2 {
				triple = Seq(s)
			}
		}

		if len(triple) < 2 {
			return "", nil, newFormatError(ErrBadShape, "over pair requires (expr, window[, alias])", map[string]any{"value": a})
		}

		exprFrag, p1, err := c.formatExpr(triple[0], renderFlags{})
		if err != nil {
			return "", nil, err
		}

		windowFrag, p2, err := c.formatWindowSpec(triple[1])
		if err != nil {
			return "", nil, err
		}

		frag := exprFrag + " OVER (" + windowFrag + ")"

		if len(triple) == 3 {
			alias, err := c.formatEntity(triple[2], entityOpts{})
			if err != nil {
				return "", nil, err
			}

			frag += " AS " + alias
		}

		frags = append(frags, frag)
		params = append(params, p1...)
		params = append(params, p2...)
	}

	return strings.Join(frags, ", "), params, nil
}

// formatWindowSpec renders a window-function window body, e.g.
// {partition-by: [...], order-by: [...]}.
func (c *callCtx) formatWindowSpec(v any) (string, []any, error) {
	stmt, ok := v.(Stmt)
	if !ok {
		return c.formatExpr(v, renderFlags{})
	}

	var (
		parts []string
		params []any
	)

	for _, key := range []string{"partition-by", "order-by"} {
		raw, ok := stmt[key]
		if !ok {
			continue
		}

		renderer, ok := c.reg.clauseRenderers[key]
		if !ok {
			continue
		}

		frag, p, err := renderer(c, renderFlags{}, key, raw)
		if err != nil {
			return "", nil, err
		}

		parts = append(parts, frag)
		params = append(params, p...)
	}

	return strings.Join(parts, " "), params, nil
}
