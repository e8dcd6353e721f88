package sqlcraft

import (
	"fmt"
	"strings"
)

// registerBuiltinOps seeds infix-ops, variadic-ops, nil-ignoring-ops and
// infix-aliases.
func registerBuiltinOps(r *Registry) {
	variadic := []string{"and", "or", "+", "*", "||"}
	for _, op := range variadic {
		r.infixOps[op] = infixOpInfo{variadic: true, ignoreNil: op == "and" || op == "or"}
	}

	binary := []string{
		"=", "<>", "<", ">", "<=", ">=", "-", "/", "%",
		"like", "not-like", "ilike", "not-ilike", "regexp",
		"similar-to",
	}
	for _, op := range binary {
		r.infixOps[op] = infixOpInfo{}
	}

	r.infixAliases["!="] = "<>"
	r.infixAliases["not="] = "<>"
	r.infixAliases["regex"] = "regexp"
	r.infixAliases["is"] = "="
	r.infixAliases["is-not"] = "<>"
}

// formatExpr implements format_expr: returns a SQL fragment and the
// parameters lifted out of e.
func (c *callCtx) formatExpr(e any, flags renderFlags) (string, []any, error) {
	switch t := e.(type) {
	case Name:
		return c.formatNameLeaf(t)
	case Stmt:
		return c.formatNestedStatement(t)
	case Seq:
		return c.formatSeq(t, flags)
	case []any:
		return c.formatSeq(Seq(t), flags)
	default:
		frag, params := c.encodeValue(e)
		return frag, params, nil
	}
}

func (c *callCtx) formatNameLeaf(n Name) (string, []any, error) {
	if n.isParamRef() {
		return "?", []any{namedParamRef{name: n.paramRefName()}}, nil
	}

	if n.isFnShorthand() {
		return c.formatFnShorthand(n)
	}

	frag, err := c.formatEntity(n, entityOpts{})

	return frag, nil, err
}

// formatFnShorthand implements the "%f.a.b" function prefix:
// first dotted component is the function name, the rest are bare argument
// identifiers (never quoted — "terse function-with-column-name
// shorthand").
func (c *callCtx) formatFnShorthand(n Name) (string, []any, error) {
	parts := strings.Split(string(n[1:]), ".")
	if len(parts) == 0 || parts[0] == "" {
		return "", nil, newFormatError(ErrBadShape, "empty function shorthand", map[string]any{"name": string(n)})
	}

	fn := asciiUpper(parts[0])
	args := parts[1:]

	return fn + "(" + strings.Join(args, ", ") + ")", nil, nil
}

func (c *callCtx) formatNestedStatement(s Stmt) (string, []any, error) {
	return c.formatStatement(s, renderFlags{nested: true})
}

func (c *callCtx) formatSeq(seq Seq, flags renderFlags) (string, []any, error) {
	if len(seq) == 0 {
		return "()", nil, nil
	}

	head, isName := seq[0].(Name)
	if !isName {
		return c.formatTuple(seq)
	}

	canonical := c.canonicalOp(string(head))
	args := seq[1:]

	if op, ok := c.reg.infixOps[canonical]; ok {
		return c.formatInfix(canonical, op, args, flags)
	}

	if canonical == "in" || canonical == "not-in" {
		return c.formatIn(canonical, args)
	}

	if special, ok := c.reg.specialSyntax[string(head)]; ok {
		return special(c, flags, string(head), args)
	}

	return c.formatFunctionCall(string(head), args)
}

func (c *callCtx) canonicalOp(head string) string {
	if alias, ok := c.reg.infixAliases[head]; ok {
		return alias
	}

	return head
}

func (c *callCtx) formatTuple(seq Seq) (string, []any, error) {
	frags := make([]string, 0, len(seq))

	var params []any

	for _, el := range seq {
		frag, p, err := c.formatExpr(el, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		frags = append(frags, frag)
		params = append(params, p...)
	}

	return "(" + strings.Join(frags, ", ") + ")", params, nil
}

func (c *callCtx) formatInfix(op string, info infixOpInfo, args []any, flags renderFlags) (string, []any, error) {
	if info.variadic {
		return c.formatVariadicInfix(op, info, args, flags)
	}

	if len(args) != 2 {
		return "", nil, newFormatError(ErrBadShape, fmt.Sprintf("operator %q requires exactly two operands, got %d", op, len(args)), map[string]any{"operator": op, "count": len(args)})
	}

	left, right := args[0], args[1]

	if (op == "=" || op == "<>") && (isNullLiteral(left) || isNullLiteral(right)) {
		operand := left
		if isNullLiteral(left) {
			operand = right
		}

		frag, params, err := c.formatExpr(operand, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		if op == "=" {
			return frag + " IS NULL", params, nil
		}

		return frag + " IS NOT NULL", params, nil
	}

	lfrag, lparams, err := c.formatExpr(left, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	rfrag, rparams, err := c.formatExpr(right, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	frag := lfrag + " " + sqlKw(op) + " " + rfrag
	params := append(lparams, rparams...)

	if flags.nested {
		frag = "(" + frag + ")"
	}

	return frag, params, nil
}

func (c *callCtx) formatVariadicInfix(op string, info infixOpInfo, args []any, flags renderFlags) (string, []any, error) {
	operands := args
	if info.ignoreNil {
		filtered := make([]any, 0, len(args))

		for _, a := range args {
			if !isNullLiteral(a) {
				filtered = append(filtered, a)
			}
		}

		operands = filtered
	}

	frags := make([]string, 0, len(operands))

	var params []any

	for _, a := range operands {
		frag, p, err := c.formatExpr(a, renderFlags{nested: true})
		if err != nil {
			return "", nil, err
		}

		frags = append(frags, frag)
		params = append(params, p...)
	}

	joiner := " " + sqlKw(op) + " "
	frag := strings.Join(frags, joiner)

	if flags.nested {
		frag = "(" + frag + ")"
	}

	return frag, params, nil
}

// formatIn implements the IN-expansion algorithm.
func (c *callCtx) formatIn(op string, args []any) (string, []any, error) {
	if len(args) != 2 {
		return "", nil, newFormatError(ErrBadShape, "in requires exactly two operands", map[string]any{"count": len(args)})
	}

	xfrag, xparams, err := c.formatExpr(args[0], renderFlags{})
	if err != nil {
		return "", nil, err
	}

	yfrag, yparams, err := c.formatExpr(args[1], renderFlags{})
	if err != nil {
		return "", nil, err
	}

	kw := "IN"
	if op == "not-in" {
		kw = "NOT IN"
	}

	if yfrag == "?" && len(yparams) == 1 && isCollectionLiteral(yparams[0]) {
		elems := toAnySlice(yparams[0])
		placeholders := make([]string, len(elems))

		for i := range elems {
			placeholders[i] = "?"
		}

		frag := xfrag + " " + kw + " (" + strings.Join(placeholders, ", ") + ")"

		return frag, append(append([]any{}, xparams...), elems...), nil
	}

	if yfrag == "?" && len(yparams) == 1 {
		yparams = []any{inClauseValue{yparams[0]}}
	}

	frag := xfrag + " " + kw + " " + yfrag

	return frag, append(append([]any{}, xparams...), yparams...), nil
}

func isCollectionLiteral(v any) bool {
	if _, ok := v.(namedParamRef); ok {
		return false
	}

	return isSliceValue(v)
}

// formatFunctionCall implements the plain function-call fallback:
// "HEAD(a1, a2, ...)", with the single-subquery-argument special case for
// set-returning calls.
func (c *callCtx) formatFunctionCall(head string, args []any) (string, []any, error) {
	fn := asciiUpper(head)

	if len(args) == 0 {
		return fn + "()", nil, nil
	}

	if len(args) == 1 {
		if stmt, ok := args[0].(Stmt); ok {
			frag, params, err := c.formatStatement(stmt, renderFlags{nested: true})
			if err != nil {
				return "", nil, err
			}

			return fn + " " + frag, params, nil
		}
	}

	argFrags, params, err := c.formatArgList(args)
	if err != nil {
		return "", nil, err
	}

	return fn + "(" + argFrags + ")", params, nil
}

// formatArgList renders a function-call argument list, honoring the "!"
// keyword-argument prefix: an argument whose local name starts with
// "!" replaces the preceding separator with its keyword text, e.g.
// [substring col !from 3 !for 4] -> "SUBSTRING(col FROM ? FOR ?)" with
// parameters [3, 4].
func (c *callCtx) formatArgList(args []any) (string, []any, error) {
	var (
		b strings.Builder
		params []any
		first = true
		afterKeyword = false
	)

	for _, a := range args {
		if name, ok := a.(Name); ok && name.isKeywordArg() {
			if !first {
				b.WriteString(" ")
			}

			b.WriteString(sqlKw(string(name[1:])))
			b.WriteString(" ")

			first = false
			afterKeyword = true

			continue
		}

		if !first && !afterKeyword {
			b.WriteString(", ")
		}

		frag, p, err := c.formatExpr(a, renderFlags{})
		if err != nil {
			return "", nil, err
		}

		b.WriteString(frag)
		params = append(params, p...)
		first = false
		afterKeyword = false
	}

	return b.String(), params, nil
}
