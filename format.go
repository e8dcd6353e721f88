// Package sqlcraft turns a declarative, data-driven description of a SQL
// statement into a SQL string plus an ordered parameter list. It does not
// execute SQL or talk to a database; callers feed the result to any
// driver (database/sql, pgx, ...).
package sqlcraft

// Options configures one Format / FormatDSL / FormatExpr / FormatExprList
// call.
type Options struct {
	// Registry selects which registry this call reads from. nil uses
	// DefaultRegistry, the process-wide registry (the "process-wide
	// value behind a read-write lock" discipline). Pass an explicit
	// *Registry (built with NewRegistry and its own Register* calls, or
	// via Clone) for the "explicit FormatterConfig" discipline instead.
	Registry *Registry

	// Dialect overrides, for this call only, which dialect's quoting and
	// clause-order-fn apply. "" means "use the registry's own current
	// dialect" (initially ansi, or whatever SetDialect last set).
	Dialect Dialect

	// Quoted is the tri-state quoting override: nil means quote
	// only unusual identifiers, unless a dialect was explicitly specified
	// (here or via a prior SetDialect call on the registry), in which
	// case nil means "always quote".
	Quoted *bool

	// Inline literalizes every leaf value instead of parameterizing it.
	Inline bool

	// Numbered renders $1, $2, ... placeholders instead of ?.
	Numbered bool

	// Params resolves named-parameter references (?name) during the
	// final unwrap pass.
	Params map[string]any

	// Pretty joins clauses with a newline instead of a space.
	Pretty bool
}

func (o Options) registry() *Registry {
	if o.Registry != nil {
		return o.Registry
	}

	return DefaultRegistry
}

// buildContext resolves an Options value into the per-call context,
// against a snapshot of the chosen registry, without mutating anything
// process-wide.
func (o Options) buildContext() (*callCtx, error) {
	reg := o.registry()

	regDialect, regQuote, dialectExplicit := reg.currentDialect()

	dialect := o.Dialect
	if dialect == "" {
		dialect = regDialect
	} else {
		dialectExplicit = true
	}

	info, err := lookupDialect(dialect)
	if err != nil {
		return nil, err
	}

	quote := regQuote
	if o.Dialect != "" || o.Quoted != nil {
		quote = quoteFromOption(o.Quoted, dialectExplicit)
	}

	return &callCtx{
		reg: reg.snapshotForCall(dialect),
		dialect: dialect,
		dialectInfo: info,
		quote: quote,
		inline: o.Inline,
		numbered: o.Numbered,
		pretty: o.Pretty,
		params: o.Params,
	}, nil
}

// Format renders a statement mapping to a SQL string and its ordered
// parameters, running the full finishing pass: named-parameter unwrap,
// collection expansion, and optional placeholder renumbering.
func Format(data Stmt, opts Options) (string, []any, error) {
	c, err := opts.buildContext()
	if err != nil {
		return "", nil, err
	}

	sql, params, err := c.formatStatement(data, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return finishPlaceholders(sql, params, opts.Params, opts.Numbered)
}

// FormatDSL implements the format_dsl: render a statement mapping with no
// final unwrap pass — deferred parameter carriers are returned as-is for
// the caller to resolve itself.
func FormatDSL(data Stmt, opts Options) (string, []any, error) {
	c, err := opts.buildContext()
	if err != nil {
		return "", nil, err
	}

	return c.formatStatement(data, renderFlags{})
}

// FormatExpr implements the format_expr: format a standalone expression,
// running the same final pass as Format.
func FormatExpr(expr any, opts Options) (string, []any, error) {
	c, err := opts.buildContext()
	if err != nil {
		return "", nil, err
	}

	sql, params, err := c.formatExpr(expr, renderFlags{})
	if err != nil {
		return "", nil, err
	}

	return finishPlaceholders(sql, params, opts.Params, opts.Numbered)
}

// FormatExprList implements the format_expr_list: format a sequence of
// expressions independently, returning their fragments and a single
// combined, already-unwrapped parameter list (in the fragments' combined
// left-to-right order) for the caller to join as it sees fit. Each
// fragment's own placeholders are unwrapped, collection-expanded, and (if
// requested) renumbered as one contiguous sequence across the whole list,
// so a caller joining the fragments with ", " gets exactly the same
// numbering Format would have produced for an equivalent single
// expression.
func FormatExprList(exprs []any, opts Options) ([]string, []any, error) {
	c, err := opts.buildContext()
	if err != nil {
		return nil, nil, err
	}

	rawFrags := make([]string, len(exprs))
	rawParams := make([][]any, len(exprs))

	for i, e := range exprs {
		frag, p, err := c.formatExpr(e, renderFlags{})
		if err != nil {
			return nil, nil, err
		}

		rawFrags[i] = frag
		rawParams[i] = p
	}

	var flatParams []any
	for _, p := range rawParams {
		flatParams = append(flatParams, p...)
	}

	unwrapped, err := unwrapParams(flatParams, opts.Params)
	if err != nil {
		return nil, nil, err
	}

	outFrags := make([]string, len(exprs))

	var (
		outParams []any
		consumed int
		counter int
	)

	for i, frag := range rawFrags {
		n := len(rawParams[i])
		sub := unwrapped[consumed : consumed+n]
		consumed += n

		expandedFrag, expandedParams := expandCollections(frag, sub)

		if opts.Numbered {
			expandedFrag, counter = renumberPlaceholdersFrom(expandedFrag, counter)
		}

		outFrags[i] = expandedFrag
		outParams = append(outParams, expandedParams...)
	}

	return outFrags, outParams, nil
}

// finishPlaceholders unwraps deferred parameter carriers, expands any
// collection-valued parameter into one placeholder per element, then (if
// requested) renumbers placeholders in textual order.
func finishPlaceholders(sql string, params []any, bindings map[string]any, numbered bool) (string, []any, error) {
	unwrapped, err := unwrapParams(params, bindings)
	if err != nil {
		return "", nil, err
	}

	sql, unwrapped = expandCollections(sql, unwrapped)
	if len(unwrapped) == 0 {
		unwrapped = nil
	}

	if numbered {
		sql = renumberPlaceholders(sql)
	}

	return sql, unwrapped, nil
}

// SQLKw implements the sql_kw: exported access to the locale-independent
// SQL-keyword formatter used internally for operator and direction
// tokens.
func SQLKw(name string) string {
	return sqlKw(name)
}

// SetDialect implements the set_dialect! against DefaultRegistry.
func SetDialect(d Dialect, quoted *bool) error {
	return DefaultRegistry.SetDialect(d, quoted)
}

// RegisterClause implements the register_clause! against DefaultRegistry.
func RegisterClause(name string, renderer ClauseRenderer, before string) error {
	return DefaultRegistry.RegisterClause(name, renderer, before)
}

// RegisterFn implements the register_fn! against DefaultRegistry.
func RegisterFn(name string, renderer SpecialRenderer) error {
	return DefaultRegistry.RegisterFn(name, renderer)
}

// RegisterFnAlias registers name as an alias of an existing special form
// against DefaultRegistry.
func RegisterFnAlias(name, existing string) error {
	return DefaultRegistry.RegisterFnAlias(name, existing)
}

// RegisterOp implements the register_op! against DefaultRegistry.
func RegisterOp(name string, variadic, ignoreNil bool) {
	DefaultRegistry.RegisterOp(name, variadic, ignoreNil)
}
