package sqlcraft

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiUpper performs locale-independent uppercasing: language.Und pins
// ICU's case folding to the root/undetermined locale, which never
// performs Turkish dotless-i mapping ("i" -> "İ").
// Go's strings.ToUpper is already locale-independent for ASCII, but we
// route through x/text/cases to make that guarantee explicit and to share
// one code path with any future non-ASCII identifier support.
var asciiUpperCaser = cases.Upper(language.Und)

func asciiUpper(s string) string {
	return asciiUpperCaser.String(s)
}

// entityOpts controls format_entity.
type entityOpts struct {
	aliased bool
	dropNS  bool
}

// formatEntity renders a symbolic name (or a raw string) as a SQL
// identifier fragment.
func (c *callCtx) formatEntity(v any, opts entityOpts) (string, error) {
	switch t := v.(type) {
	case string:
		// Raw strings are verbatim (step 1); still subject to quoting.
		return c.quoteIdent("", t, opts.dropNS), nil
	case Name:
		qualifier, local, hasQ := splitQualifier(string(t))
		if opts.dropNS {
			qualifier = ""
		} else if !hasQ {
			qualifier = ""
		}

		return c.quoteIdent(qualifier, local, opts.dropNS), nil
	default:
		return "", newFormatError(ErrBadShape, "expected an entity name", map[string]any{"value": v})
	}
}

// quoteIdent implements steps 3-5 : dash folding, star pass-through,
// dialect quoting, qualifier joining.
func (c *callCtx) quoteIdent(qualifier, local string, dropNS bool) string {
	quoteOne := func(s string) string {
		if s == star {
			return s
		}

		if !c.shouldQuoteIdent(s) {
			return strings.ReplaceAll(s, "-", "_")
		}

		return c.dialectInfo.quote(s)
	}

	localOut := quoteOne(local)

	if qualifier == "" || dropNS {
		return localOut
	}

	return quoteOne(qualifier) + "." + localOut
}

// formatEntityAlias implements format_entity_alias: a bare entity
// (including a bare subquery), or a two-element [entity, alias] pair
// rendered as "entity AS alias" (or space-separated when the dialect
// suppresses AS). The entity half may itself be a nested statement (an
// aliased subquery in a FROM or join position), which is why this, unlike
// plain format_entity, also returns lifted parameters.
func (c *callCtx) formatEntityAlias(v any) (string, []any, error) {
	if seq, ok := v.(Seq); ok {
		return c.formatAliasPair(seq)
	}

	if seq, ok := v.([]any); ok {
		return c.formatAliasPair(Seq(seq))
	}

	return c.formatAliasableEntity(v, renderFlags{aliased: false})
}

// formatAliasPair renders a two-element [entity, alias] pair. A pair
// whose would-be alias is the bare star ("*") can never actually be an
// alias — aliasing something to "*" is meaningless — so that shape falls
// through to the general expression path instead, which is what lets a
// bare function call like [:count :*] render as "COUNT(*)" rather than
// the nonsensical "count AS *" ("[[:a :b]] means function call A(b)").
func (c *callCtx) formatAliasPair(seq Seq) (string, []any, error) {
	if len(seq) != 2 || isStarName(seq[1]) {
		return c.formatAliasableEntity(any(seq), renderFlags{aliased: false})
	}

	entity, params, err := c.formatAliasableEntity(seq[0], renderFlags{aliased: true})
	if err != nil {
		return "", nil, err
	}

	alias, err := c.formatEntity(seq[1], entityOpts{})
	if err != nil {
		return "", nil, err
	}

	if !c.dialectInfo.emitAS {
		return entity + " " + alias, params, nil
	}

	return entity + " AS " + alias, params, nil
}

// isStarName reports whether v is the bare, unqualified star name.
func isStarName(v any) bool {
	n, ok := v.(Name)
	return ok && n.isStar()
}

// formatAliasableEntity renders a nested subquery statement, an
// expression sequence (a function call or other compound expression
// occupying the entity position of an alias pair, or a standalone
// non-pair item in an entity-alias list), or a plain entity name,
// depending on what v actually is.
func (c *callCtx) formatAliasableEntity(v any, flags renderFlags) (string, []any, error) {
	if stmt, ok := v.(Stmt); ok {
		return c.formatStatement(stmt, flags)
	}

	if seq, ok := v.(Seq); ok {
		return c.formatExpr(seq, renderFlags{})
	}

	if seq, ok := v.([]any); ok {
		return c.formatExpr(Seq(seq), renderFlags{})
	}

	entity, err := c.formatEntity(v, entityOpts{aliased: flags.aliased})

	return entity, nil, err
}

// rawKeywordText extracts the literal text of a symbolic name or raw
// string for callers that render it with sqlKw directly, bypassing
// formatEntity entirely. Direction words, lock strengths, interval units
// and CAST types are SQL keywords, not identifiers: routing them through
// formatEntity first would quote a dashed one ("nulls-first",
// "skip-locked", "double-precision") as if it were a column name, since
// quoteUnusualOnly treats any "-" as an unusual identifier character.
func rawKeywordText(v any) (string, error) {
	switch t := v.(type) {
	case Name:
		return string(t), nil
	case string:
		return t, nil
	default:
		return "", newFormatError(ErrBadShape, "expected a keyword name", map[string]any{"value": v})
	}
}

// sqlKw implements sql_kw: upper-case the local name with
// locale-independent rules, replacing '-' with a space so multi-word
// keywords like "nulls-first" render as "NULLS FIRST".
func sqlKw(name string) string {
	_, local, _ := splitQualifier(name)
	if local == "" {
		local = name
	}

	local = strings.ReplaceAll(local, "-", " ")

	return asciiUpper(local)
}
