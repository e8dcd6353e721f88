package sqlcraft

import "strings"

// Name is a symbolic name in the declarative tree: a clause key, an infix
// operator, a function head, an identifier, or one of the prefixed special
// forms described in the ("Symbolic names"). A bare Go string is, by
// contrast, always a raw string value — this distinction is
// exactly what the spec's "symbolic name vs raw string" split requires, and
// a wrapper type is the idiomatic way to carry it through an `any`-typed
// tree without a parallel parsed-AST layer.
type Name string

// Seq is an ordered expression sequence: `[op, arg, ...]` or a plain tuple
// when the head is not symbolic.
type Seq []any

// Stmt is a statement mapping: clause name -> clause value. Recognized
// clause names are whatever the active registry knows about.
type Stmt map[string]any

const (
	prefixParam = '?'
	prefixFn = '%'
	prefixKw = '!'
	star = "*"
)

func (n Name) String() string { return string(n) }

func (n Name) isParamRef() bool {
	return len(n) > 0 && n[0] == prefixParam
}

func (n Name) isFnShorthand() bool {
	return len(n) > 0 && n[0] == prefixFn
}

func (n Name) isKeywordArg() bool {
	return len(n) > 0 && n[0] == prefixKw
}

func (n Name) isStar() bool {
	return string(n) == star
}

// paramRefName strips the leading '?'.
func (n Name) paramRefName() string {
	return string(n[1:])
}

// splitQualifier splits a symbolic name into an optional namespace
// qualifier and a local name, on '/' first (explicit namespace prefix) and
// then on '.' (dotted qualification).
func splitQualifier(s string) (qualifier, local string, hasQualifier bool) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i+1:], true
	}

	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:], true
	}

	return "", s, false
}
