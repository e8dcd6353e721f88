package sqlcraft

import (
	"sync"
)

// ClauseRenderer renders one statement clause. It receives the
// per-call context, the ambient nesting flags, the clause's own name (for
// SQL-keyword rendering) and its value, and returns a fragment plus the
// parameters it lifted out of that value.
type ClauseRenderer func(c *callCtx, flags renderFlags, clause string, value any) (string, []any, error)

// SpecialRenderer renders a registered special-syntax / function-like
// form. args are the already-unevaluated expression arguments; the
// renderer recurses into formatExpr itself as needed.
type SpecialRenderer func(c *callCtx, flags renderFlags, name string, args []any) (string, []any, error)

type infixOpInfo struct {
	variadic bool
	ignoreNil bool
}

// Registry is the explicit, caller-constructible replacement for the
// three shared mutable maps: infix operators, special-syntax forms, and
// clause renderers, plus the two clause-order lists. A caller may want
// either explicit config values passed to Format, or a process-wide value
// behind a read-write lock; Registry supports both — DefaultRegistry is
// the latter, Clone gives callers the former. Register* calls update the
// maps in place under the write lock, and each format call works from its
// own copy of them taken under the read lock.
type Registry struct {
	mu sync.RWMutex

	infixOps map[string]infixOpInfo
	infixAliases map[string]string

	specialSyntax map[string]SpecialRenderer

	clauseRenderers map[string]ClauseRenderer
	baseClauseOrder []string
	currentClauseOrder []string

	dialect Dialect
	quote quoteMode
	dialectExplicit bool
}

// NewRegistry builds a registry seeded with the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{
		infixOps: map[string]infixOpInfo{},
		infixAliases: map[string]string{},
		specialSyntax: map[string]SpecialRenderer{},
		clauseRenderers: map[string]ClauseRenderer{},
		dialect: DialectANSI,
		quote: quoteUnusualOnly,
	}

	registerBuiltinOps(r)
	registerBuiltinSpecialSyntax(r)
	registerBuiltinClauses(r)

	r.currentClauseOrder = r.recomputeOrder()

	return r
}

// DefaultRegistry is the process-wide registry used when a call does not
// supply its own. The intended discipline is to mutate it only during
// program initialization, then read it concurrently thereafter.
var DefaultRegistry = NewRegistry()

// Clone returns a deep-enough copy-on-write snapshot safe to mutate
// independently of the source registry, without taking its lock again.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Registry{
		infixOps: cloneMap(r.infixOps),
		infixAliases: cloneMap(r.infixAliases),
		specialSyntax: cloneMap(r.specialSyntax),
		clauseRenderers: cloneMap(r.clauseRenderers),
		baseClauseOrder: append([]string(nil), r.baseClauseOrder...),
		dialect: r.dialect,
		quote: r.quote,
		dialectExplicit: r.dialectExplicit,
	}
	out.currentClauseOrder = out.recomputeOrder()

	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// registerBuiltinClauses wires every built-in clause renderer into
// the registry, then fixes base-clause-order to the legal SQL sequence.
// The five registerXClauses helpers each append to base-clause-order as a
// side effect of calling RegisterClause, but the append order across five
// separate files is not the order SQL requires them in, so the curated
// list below is the authoritative one — it is asserted after every
// renderer is registered, not interleaved with registration.
func registerBuiltinClauses(r *Registry) {
	registerDMLClauses(r)
	registerJoinClauses(r)
	registerSetOpClauses(r)
	registerDDLClauses(r)
	registerNRQLClauses(r)

	r.baseClauseOrder = []string{
		"with", "with-recursive",
		"create-table", "with-columns",
		"alter-table", "add-column", "drop-column", "modify-column", "rename-column", "add-index", "drop-index",
		"drop-table", "rename-table", "create-view",
		"insert-into", "values", "on-conflict", "do-update-set",
		"update",
		"delete",
		"select-distinct-on", "select-distinct", "select",
		"from",
		"join", "left-join", "right-join", "inner-join", "outer-join", "full-join", "cross-join",
		"set", "where",
		"group-by", "having",
		"window",
		"union", "union-all", "intersect", "except", "except-all",
		"order-by",
		"limit", "offset", "for",
		"partition-by",
		"returning",
		"facet", "since", "until",
	}
}

// RegisterOp registers (or re-registers) an infix operator.
func (r *Registry) RegisterOp(name string, variadic, ignoreNil bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infixOps[name] = infixOpInfo{variadic: variadic, ignoreNil: ignoreNil}
}

// RegisterOpAlias registers a legacy/alternate operator spelling that
// canonicalizes to an existing operator name.
func (r *Registry) RegisterOpAlias(alias, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infixAliases[alias] = canonical
}

// RegisterFn registers a special-syntax / function-like renderer.
func (r *Registry) RegisterFn(name string, renderer SpecialRenderer) error {
	if renderer == nil {
		return newFormatError(ErrBadRegistration, "renderer must not be nil", map[string]any{"name": name})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.specialSyntax[name] = renderer

	return nil
}

// RegisterFnAlias registers name as an alias of an already-registered
// special-syntax form.
func (r *Registry) RegisterFnAlias(name, existing string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	renderer, ok := r.specialSyntax[existing]
	if !ok {
		return newFormatError(ErrBadRegistration, "unknown reference special form", map[string]any{"existing": existing})
	}

	r.specialSyntax[name] = renderer

	return nil
}

// RegisterClause registers a clause renderer. If
// before is non-empty, the clause is inserted immediately ahead of it in
// both base-clause-order and current-clause-order; otherwise it is
// appended.
func (r *Registry) RegisterClause(name string, renderer ClauseRenderer, before string) error {
	if renderer == nil {
		return newFormatError(ErrBadRegistration, "renderer must not be nil", map[string]any{"name": name})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clauseRenderers[name] = renderer

	if before == "" {
		r.baseClauseOrder = append(r.baseClauseOrder, name)
	} else {
		idx := indexOf(r.baseClauseOrder, before)
		if idx < 0 {
			return newFormatError(ErrBadRegistration, "unknown reference clause for before", map[string]any{"before": before})
		}

		r.baseClauseOrder = insertAt(r.baseClauseOrder, idx, name)
	}

	r.currentClauseOrder = r.recomputeOrderLocked()

	return nil
}

// SetDialect sets the process-wide default dialect and quoting mode
//. Applying the same dialect twice is idempotent
// because recomputeOrder is a pure function of
// baseClauseOrder and the dialect tag.
func (r *Registry) SetDialect(d Dialect, quoted *bool) error {
	if _, err := lookupDialect(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dialect = d
	r.quote = quoteFromOption(quoted, true)
	r.dialectExplicit = true
	r.currentClauseOrder = r.recomputeOrderLocked()

	return nil
}

func quoteFromOption(quoted *bool, dialectSelected bool) quoteMode {
	if quoted == nil {
		if dialectSelected {
			return quoteAlways
		}

		return quoteUnusualOnly
	}

	if *quoted {
		return quoteAlways
	}

	return quoteNever
}

func (r *Registry) recomputeOrder() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.recomputeOrderLocked()
}

// recomputeOrderLocked applies the active dialect's clause-order-fn (if
// any) to base-clause-order.
// Caller must hold r.mu.
func (r *Registry) recomputeOrderLocked() []string {
	info := dialectTable[r.dialect]
	if info.order == nil {
		return append([]string(nil), r.baseClauseOrder...)
	}

	return info.order(r.baseClauseOrder)
}

// snapshot takes a consistent, lock-free-to-read copy of the fields a
// single format() call needs.
type registrySnapshot struct {
	infixOps map[string]infixOpInfo
	infixAliases map[string]string
	specialSyntax map[string]SpecialRenderer
	clauseRenderers map[string]ClauseRenderer
	clauseOrder []string
}

func (r *Registry) snapshot() registrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return registrySnapshot{
		infixOps: cloneMap(r.infixOps),
		infixAliases: cloneMap(r.infixAliases),
		specialSyntax: cloneMap(r.specialSyntax),
		clauseRenderers: cloneMap(r.clauseRenderers),
		clauseOrder: r.currentClauseOrder,
	}
}

// snapshotForCall is like snapshot, but computes clause-order for an
// explicit per-call dialect override rather than the registry's own
// persisted default: a dialect may be selected for a single call without
// calling SetDialect.
func (r *Registry) snapshotForCall(dialect Dialect) registrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := dialectTable[dialect]

	order := append([]string(nil), r.baseClauseOrder...)
	if info.order != nil {
		order = info.order(r.baseClauseOrder)
	}

	return registrySnapshot{
		infixOps: cloneMap(r.infixOps),
		infixAliases: cloneMap(r.infixAliases),
		specialSyntax: cloneMap(r.specialSyntax),
		clauseRenderers: cloneMap(r.clauseRenderers),
		clauseOrder: order,
	}
}

func (r *Registry) currentDialect() (Dialect, quoteMode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.dialect, r.quote, r.dialectExplicit
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}

	return -1
}

func insertAt(list []string, idx int, s string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, s)
	out = append(out, list[idx:]...)

	return out
}
