package plan

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/eugkhp/chimney/internal/diagnostic"
	"github.com/eugkhp/chimney/internal/match"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// DefaultMaxDepth bounds non-cyclic value nesting during derivation.
// Cycles are tied through pending plans and never hit the cap.
const DefaultMaxDepth = 32

// Config holds per-transformer derivation settings.
type Config struct {
	// FuncName names the root pair's generated function. Empty derives
	// one from the type names.
	FuncName string

	// Getters admits source accessor methods as readable members.
	Getters bool

	// Setters admits destination Set* methods and switches products
	// that expose setters to bean construction.
	Setters bool

	// MaxDepth caps nesting; exceeding it fails the derivation.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultConfig returns the default derivation configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth}
}

// pairEntry tracks one type pair through derivation. The plan pointer
// exists before derivation finishes so cyclic references can point at
// it; the collector holds the pair's own failures relative to its
// root, rebased by each caller onto the referencing member's path.
type pairEntry struct {
	plan   *Plan
	col    *diagnostic.Collector
	done   bool
	failed bool
}

// Deriver synthesizes plans for one transformer's pair set. It keeps
// the completed-pair memo, the pending pairs on the active derivation
// path, and the session collector.
type Deriver struct {
	ins   *shape.Inspector
	reg   *rules.Registry
	funcs *rules.FuncTable
	cfg   Config
	opt   shape.Options
	mode  Mode

	col   *diagnostic.Collector
	pairs map[string]*pairEntry
	queue []*Plan
	names map[string]int
}

// NewDeriver creates a Deriver over a registry and declared-function
// table. A nil table behaves as empty.
func NewDeriver(reg *rules.Registry, funcs *rules.FuncTable, cfg Config) *Deriver {
	if funcs == nil {
		funcs = rules.EmptyFuncTable()
	}

	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	return &Deriver{
		ins:   shape.NewInspector(),
		reg:   reg,
		funcs: funcs,
		cfg:   cfg,
		opt:   shape.Options{Getters: cfg.Getters, Setters: cfg.Setters},
		col:   diagnostic.NewCollector(),
		pairs: make(map[string]*pairEntry),
		names: make(map[string]int),
	}
}

// Collector exposes the session's accumulated failures and notes.
func (d *Deriver) Collector() *diagnostic.Collector {
	return d.col
}

// Plans returns every derived pair plan in first-encounter order, the
// root first. Meaningful only after a successful Derive.
func (d *Deriver) Plans() []*Plan {
	return d.queue
}

// Derive synthesizes the plan for a pair. Every failure lands in the
// session collector; the returned error summarizes them when the pair
// cannot be derived. Sibling members keep deriving after a failure so
// one run reports everything.
func (d *Deriver) Derive(pair Pair, mode Mode) (*Plan, error) {
	d.mode = mode

	e := d.derivePair(pair, rules.Path{}, 0)
	d.col.Merge(diagnostic.Root(), e.col)

	if e.failed {
		return nil, d.col.Err()
	}

	return e.plan, nil
}

// derivePair derives the plan for one pair, reusing the memo. A
// pending pair returns immediately so cycles tie back to its plan;
// callers merge a finished pair's failures under their own prefix.
func (d *Deriver) derivePair(pair Pair, scope rules.Path, depth int) *pairEntry {
	key := pair.Key()
	if d.reg.HasUnder(scope) {
		key += " @ " + scope.String()
	}

	if e, ok := d.pairs[key]; ok {
		return e
	}

	if depth >= d.cfg.MaxDepth {
		e := &pairEntry{plan: &Plan{Mode: d.mode}, col: diagnostic.NewCollector(), done: true, failed: true}
		e.col.Fail(diagnostic.Root(), diagnostic.RecursiveTypeUnsupported,
			fmt.Sprintf("nesting exceeds %d levels", d.cfg.MaxDepth))

		return e
	}

	ss := d.ins.Inspect(pair.Source, d.opt)
	ds := d.ins.Inspect(pair.Dest, d.opt)

	root := len(d.pairs) == 0
	e := &pairEntry{
		plan: &Plan{
			Name:   d.allocName(d.funcName(ss, ds, root)),
			Source: ss,
			Dest:   ds,
			Mode:   d.mode,
			Root:   root,
		},
		col: diagnostic.NewCollector(),
	}

	// Cache before building so self-references find the pending plan.
	d.pairs[key] = e
	d.queue = append(d.queue, e.plan)

	d.buildPlan(e, scope, depth)

	e.done = true
	e.failed = e.col.HasFailures()

	return e
}

// buildPlan fills the entry's plan according to the pair's shapes.
func (d *Deriver) buildPlan(e *pairEntry, scope rules.Path, depth int) {
	ss, ds := e.plan.Source, e.plan.Dest

	if o, ok := d.reg.Constructor(); ok && scope.IsRoot() && ctorTarget(ds) {
		d.buildCtorFunc(e, o, scope, depth)
		return
	}

	switch {
	case ss.Kind == shape.KindProduct && ds.Kind == shape.KindProduct:
		d.buildProduct(e, scope, depth)
	case ss.Kind == shape.KindSum && ds.Kind == shape.KindSum:
		d.buildSwitch(e, scope, depth)
	default:
		if step, ok := d.deriveValue(e, ss.GoType, ds.GoType, diagnostic.Root(), scope, "", depth); ok {
			e.plan.Value = &step
		}
	}
}

// buildProduct matches destination members and derives one step each.
func (d *Deriver) buildProduct(e *pairEntry, scope rules.Path, depth int) {
	p := e.plan

	p.Strategy = CtorLiteral
	if p.Dest.Bean {
		p.Strategy = CtorSetters
	}

	res := match.Match(p.Source, p.Dest, d.reg, scope)
	for _, mm := range res.Members {
		if step, ok := d.memberStep(e, mm, scope, depth); ok {
			p.Steps = append(p.Steps, step)
		}
	}
}

// memberStep turns one matching decision into a step.
func (d *Deriver) memberStep(e *pairEntry, mm match.MemberMatch, scope rules.Path, depth int) (Step, bool) {
	name := mm.Dest.Name
	fpath := diagnostic.Root().Field(name)
	mpath := scope.Child(name)

	switch mm.Outcome {
	case match.OutcomeOverridden:
		return d.overrideStep(e, mm, fpath)

	case match.OutcomeMatched, match.OutcomeRenamed:
		step, ok := d.deriveValue(e, mm.Source.Type, mm.Dest.Type, fpath, mpath, d.memberDefault(mm.Dest, mpath), depth)
		if !ok {
			return Step{}, false
		}

		step.Dest = mm.Dest
		step.Source = mm.Source

		return step, true

	default:
		if expr := d.memberDefault(mm.Dest, mpath); expr != "" {
			return Step{Dest: mm.Dest, Op: StepDefault, Expr: expr, Dst: mm.Dest.Type}, true
		}

		detail := fmt.Sprintf("no source member matches %q", name)
		if mm.MissingRenameFrom != "" {
			detail = fmt.Sprintf("rename source %q does not exist", mm.MissingRenameFrom)
		}

		e.col.Fail(fpath, diagnostic.NoMatchingMember, detail)

		if len(mm.Suggestions) > 0 {
			e.col.AddNote(fpath, "similarly named source members exist", mm.Suggestions...)
		}

		return Step{}, false
	}
}

// memberDefault returns the member's fallback expression. A rules-file
// default shadows the struct tag's.
func (d *Deriver) memberDefault(f shape.Field, mpath rules.Path) string {
	if expr, ok := d.reg.DefaultFor(mpath); ok {
		return expr
	}

	return f.Default
}

// overrideStep turns a value override into a const or compute step.
func (d *Deriver) overrideStep(e *pairEntry, mm match.MemberMatch, fpath diagnostic.Path) (Step, bool) {
	o := mm.Override

	if o.Kind.IsPartial() && d.mode == ModeTotal {
		e.col.Fail(fpath, diagnostic.TypeMismatch,
			fmt.Sprintf("%s override needs a partial transformer", o.Kind))

		return Step{}, false
	}

	if o.Kind == rules.OverrideConst || o.Kind == rules.OverrideConstPartial {
		return Step{
			Dest:    mm.Dest,
			Op:      StepConst,
			Expr:    o.Expr,
			Dst:     mm.Dest.Type,
			Partial: o.Kind.IsPartial(),
		}, true
	}

	fn, ok := d.computeFunc(e, o, mm.Dest, fpath)
	if !ok {
		return Step{}, false
	}

	return Step{
		Dest:    mm.Dest,
		Op:      StepCompute,
		Func:    fn,
		Src:     e.plan.Source.GoType,
		Dst:     mm.Dest.Type,
		Partial: o.Kind.IsPartial(),
	}, true
}

// computeFunc resolves a computed-member function and checks that it
// accepts the whole source value and returns the member's type.
func (d *Deriver) computeFunc(e *pairEntry, o rules.Override, dest shape.Field, fpath diagnostic.Path) (*rules.DeclaredFunc, bool) {
	fn, ok := d.funcs.Lookup(o.Func)
	if !ok {
		e.col.Fail(fpath, diagnostic.NoAccessibleConstructor,
			fmt.Sprintf("declared function %q is not available", o.Func))

		return nil, false
	}

	if msg := checkFuncShape(fn.Sig, e.plan.Source.GoType, dest.Type, o.Kind.IsPartial()); msg != "" {
		e.col.Fail(fpath, diagnostic.TypeMismatch, fmt.Sprintf("function %q %s", o.Func, msg))
		return nil, false
	}

	return fn, true
}

// funcName proposes a function name for a pair. The root takes the
// configured name; nested helpers stay unexported.
func (d *Deriver) funcName(ss, ds *shape.Shape, root bool) string {
	if root && d.cfg.FuncName != "" {
		return d.cfg.FuncName
	}

	base := nameOf(ss) + "To" + nameOf(ds)
	if !root {
		base = lowerFirst(base)
	}

	return base
}

// allocName returns base, numbered on repeat use.
func (d *Deriver) allocName(base string) string {
	n := d.names[base]
	d.names[base]++

	if n == 0 {
		return base
	}

	return fmt.Sprintf("%s%d", base, n+1)
}

func nameOf(s *shape.Shape) string {
	if s.ID.Name != "" {
		return s.ID.Name
	}

	return "Value"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + s[size:]
}
