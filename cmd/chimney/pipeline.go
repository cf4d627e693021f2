package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eugkhp/chimney/internal/diagnostic"
	"github.com/eugkhp/chimney/internal/gen"
	"github.com/eugkhp/chimney/internal/plan"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// errDerivation marks runs where at least one pair failed. The detail
// lives in the session report, not in the error.
var errDerivation = errors.New("derivation failed for one or more pairs")

// session carries one rules file through loading and derivation.
type session struct {
	file   *rules.File
	loader *shape.Loader
	report diagnostic.Report
	plans  []*plan.Plan

	// funcErr holds declared-function resolution failures. They do not
	// stop the run; pairs that reference a missing function fail on
	// their own with a report entry.
	funcErr error
}

// loadSession parses and validates the rules file, then loads every Go
// package it references.
func loadSession(rulesPath string) (*session, error) {
	f, err := rules.LoadFile(rulesPath)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(f); err != nil {
		return nil, fmt.Errorf("invalid rules file %s:\n%w", rulesPath, err)
	}

	pkgs := rulePackages(f)
	loader := shape.NewLoader()
	if err := loader.Load(pkgs...); err != nil {
		return nil, err
	}
	verbosef("loaded %d package(s) for %s", len(pkgs), rulesPath)

	return &session{file: f, loader: loader}, nil
}

// rulePackages collects the package paths a rules file mentions: the
// transformer endpoints plus every declared function's package.
func rulePackages(f *rules.File) []string {
	set := make(map[string]bool)
	for _, t := range f.Transformers {
		if p, ok := pkgOfTypeRef(t.Source); ok {
			set[p] = true
		}
		if p, ok := pkgOfTypeRef(t.Target); ok {
			set[p] = true
		}
	}
	for _, fn := range f.Functions {
		if fn.Package != "" {
			set[fn.Package] = true
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// pkgOfTypeRef splits a "pkgpath.TypeName" reference down to its
// package path.
func pkgOfTypeRef(ref string) (string, bool) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 {
		return "", false
	}
	return ref[:i], true
}

// derive runs every transformer in the file, filling the report and the
// plan queue. A non-nil return means the report carries failures.
func (s *session) derive() error {
	// The table keeps every entry that resolved. Unresolved entries
	// surface per pair, so the run continues past them.
	table, funcErr := rules.BuildFuncTable(s.file.Functions, s.loader)
	s.funcErr = funcErr

	for i := range s.file.Transformers {
		s.deriveTransformer(&s.file.Transformers[i], table)
	}
	verbosef("derived %d function(s) from %d pair(s)", len(s.plans), len(s.file.Transformers))

	if s.report.HasFailures() {
		return errDerivation
	}
	return nil
}

func (s *session) deriveTransformer(tr *rules.Transformer, table *rules.FuncTable) {
	col := diagnostic.NewCollector()

	src, srcErr := s.loader.ResolveType(tr.Source)
	if srcErr != nil {
		col.Fail(diagnostic.Root(), diagnostic.TypeMismatch, srcErr.Error())
	}
	dst, dstErr := s.loader.ResolveType(tr.Target)
	if dstErr != nil {
		col.Fail(diagnostic.Root(), diagnostic.TypeMismatch, dstErr.Error())
	}
	if srcErr != nil || dstErr != nil {
		s.report.AddPair(tr.Source, tr.Target, tr.Mode, 0, col)
		return
	}

	reg := tr.BuildRegistry(col)

	cfg := plan.DefaultConfig()
	cfg.FuncName = tr.Name
	cfg.Getters = tr.Getters
	cfg.Setters = tr.Setters

	mode := plan.ModeTotal
	if tr.IsPartialMode() {
		mode = plan.ModePartial
	}
	verbosef("deriving %s -> %s (%s)", tr.Source, tr.Target, mode)

	d := plan.NewDeriver(reg, table, cfg)
	_, err := d.Derive(plan.Pair{Source: src, Dest: dst}, mode)
	col.Merge(diagnostic.Root(), d.Collector())

	derived := 0
	if err == nil && !col.HasFailures() {
		s.plans = append(s.plans, d.Plans()...)
		derived = len(d.Plans())
	}

	s.report.AddPair(tr.Source, tr.Target, tr.Mode, derived, col)
}

// generate renders the queued plans into a single output file.
func (s *session) generate(outputDir, pkgName string) ([]gen.GeneratedFile, error) {
	cfg := gen.DefaultGeneratorConfig()
	cfg.OutputDir = outputDir
	if pkgName != "" {
		cfg.PackageName = pkgName
	}

	g := gen.NewGenerator(cfg)
	if err := g.Add(s.plans...); err != nil {
		return nil, err
	}
	return g.Generate()
}
