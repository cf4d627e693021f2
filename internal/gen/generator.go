package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/eugkhp/chimney/internal/plan"
)

// partialPkgPath is the runtime package partial transformers report
// their failures through.
const partialPkgPath = "github.com/eugkhp/chimney/partial"

// Defaults for GeneratorConfig fields left empty.
const (
	DefaultPackageName = "transform"
	DefaultFileName    = "transform_gen.go"
)

// GeneratorConfig controls the rendered output.
type GeneratorConfig struct {
	// PackageName declared by the generated file.
	PackageName string

	// FileName of the generated file inside the output directory.
	FileName string

	// OutputDir receives the debug sidecar when formatting fails.
	OutputDir string
}

// DefaultGeneratorConfig returns the default generation configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: DefaultPackageName,
		FileName:    DefaultFileName,
		OutputDir:   ".",
	}
}

// GeneratedFile is one generated output file.
type GeneratedFile struct {
	Filename string
	Content  []byte
}

// Generator renders plan sets into one Go source file. Add registers
// each transformer's plans; Generate renders everything added.
type Generator struct {
	cfg   GeneratorConfig
	plans []*plan.Plan
	names map[*plan.Plan]string
	taken map[string]bool
}

// NewGenerator creates a Generator with the given configuration.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.PackageName == "" {
		cfg.PackageName = DefaultPackageName
	}

	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}

	return &Generator{
		cfg:   cfg,
		names: make(map[*plan.Plan]string),
		taken: make(map[string]bool),
	}
}

// Add registers one transformer's plans in queue order, the root
// first. Nested helper names colliding with previously added
// transformers are renumbered; a colliding root name is a
// configuration error.
func (g *Generator) Add(plans ...*plan.Plan) error {
	for _, p := range plans {
		if _, ok := g.names[p]; ok {
			continue
		}

		name, err := g.allocName(p)
		if err != nil {
			return err
		}

		g.names[p] = name
		g.plans = append(g.plans, p)
	}

	return nil
}

// allocName claims a function name for the plan.
func (g *Generator) allocName(p *plan.Plan) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("plan for %s carries no function name", p.Pair().Key())
	}

	if !g.taken[p.Name] {
		g.taken[p.Name] = true
		return p.Name, nil
	}

	if p.Root {
		return "", fmt.Errorf("transformer function %q is declared more than once", p.Name)
	}

	for i := 2; ; i++ {
		name := fmt.Sprintf("%s%d", p.Name, i)
		if !g.taken[name] {
			g.taken[name] = true
			return name, nil
		}
	}
}

// Generate renders every added plan into a single file. Unformattable
// output lands in a debug sidecar and is returned alongside the error.
func (g *Generator) Generate() ([]GeneratedFile, error) {
	if err := g.checkNested(); err != nil {
		return nil, err
	}

	imp := newImportSet()
	funcs := make([]string, 0, len(g.plans))

	for _, p := range g.plans {
		src, err := (&fnEmitter{gen: g, imp: imp, w: &codeWriter{}, p: p}).render()
		if err != nil {
			return nil, err
		}

		funcs = append(funcs, src)
	}

	var buf bytes.Buffer

	err := fileTemplate.Execute(&buf, fileData{
		Package: g.cfg.PackageName,
		Imports: imp.specs(),
		Funcs:   funcs,
	})
	if err != nil {
		return nil, fmt.Errorf("executing file template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(g.cfg.OutputDir, g.cfg.FileName, buf.Bytes())

		return []GeneratedFile{{Filename: g.cfg.FileName, Content: buf.Bytes()}},
			fmt.Errorf("formatting %s: %w", g.cfg.FileName, err)
	}

	return []GeneratedFile{{Filename: g.cfg.FileName, Content: formatted}}, nil
}

// checkNested verifies that every nested plan a step references was
// registered through Add, so call sites always resolve to a rendered
// function.
func (g *Generator) checkNested() error {
	for _, p := range g.plans {
		for i := range p.Steps {
			if err := g.checkStep(&p.Steps[i]); err != nil {
				return err
			}
		}

		if p.Value != nil {
			if err := g.checkStep(p.Value); err != nil {
				return err
			}
		}

		for i := range p.Cases {
			if n := p.Cases[i].Nested; n != nil {
				if _, ok := g.names[n]; !ok {
					return fmt.Errorf("nested plan %q was never added", n.Name)
				}
			}
		}

		if p.Ctor != nil {
			for i := range p.Ctor.Args {
				if err := g.checkStep(&p.Ctor.Args[i]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (g *Generator) checkStep(s *plan.Step) error {
	if s.Nested != nil {
		if _, ok := g.names[s.Nested]; !ok {
			return fmt.Errorf("nested plan %q was never added", s.Nested.Name)
		}
	}

	if s.Elem != nil {
		if err := g.checkStep(s.Elem); err != nil {
			return err
		}
	}

	if s.Key != nil {
		return g.checkStep(s.Key)
	}

	return nil
}

// fileData feeds the file template.
type fileData struct {
	Package string
	Imports []importSpec
	Funcs   []string
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by chimney. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Funcs}}
{{.}}
{{end}}`))
