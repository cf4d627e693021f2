package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const rulesFilePerm = 0o644

// LoadFile loads and parses a YAML rules file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Transformers {
		t := &f.Transformers[i]
		if t.Mode == "" {
			t.Mode = ModeTotal
		}
	}

	for i := range f.Functions {
		fn := &f.Functions[i]
		if fn.Func == "" {
			fn.Func = fn.Name
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(path, data, rulesFilePerm); err != nil {
		return fmt.Errorf("failed to write rules file %s: %w", path, err)
	}

	return nil
}

// Validate checks the file's structure before any derivation: type
// references present, recognized modes, resolvable function references,
// no duplicate declarations. Problems accumulate into one joined error
// so a user fixes everything in one run. Override entry actions are
// validated later by BuildRegistry, where they surface in the pair's
// failure report.
func Validate(f *File) error {
	if f == nil {
		return errors.New("rules file is nil")
	}

	var errs []error

	if len(f.Transformers) == 0 {
		errs = append(errs, errors.New("rules file declares no transformers"))
	}

	declared := make(map[string]bool)

	for i := range f.Functions {
		fn := &f.Functions[i]

		switch {
		case fn.Name == "":
			errs = append(errs, fmt.Errorf("function %d: missing name", i+1))
		case declared[fn.Name]:
			errs = append(errs, fmt.Errorf("duplicate function %q", fn.Name))
		default:
			declared[fn.Name] = true
		}

		if fn.Package == "" {
			errs = append(errs, fmt.Errorf("function %q: missing package", fn.Name))
		}
	}

	for i := range f.Transformers {
		t := &f.Transformers[i]
		pair := t.PairName()

		if t.Source == "" {
			errs = append(errs, fmt.Errorf("transformer %d: missing source", i+1))
		}

		if t.Target == "" {
			errs = append(errs, fmt.Errorf("transformer %d: missing target", i+1))
		}

		if t.Mode != ModeTotal && t.Mode != ModePartial {
			errs = append(errs, fmt.Errorf("%s: unknown mode %q", pair, t.Mode))
		}

		if t.Constructor != "" && t.ConstructorPartial != "" {
			errs = append(errs, fmt.Errorf("%s: constructor and constructorPartial are mutually exclusive", pair))
		}

		checkRef := func(name, role string) {
			if name != "" && !declared[name] {
				errs = append(errs, fmt.Errorf("%s: %s references undeclared function %q", pair, role, name))
			}
		}

		checkRef(t.Constructor, "constructor")
		checkRef(t.ConstructorPartial, "constructorPartial")

		for _, entry := range t.Overrides {
			checkRef(entry.Compute, "compute")
			checkRef(entry.ComputePartial, "computePartial")
			checkRef(entry.Handler, "handler")
			checkRef(entry.HandlerPartial, "handlerPartial")
		}
	}

	return errors.Join(errs...)
}
