package rules

// Registry holds the ordered overrides of one transformer pair plus the
// member defaults and ignores supplied by the rules file. It is built
// once by the loader or the builder and read-only during derivation.
type Registry struct {
	overrides []Override
	defaults  []defaultEntry
	ignored   map[string]bool
}

type defaultEntry struct {
	path Path
	expr string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ignored: make(map[string]bool),
	}
}

// Add appends an override. Later additions shadow earlier ones for the
// same path; shadowing is not an error.
func (r *Registry) Add(o Override) {
	r.overrides = append(r.overrides, o)
}

// AddDefault appends a member default. The latest default for a path
// wins and shadows any struct-tag default on the member.
func (r *Registry) AddDefault(path Path, expr string) {
	r.defaults = append(r.defaults, defaultEntry{path: path, expr: expr})
}

// AddIgnored excludes a root-level destination member from matching.
func (r *Registry) AddIgnored(name string) {
	r.ignored[name] = true
}

// Overrides returns the overrides in registration order. The slice is
// shared; callers must not modify it.
func (r *Registry) Overrides() []Override {
	return r.overrides
}

// Len returns the number of registered overrides.
func (r *Registry) Len() int {
	return len(r.overrides)
}

// ValueFor returns the winning value override (const or computed) for a
// destination path, scanning latest to earliest.
func (r *Registry) ValueFor(path Path) (Override, bool) {
	for i := len(r.overrides) - 1; i >= 0; i-- {
		o := r.overrides[i]
		if o.Kind.IsValue() && o.Path.Equal(path) {
			return o, true
		}
	}

	return Override{}, false
}

// RenameFor returns the winning rename override for a destination path.
// Renames are a separate priority bucket consulted after exact-name
// matching.
func (r *Registry) RenameFor(path Path) (Override, bool) {
	for i := len(r.overrides) - 1; i >= 0; i-- {
		o := r.overrides[i]
		if o.Kind == OverrideRenamed && o.Path.Equal(path) {
			return o, true
		}
	}

	return Override{}, false
}

// HandlerFor returns the winning handler override for a source variant.
func (r *Registry) HandlerFor(variant string) (Override, bool) {
	for i := len(r.overrides) - 1; i >= 0; i-- {
		o := r.overrides[i]
		if !o.Kind.IsHandler() || o.Path.Len() != 1 {
			continue
		}

		if o.Path.Segments[0].Name == variant {
			return o, true
		}
	}

	return Override{}, false
}

// Constructor returns the winning constructor override, if any.
func (r *Registry) Constructor() (Override, bool) {
	for i := len(r.overrides) - 1; i >= 0; i-- {
		if r.overrides[i].Kind.IsConstructor() {
			return r.overrides[i], true
		}
	}

	return Override{}, false
}

// DefaultFor returns the winning default expression for a destination
// path.
func (r *Registry) DefaultFor(path Path) (string, bool) {
	for i := len(r.defaults) - 1; i >= 0; i-- {
		if r.defaults[i].path.Equal(path) {
			return r.defaults[i].expr, true
		}
	}

	return "", false
}

// Ignored reports whether a root-level destination member is excluded
// from matching.
func (r *Registry) Ignored(name string) bool {
	return r.ignored[name]
}

// HasUnder reports whether any value, rename, or default override
// targets a path strictly below scope. A nested pair derived at a
// scope with nothing under it behaves identically at every scope, so
// its plan can be shared.
func (r *Registry) HasUnder(scope Path) bool {
	for _, o := range r.overrides {
		if o.Kind.IsHandler() || o.Kind.IsConstructor() {
			continue
		}

		if o.Path.Len() > scope.Len() && o.Path.HasPrefix(scope) {
			return true
		}
	}

	for _, d := range r.defaults {
		if d.path.Len() > scope.Len() && d.path.HasPrefix(scope) {
			return true
		}
	}

	return false
}
