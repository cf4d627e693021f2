package shape

import (
	"go/types"

	"github.com/eugkhp/chimney/internal/common"
)

// TypeID uniquely identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "github.com/eugkhp/chimney/examples/basic/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IDOf extracts the TypeID of a type. Basic types carry only their
// name; unnamed composites get the zero TypeID.
func IDOf(t types.Type) TypeID {
	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		obj := tt.Obj()
		id := TypeID{Name: obj.Name()}

		if obj.Pkg() != nil {
			id.PkgPath = obj.Pkg().Path()
		}

		return id

	case *types.Basic:
		return TypeID{Name: tt.Name()}

	default:
		// Unnamed composites (pointers, slices, maps) carry no ID.
		return TypeID{}
	}
}

// TypeString renders a type for reports, qualified by package name.
func TypeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		return p.Name()
	})
}

// Kind is the structural classification of a type.
type Kind int

const (
	KindInvalid Kind = iota
	KindScalar       // atomic: basics, opaque named types, time.Time
	KindProduct      // record with named members
	KindSum          // closed set of named variants
	KindWrapper      // single-value container: pointer, nullable, slice, map
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindProduct:
		return "product"
	case KindSum:
		return "sum"
	case KindWrapper:
		return "wrapper"
	default:
		return common.UnknownStr
	}
}

// WrapperKind distinguishes the recognized wrapper families.
type WrapperKind int

const (
	WrapperNone     WrapperKind = iota
	WrapperOptional             // *T
	WrapperNull                 // null.String, sql.NullInt64, ...
	WrapperSlice                // []T
	WrapperMap                  // map[K]V
)

// String returns a human-readable representation of the WrapperKind.
func (k WrapperKind) String() string {
	switch k {
	case WrapperOptional:
		return "optional"
	case WrapperNull:
		return "null"
	case WrapperSlice:
		return "slice"
	case WrapperMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// FieldKind records how a product member is reached.
type FieldKind int

const (
	FieldStruct   FieldKind = iota // exported struct field
	FieldAccessor                  // zero-arg method, member named after the method
	FieldGetter                    // GetX() method, member named X
	FieldSetter                    // SetX(v) method, member named X, write-only
)

// String returns a human-readable representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case FieldStruct:
		return "field"
	case FieldAccessor:
		return "accessor"
	case FieldGetter:
		return "getter"
	case FieldSetter:
		return "setter"
	default:
		return common.UnknownStr
	}
}

// Field describes one product member.
type Field struct {
	Name     string    // member name, unique within the product
	Type     types.Type
	Kind     FieldKind
	Accessor string // method name for accessor/getter/setter kinds
	Default  string // fallback Go expression, empty when the member is mandatory
	Ignored  bool   // excluded from matching via the chimney:"-" tag
	Embedded bool
	Index    int // struct field index, -1 for method-backed members
}

// Readable reports whether the member can produce a value on the source side.
func (f Field) Readable() bool {
	return f.Kind != FieldSetter
}

// Writable reports whether the member can be populated on the destination side.
func (f Field) Writable() bool {
	return f.Kind == FieldStruct || f.Kind == FieldSetter
}

// HasDefault reports whether a fallback expression is available.
func (f Field) HasDefault() bool {
	return f.Default != ""
}

// Variant describes one sum member.
type Variant struct {
	Name      string
	Type      types.Type // concrete value type for interface sums, nil for enum constants
	Ptr       bool       // variant satisfies the interface through its pointer type
	Singleton bool       // enum constant or empty struct
	ConstName string     // constant name for enum sums
	PkgPath   string     // defining package, for rendering
}

// Shape is the structural description of one type. Immutable once
// produced by the Inspector.
type Shape struct {
	ID     TypeID
	Kind   Kind
	GoType types.Type

	// Product
	Fields []Field
	Bean   bool // destination populated through setters

	// Sum
	Variants []Variant
	Enum     bool // constant-backed sum, dispatched by value

	// Wrapper
	Wrapper WrapperKind
	Elem    types.Type // carried value
	Key     types.Type // map key
	Null    NullFamily // construction info for WrapperNull

	// Scalar classification; also set for enum sums (underlying) and
	// string/number-backed named scalars.
	Basic BasicKind
}

// Member returns the product member with the given name.
func (s *Shape) Member(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// SourceMembers returns the readable, non-ignored product members.
func (s *Shape) SourceMembers() []Field {
	var out []Field

	for _, f := range s.Fields {
		if f.Readable() && !f.Ignored {
			out = append(out, f)
		}
	}

	return out
}

// DestMembers returns the writable, non-ignored product members.
func (s *Shape) DestMembers() []Field {
	var out []Field

	for _, f := range s.Fields {
		if f.Writable() && !f.Ignored {
			out = append(out, f)
		}
	}

	return out
}

// SourceMember returns the readable member with the given name.
func (s *Shape) SourceMember(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name && f.Readable() && !f.Ignored {
			return f, true
		}
	}

	return Field{}, false
}

// VariantNamed returns the sum variant with the given name.
func (s *Shape) VariantNamed(name string) (Variant, bool) {
	for _, v := range s.Variants {
		if v.Name == name {
			return v, true
		}
	}

	return Variant{}, false
}

// IsNamed returns true if this shape describes a named type.
func (s *Shape) IsNamed() bool {
	return s.ID.Name != ""
}
