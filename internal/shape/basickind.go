package shape

import (
	"go/types"
)

//go:generate go tool stringer -type=BasicKind -output=basickind_string.go

// BasicKind classifies the scalar families the engine reasons about.
type BasicKind int

const (
	_ BasicKind = iota // zero reserved as the invalid value

	BasicInt
	BasicInt8
	BasicInt16
	BasicInt32
	BasicInt64
	BasicUint
	BasicUint8
	BasicUint16
	BasicUint32
	BasicUint64
	BasicFloat32
	BasicFloat64
	BasicBool
	BasicString
	BasicTime
	BasicDuration
)

// IsNumber reports whether the kind is any numeric family.
func (k BasicKind) IsNumber() bool {
	switch k {
	default:
		return false
	case BasicInt, BasicInt8, BasicInt16, BasicInt32, BasicInt64,
		BasicUint, BasicUint8, BasicUint16, BasicUint32, BasicUint64,
		BasicFloat32, BasicFloat64:
		return true
	}
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k BasicKind) IsInteger() bool {
	switch k {
	default:
		return false
	case BasicInt, BasicInt8, BasicInt16, BasicInt32, BasicInt64,
		BasicUint, BasicUint8, BasicUint16, BasicUint32, BasicUint64:
		return true
	}
}

// IsFloat reports whether the kind is a floating-point family.
func (k BasicKind) IsFloat() bool {
	return k == BasicFloat32 || k == BasicFloat64
}

// IsString reports whether the kind is the string family.
func (k BasicKind) IsString() bool {
	return k == BasicString
}

// classifyBasic maps a go/types basic type onto a BasicKind.
func classifyBasic(b *types.Basic) BasicKind {
	switch b.Kind() {
	case types.Int:
		return BasicInt
	case types.Int8:
		return BasicInt8
	case types.Int16:
		return BasicInt16
	case types.Int32:
		return BasicInt32
	case types.Int64:
		return BasicInt64
	case types.Uint:
		return BasicUint
	case types.Uint8:
		return BasicUint8
	case types.Uint16:
		return BasicUint16
	case types.Uint32:
		return BasicUint32
	case types.Uint64:
		return BasicUint64
	case types.Float32:
		return BasicFloat32
	case types.Float64:
		return BasicFloat64
	case types.Bool:
		return BasicBool
	case types.String:
		return BasicString
	default:
		return 0
	}
}

// KindOfBasic classifies a type's scalar family, resolving named types
// down to their underlying basic type. time.Time and time.Duration get
// their own kinds. Returns the zero BasicKind for non-scalar types.
func KindOfBasic(t types.Type) BasicKind {
	t = types.Unalias(t)

	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		if obj.Pkg() != nil && obj.Pkg().Path() == "time" {
			switch obj.Name() {
			case "Time":
				return BasicTime
			case "Duration":
				return BasicDuration
			}
		}
	}

	if b, ok := t.Underlying().(*types.Basic); ok {
		return classifyBasic(b)
	}

	return 0
}
