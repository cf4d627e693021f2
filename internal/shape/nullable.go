package shape

import (
	"go/types"
)

// NullPkgPath is the nullable wrapper package the inspector recognizes
// alongside database/sql.
const NullPkgPath = "github.com/aarondl/null/v8"

// NullFamily describes how a recognized nullable wrapper is read and
// rebuilt. Validity is always carried by a bool field named Valid.
type NullFamily struct {
	PkgPath    string // defining package
	TypeName   string
	ValueField string // struct field carrying the value
	FromFunc   string // wrap helper; empty means composite-literal construction
}

// IsZero reports whether the family is unset.
func (n NullFamily) IsZero() bool {
	return n.TypeName == ""
}

// nullTypes maps (package, type name) onto the carried value field and
// the wrap helper. The null/v8 family exposes XFrom constructors; the
// database/sql family is built with composite literals.
var nullTypes = map[TypeID]NullFamily{
	{NullPkgPath, "String"}:  {NullPkgPath, "String", "String", "StringFrom"},
	{NullPkgPath, "Bool"}:    {NullPkgPath, "Bool", "Bool", "BoolFrom"},
	{NullPkgPath, "Byte"}:    {NullPkgPath, "Byte", "Byte", "ByteFrom"},
	{NullPkgPath, "Int"}:     {NullPkgPath, "Int", "Int", "IntFrom"},
	{NullPkgPath, "Int8"}:    {NullPkgPath, "Int8", "Int8", "Int8From"},
	{NullPkgPath, "Int16"}:   {NullPkgPath, "Int16", "Int16", "Int16From"},
	{NullPkgPath, "Int32"}:   {NullPkgPath, "Int32", "Int32", "Int32From"},
	{NullPkgPath, "Int64"}:   {NullPkgPath, "Int64", "Int64", "Int64From"},
	{NullPkgPath, "Uint"}:    {NullPkgPath, "Uint", "Uint", "UintFrom"},
	{NullPkgPath, "Uint8"}:   {NullPkgPath, "Uint8", "Uint8", "Uint8From"},
	{NullPkgPath, "Uint16"}:  {NullPkgPath, "Uint16", "Uint16", "Uint16From"},
	{NullPkgPath, "Uint32"}:  {NullPkgPath, "Uint32", "Uint32", "Uint32From"},
	{NullPkgPath, "Uint64"}:  {NullPkgPath, "Uint64", "Uint64", "Uint64From"},
	{NullPkgPath, "Float32"}: {NullPkgPath, "Float32", "Float32", "Float32From"},
	{NullPkgPath, "Float64"}: {NullPkgPath, "Float64", "Float64", "Float64From"},
	{NullPkgPath, "Time"}:    {NullPkgPath, "Time", "Time", "TimeFrom"},

	{"database/sql", "NullString"}:  {"database/sql", "NullString", "String", ""},
	{"database/sql", "NullBool"}:    {"database/sql", "NullBool", "Bool", ""},
	{"database/sql", "NullByte"}:    {"database/sql", "NullByte", "Byte", ""},
	{"database/sql", "NullInt16"}:   {"database/sql", "NullInt16", "Int16", ""},
	{"database/sql", "NullInt32"}:   {"database/sql", "NullInt32", "Int32", ""},
	{"database/sql", "NullInt64"}:   {"database/sql", "NullInt64", "Int64", ""},
	{"database/sql", "NullFloat64"}: {"database/sql", "NullFloat64", "Float64", ""},
	{"database/sql", "NullTime"}:    {"database/sql", "NullTime", "Time", ""},
}

// lookupNull returns the nullable family info for a named type.
func lookupNull(named *types.Named) (NullFamily, bool) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return NullFamily{}, false
	}

	fam, ok := nullTypes[TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}]

	return fam, ok
}

// nullValueType resolves the carried value's type, e.g. string for
// null.String and time.Time for sql.NullTime.
func nullValueType(named *types.Named, fam NullFamily) types.Type {
	obj, _, _ := types.LookupFieldOrMethod(named, true, named.Obj().Pkg(), fam.ValueField)
	if v, ok := obj.(*types.Var); ok {
		return v.Type()
	}

	return types.Typ[types.Invalid]
}
