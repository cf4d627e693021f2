package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	tr, reg, err := NewBuilder("store.Order", "api.Order").
		Partial().
		Getters().
		Const("Tag", `"imported"`).
		Rename("ID", "OrderID").
		Compute("Total", "sumTotal").
		Handler("CardPayment", "cardToAPI").
		Default("Note", `"n/a"`).
		Ignore("Internal").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "store.Order", tr.Source)
	assert.Equal(t, "api.Order", tr.Target)
	assert.Equal(t, ModePartial, tr.Mode)
	assert.True(t, tr.Getters)
	assert.Len(t, tr.Overrides, 5)

	o, ok := reg.ValueFor(MustParsePath("Tag"))
	require.True(t, ok)
	assert.Equal(t, OverrideConst, o.Kind)

	r, ok := reg.RenameFor(MustParsePath("ID"))
	require.True(t, ok)
	assert.Equal(t, "OrderID", r.From)

	h, ok := reg.HandlerFor("CardPayment")
	require.True(t, ok)
	assert.Equal(t, "cardToAPI", h.Func)

	expr, ok := reg.DefaultFor(MustParsePath("Note"))
	require.True(t, ok)
	assert.Equal(t, `"n/a"`, expr)

	assert.True(t, reg.Ignored("Internal"))
}

func TestBuilder_CallOrderIsRegistrationOrder(t *testing.T) {
	_, reg, err := NewBuilder("a.A", "b.B").
		Const("Tag", `"first"`).
		Const("Tag", `"second"`).
		Build()
	require.NoError(t, err)

	o, ok := reg.ValueFor(MustParsePath("Tag"))
	require.True(t, ok)
	assert.Equal(t, `"second"`, o.Expr)
	assert.Equal(t, 2, reg.Len())
}

func TestBuilder_MirrorsYAML(t *testing.T) {
	tr, _, err := NewBuilder("a.A", "b.B").
		Const("Tag", `"x"`).
		HandlerPartial("Card", "cardFn").
		ConstructorPartial("parseB").
		Build()
	require.NoError(t, err)

	// The built transformer round-trips through the YAML schema
	// unchanged.
	f := &File{
		Transformers: []Transformer{tr},
		Functions:    []FunctionDecl{{Name: "cardFn", Package: "p"}, {Name: "parseB", Package: "p"}},
	}

	data, merr := Marshal(f)
	require.NoError(t, merr)

	back, perr := Parse(data)
	require.NoError(t, perr)
	require.Len(t, back.Transformers, 1)

	got := back.Transformers[0]
	assert.Equal(t, "parseB", got.ConstructorPartial)
	require.Len(t, got.Overrides, 2)
	assert.Equal(t, "cardFn", got.Overrides[1].HandlerPartial)
}

func TestBuilder_Errors(t *testing.T) {
	_, _, err := NewBuilder("a.A", "b.B").
		Const("Bad..Path", `"x"`).
		Constructor("newB").
		ConstructorPartial("parseB").
		Build()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "Bad..Path")
	assert.Contains(t, err.Error(), "already set")
}
