package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []PathSegment
	}{
		{
			name:     "simple field",
			path:     "Name",
			expected: []PathSegment{{Name: "Name"}},
		},
		{
			name:     "nested field",
			path:     "Address.Street",
			expected: []PathSegment{{Name: "Address"}, {Name: "Street"}},
		},
		{
			name:     "element scope",
			path:     "Items[]",
			expected: []PathSegment{{Name: "Items", Elem: true}},
		},
		{
			name:     "field inside elements",
			path:     "Items[].ProductID",
			expected: []PathSegment{{Name: "Items", Elem: true}, {Name: "ProductID"}},
		},
		{
			name: "deep mixed path",
			path: "Orders[].Lines[].SKU",
			expected: []PathSegment{
				{Name: "Orders", Elem: true},
				{Name: "Lines", Elem: true},
				{Name: "SKU"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Segments)
			assert.Equal(t, tt.path, p.String())
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	invalid := []string{
		"",
		".",
		"Name.",
		".Name",
		"Name..Street",
		"[]",
		"[].Field",
		"1Name",
		"Na me",
		"Name[",
	}

	for _, path := range invalid {
		t.Run(path, func(t *testing.T) {
			_, err := ParsePath(path)
			assert.Error(t, err)
		})
	}
}

func TestPath_Child(t *testing.T) {
	root := Path{}
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", root.String())

	items := root.Child("Items")
	product := items.IntoElem().Child("ProductID")

	assert.Equal(t, "Items", items.String())
	assert.Equal(t, "Items[].ProductID", product.String())

	// Extending never mutates the receiver.
	assert.Equal(t, "Items", items.String())
	assert.True(t, root.IsRoot())
}

func TestPath_Equal(t *testing.T) {
	a := MustParsePath("Items[].ProductID")
	b := Path{}.Child("Items").IntoElem().Child("ProductID")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(MustParsePath("Items.ProductID")))
	assert.False(t, a.Equal(MustParsePath("Items[]")))
}

func TestPath_First(t *testing.T) {
	seg, ok := MustParsePath("Address.Street").First()
	require.True(t, ok)
	assert.Equal(t, "Address", seg.Name)

	_, ok = Path{}.First()
	assert.False(t, ok)
}

func TestPath_HasPrefix(t *testing.T) {
	full := MustParsePath("Items[].ProductID")

	assert.True(t, full.HasPrefix(Path{}))
	assert.True(t, full.HasPrefix(MustParsePath("Items[]")))
	assert.True(t, full.HasPrefix(full))

	// An elem-scoped segment is not a prefix of a plain one.
	assert.False(t, full.HasPrefix(MustParsePath("Items")))
	assert.False(t, full.HasPrefix(MustParsePath("Items[].ProductID.X")))
	assert.False(t, MustParsePath("Other").HasPrefix(MustParsePath("Items")))
}
