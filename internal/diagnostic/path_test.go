package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_String(t *testing.T) {
	assert.Equal(t, "", Root().String())
	assert.Equal(t, ".Tag", Root().Field("Tag").String())
	assert.Equal(t, ".Address.Street", Root().Field("Address").Field("Street").String())
	assert.Equal(t, ".Items(3)", Root().Field("Items").Index(3).String())
	assert.Equal(t, ".Items(3).ProductID", Root().Field("Items").Index(3).Field("ProductID").String())
	assert.Equal(t, ".CardPayment", Root().Variant("CardPayment").String())
}

func TestPath_Immutable(t *testing.T) {
	base := Root().Field("Items")
	a := base.Field("ID")
	b := base.Index(0)

	assert.Equal(t, ".Items.ID", a.String())
	assert.Equal(t, ".Items(0)", b.String())
	assert.Equal(t, ".Items", base.String())
}

func TestPath_IsRoot(t *testing.T) {
	assert.True(t, Root().IsRoot())
	assert.False(t, Root().Field("X").IsRoot())
}
