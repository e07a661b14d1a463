package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoValidate(t *testing.T) {
	valid := Photo{
		GalleryID:  uuid.New(),
		Filename:   "IMG_0001.jpg",
		StorageKey: "galleries/g/p/original.jpg",
		FileSize:   1024,
		Width:      800,
		Height:     600,
	}
	require.NoError(t, valid.Validate())

	broken := valid
	broken.GalleryID = uuid.Nil
	broken.Width = 0

	err := broken.Validate()
	require.Error(t, err)
	assert.True(t, IsPhotoValidationError(err))
	assert.Contains(t, err.Error(), "gallery ID is required")
	assert.Contains(t, err.Error(), "width and height")
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Price: decimal.RequireFromString("25.00"), Quantity: 2},
		{Price: decimal.RequireFromString("9.99"), Quantity: 1},
	}}

	assert.True(t, decimal.RequireFromString("59.99").Equal(cart.Subtotal()))
	assert.Equal(t, 3, cart.ItemCount())
	assert.True(t, Cart{}.Subtotal().IsZero())
}

func TestGalleryKeyMatches(t *testing.T) {
	g := Gallery{AccessKey: "abcDEF123"}

	assert.True(t, g.KeyMatches("abcDEF123"))
	assert.False(t, g.KeyMatches("abcdef123"))
	assert.False(t, g.KeyMatches(""))

	pub := g.Public()
	assert.Empty(t, pub.AccessKey)
	assert.Equal(t, "abcDEF123", g.AccessKey)
}

func TestPhoto_ObjectKeys(t *testing.T) {
	gid, pid := uuid.New(), uuid.New()
	p := Photo{StorageKey: PhotoPrefix(gid, pid) + "/original.png"}

	assert.Equal(t, []string{
		"galleries/" + gid.String() + "/" + pid.String() + "/original.png",
		"galleries/" + gid.String() + "/" + pid.String() + "/thumb.jpg",
		"galleries/" + gid.String() + "/" + pid.String() + "/web.jpg",
	}, p.ObjectKeys())

	assert.Nil(t, (&Photo{}).ObjectKeys())
}
