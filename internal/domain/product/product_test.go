package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestDraftFrom(t *testing.T) {
	t.Run("copies editable fields", func(t *testing.T) {
		p := Product{
			ID:          "p1",
			Name:        "Basmati Rice",
			Description: "Long grain",
			Category:    CategoryRice,
			Price:       decimal.RequireFromString("120.50"),
			Discount:    10,
			Weight:      decimal.NewFromInt(5),
			Image:       "basmati.png",
		}

		d := DraftFrom(p)
		assert.Equal(t, Draft{
			Name:        "Basmati Rice",
			Description: "Long grain",
			Category:    "Rice",
			Price:       "120.5",
			Discount:    "10",
			Weight:      "5",
		}, d)
		assert.Nil(t, d.Image, "pending image must start empty")
	})

	t.Run("absent fields default to empty or zero", func(t *testing.T) {
		d := DraftFrom(Product{ID: "p2", Name: "Poha"})
		assert.Equal(t, "", d.Price)
		assert.Equal(t, "", d.Weight)
		assert.Equal(t, "0", d.Discount)
		assert.Equal(t, "", d.Description)
	})
}

func TestDraft_Set(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, "Rice", d.Category)

	require.NoError(t, d.Set(FieldName, "Toor Dal"))
	require.NoError(t, d.Set(FieldCategory, "Pulses"))
	require.NoError(t, d.Set(FieldPrice, "140"))
	require.NoError(t, d.Set(FieldDiscount, "5"))
	require.NoError(t, d.Set(FieldWeight, "1"))
	require.NoError(t, d.Set(FieldDescription, "Split pigeon peas"))

	assert.Equal(t, "Toor Dal", d.Name)
	assert.Equal(t, "Pulses", d.Category)
	assert.Equal(t, 5, d.DiscountPercent())

	assert.Error(t, d.Set(FieldImage, "x.png"))
}

func TestDraft_DiscountPercent(t *testing.T) {
	assert.Equal(t, 0, Draft{}.DiscountPercent())
	assert.Equal(t, 0, Draft{Discount: "ten"}.DiscountPercent())
	assert.Equal(t, 25, Draft{Discount: " 25 "}.DiscountPercent())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("poha")
	assert.True(t, ok)
	assert.Equal(t, CategoryPoha, c)

	_, ok = ParseCategory("Fertilizer")
	assert.False(t, ok)
}

func TestNewImage(t *testing.T) {
	img, err := NewImage("rice.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "rice.png", img.Filename)

	img, err = NewImage("", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image.png", img.Filename)

	_, err = NewImage("notes.txt", []byte("just some text"))
	require.ErrorIs(t, err, ErrNotImage)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "http://localhost:4000/images/rice.png", ImageURL("http://localhost:4000/images/", "rice.png"))
	assert.Equal(t, "", ImageURL("http://localhost:4000/images/", ""))
}
