package product

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *Image {
	return &Image{Filename: "rice.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n")}
}

func TestValidate_Create(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  []Field
	}{
		{
			name:  "complete draft",
			draft: Draft{Name: "Basmati Rice", Price: "120", Discount: "10", Image: testImage()},
		},
		{
			name:  "description is optional",
			draft: Draft{Name: "Basmati Rice", Price: "120", Category: "Rice", Image: testImage()},
		},
		{
			name:  "missing image",
			draft: Draft{Name: "Basmati Rice", Price: "120", Discount: "10"},
			want:  []Field{FieldImage},
		},
		{
			name:  "empty image payload counts as missing",
			draft: Draft{Name: "Basmati Rice", Price: "120", Image: &Image{Filename: "x.png"}},
			want:  []Field{FieldImage},
		},
		{
			name:  "blank draft",
			draft: NewDraft(),
			want:  []Field{FieldName, FieldPrice, FieldImage},
		},
		{
			name:  "whitespace name counts as missing",
			draft: Draft{Name: "   ", Price: "120", Image: testImage()},
			want:  []Field{FieldName},
		},
		{
			name:  "unparseable price counts as missing",
			draft: Draft{Name: "Rice", Price: "cheap", Image: testImage()},
			want:  []Field{FieldPrice},
		},
		{
			name:  "zero price counts as missing",
			draft: Draft{Name: "Rice", Price: "0", Image: testImage()},
			want:  []Field{FieldPrice},
		},
		{
			name:  "negative price counts as missing",
			draft: Draft{Name: "Rice", Price: "-5", Image: testImage()},
			want:  []Field{FieldPrice},
		},
		{
			name:  "discount above 100",
			draft: Draft{Name: "Rice", Price: "10", Discount: "150", Image: testImage()},
			want:  []Field{FieldDiscount},
		},
		{
			name:  "fractional discount",
			draft: Draft{Name: "Rice", Price: "10", Discount: "2.5", Image: testImage()},
			want:  []Field{FieldDiscount},
		},
		{
			name:  "unknown category",
			draft: Draft{Name: "Rice", Price: "10", Category: "Fertilizer", Image: testImage()},
			want:  []Field{FieldCategory},
		},
		{
			name:  "lower-case category accepted",
			draft: Draft{Name: "Rice", Price: "10", Category: "rice", Image: testImage()},
		},
		{
			name:  "malformed optional weight",
			draft: Draft{Name: "Rice", Price: "10", Weight: "heavy", Image: testImage()},
			want:  []Field{FieldWeight},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(OpCreate, tt.draft)
			assert.Equal(t, tt.want, res.Fields)
			assert.Equal(t, len(tt.want) == 0, res.Valid())
		})
	}
}

func TestValidate_Update(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  []Field
	}{
		{
			name:  "complete draft without image",
			draft: Draft{Name: "Rice 5kg", Description: "desc", Price: "250", Weight: "5"},
		},
		{
			name:  "weight is required",
			draft: Draft{Name: "Rice 5kg", Description: "desc", Price: "250"},
			want:  []Field{FieldWeight},
		},
		{
			name:  "description is required",
			draft: Draft{Name: "Rice 5kg", Price: "250", Weight: "5"},
			want:  []Field{FieldDescription},
		},
		{
			name:  "all required fields missing",
			draft: Draft{Discount: "0"},
			want:  []Field{FieldName, FieldDescription, FieldPrice, FieldWeight},
		},
		{
			name:  "zero weight counts as missing",
			draft: Draft{Name: "Rice", Description: "desc", Price: "250", Weight: "0"},
			want:  []Field{FieldWeight},
		},
		{
			name:  "decimal weight accepted",
			draft: Draft{Name: "Rice", Description: "desc", Price: "99.50", Weight: "0.5"},
		},
		{
			name:  "stored category outside the fixed set accepted",
			draft: Draft{Name: "Urea", Description: "desc", Category: "Fertilizer", Price: "300", Weight: "50"},
		},
		{
			name:  "stored discount above 100 accepted",
			draft: Draft{Name: "Rice", Description: "desc", Price: "250", Discount: "150", Weight: "5"},
		},
		{
			name:  "non-integer discount rejected",
			draft: Draft{Name: "Rice", Description: "desc", Price: "250", Discount: "ten", Weight: "5"},
			want:  []Field{FieldDiscount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(OpUpdate, tt.draft)
			assert.Equal(t, tt.want, res.Fields)
		})
	}
}

func TestValidationResult_Err(t *testing.T) {
	res := Validate(OpCreate, Draft{Name: "Basmati Rice", Price: "120", Discount: "10"})

	err := res.Err()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, OpCreate, verr.Op)
	assert.Equal(t, []Field{FieldImage}, verr.Fields)
	assert.Contains(t, err.Error(), "image")

	assert.NoError(t, Validate(OpUpdate, Draft{Name: "a", Description: "b", Price: "1", Weight: "1"}).Err())
}
