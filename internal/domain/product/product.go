package product

import (
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotImage is returned when a selected upload is not recognised as an image.
var ErrNotImage = errors.New("selected file is not an image")

// Category is the catalog tag a product is filed under.
type Category string

// Fixed category set offered by the console.
const (
	CategoryRice   Category = "Rice"
	CategoryPulses Category = "Pulses"
	CategoryPoha   Category = "Poha"
	CategorySeed   Category = "Seed"
)

// DefaultCategory is the tag a fresh creation draft starts with.
const DefaultCategory = CategoryRice

// Categories lists the fixed category set in display order.
func Categories() []Category {
	return []Category{CategoryRice, CategoryPulses, CategoryPoha, CategorySeed}
}

// ParseCategory matches s against the fixed set, ignoring case.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Product is a catalog entry as last reported by the catalog service.
// ID is assigned by the service and never changed locally.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Price       decimal.Decimal
	Discount    int
	Weight      decimal.Decimal
	Image       string
}

// ImageURL resolves an image reference for display.
func ImageURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	return base + ref
}

// Image is a binary image payload waiting to be uploaded.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewImage sniffs data and returns an upload payload. Payloads that are not
// images are rejected with ErrNotImage.
func NewImage(filename string, data []byte) (*Image, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.Wrapf(ErrNotImage, "%s (%s)", filename, mt.String())
	}
	if filename == "" {
		filename = "image" + mt.Extension()
	}
	return &Image{
		Filename:    filename,
		ContentType: mt.String(),
		Data:        data,
	}, nil
}

// Draft is a locally staged, unconfirmed copy of the editable product fields.
// Values are kept as entered; Validate decides whether they are usable.
type Draft struct {
	Name        string
	Description string
	Category    string
	Price       string
	Discount    string
	Weight      string

	// Image is a pending upload. It is unrelated to the stored image
	// reference: nil means "keep whatever the service has".
	Image *Image
}

// NewDraft returns a blank creation draft.
func NewDraft() Draft {
	return Draft{Category: string(DefaultCategory)}
}

// DraftFrom seeds an edit draft from p. Zero price and weight become empty
// text so the operator sees a blank field rather than "0".
func DraftFrom(p Product) Draft {
	return Draft{
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       decimalText(p.Price),
		Discount:    strconv.Itoa(p.Discount),
		Weight:      decimalText(p.Weight),
	}
}

// Set assigns the text value of field. Image cannot be set this way.
func (d *Draft) Set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldCategory:
		d.Category = value
	case FieldPrice:
		d.Price = value
	case FieldDiscount:
		d.Discount = value
	case FieldWeight:
		d.Weight = value
	default:
		return errors.Errorf("field %q is not a text field", field)
	}
	return nil
}

// DiscountPercent returns the entered discount, or 0 when it is empty or
// unparseable.
func (d Draft) DiscountPercent() int {
	n, err := strconv.Atoi(strings.TrimSpace(d.Discount))
	if err != nil {
		return 0
	}
	return n
}

func decimalText(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
