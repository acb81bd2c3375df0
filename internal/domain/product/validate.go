package product

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Op selects the rule set a draft is checked against.
type Op int

const (
	// OpCreate requires name, price and an image.
	OpCreate Op = iota
	// OpUpdate requires name, description, price and weight.
	OpUpdate
)

func (o Op) String() string {
	if o == OpUpdate {
		return "update"
	}
	return "create"
}

// Field names a draft field. Values double as multipart part names.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldPrice       Field = "price"
	FieldDiscount    Field = "discount"
	FieldWeight      Field = "weight"
	FieldImage       Field = "image"
)

// fieldOrder is the order fields are reported in.
var fieldOrder = []Field{
	FieldName, FieldDescription, FieldCategory, FieldPrice,
	FieldDiscount, FieldWeight, FieldImage,
}

// ValidationError is returned when a draft is rejected before any request is made.
type ValidationError struct {
	Op     Op
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "missing or invalid fields for " + e.Op.String() + ": " + strings.Join(names, ", ")
}

// ValidationResult lists the fields that are missing or unusable.
// An empty result is valid.
type ValidationResult struct {
	Op     Op
	Fields []Field
}

// Valid reports whether no field was rejected.
func (r ValidationResult) Valid() bool {
	return len(r.Fields) == 0
}

// Err returns a *ValidationError for an invalid result and nil otherwise.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Op: r.Op, Fields: r.Fields}
}

type createInput struct {
	Name     string `field:"name" validate:"required"`
	Category string `field:"category" validate:"omitempty,category"`
	Price    string `field:"price" validate:"required,positive_decimal"`
	Discount string `field:"discount" validate:"omitempty,percent"`
	Weight   string `field:"weight" validate:"omitempty,positive_decimal"`
	Image    bool   `field:"image" validate:"required"`
}

// updateInput leaves category and the discount range unchecked: a record
// the service already stores must stay saveable as it was loaded.
type updateInput struct {
	Name        string `field:"name" validate:"required"`
	Description string `field:"description" validate:"required"`
	Price       string `field:"price" validate:"required,positive_decimal"`
	Discount    string `field:"discount" validate:"omitempty,integer"`
	Weight      string `field:"weight" validate:"required,positive_decimal"`
}

var rules = newRules()

func newRules() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	for tag, fn := range map[string]validator.Func{
		"positive_decimal": isPositiveDecimal,
		"percent":          isPercent,
		"integer":          isInteger,
		"category":         isCategory,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

func isPositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func isPercent(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= 0 && n <= 100
}

func isInteger(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(fl.Field().String())
	return err == nil
}

func isCategory(fl validator.FieldLevel) bool {
	_, ok := ParseCategory(fl.Field().String())
	return ok
}

// Validate checks d against the required-field set of op. Numeric fields
// that do not parse as positive numbers count as missing; malformed optional
// fields are reported alongside them. The fixed category set and the
// discount range apply to new products only.
func Validate(op Op, d Draft) ValidationResult {
	var input any
	switch op {
	case OpUpdate:
		input = updateInput{
			Name:        strings.TrimSpace(d.Name),
			Description: strings.TrimSpace(d.Description),
			Price:       strings.TrimSpace(d.Price),
			Discount:    strings.TrimSpace(d.Discount),
			Weight:      strings.TrimSpace(d.Weight),
		}
	default:
		input = createInput{
			Name:     strings.TrimSpace(d.Name),
			Category: strings.TrimSpace(d.Category),
			Price:    strings.TrimSpace(d.Price),
			Discount: strings.TrimSpace(d.Discount),
			Weight:   strings.TrimSpace(d.Weight),
			Image:    d.Image != nil && len(d.Image.Data) > 0,
		}
	}

	res := ValidationResult{Op: op}
	var fieldErrs validator.ValidationErrors
	if !errors.As(rules.Struct(input), &fieldErrs) {
		return res
	}

	rejected := make(map[Field]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		rejected[Field(fe.Field())] = true
	}
	for _, f := range fieldOrder {
		if rejected[f] {
			res.Fields = append(res.Fields, f)
		}
	}
	return res
}
