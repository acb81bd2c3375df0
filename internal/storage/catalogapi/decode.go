package catalogapi

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
)

func decodeProducts(d *jx.Decoder) ([]product.Product, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	var out []product.Product
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// decodeProduct reads one product record. The service keys the ID as
// "_id"; "id" is accepted too. Numbers may arrive as JSON numbers or as
// numeric strings, and missing or null numbers read as zero.
func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "_id", "id":
			p.ID, err = decodeString(d)
		case "name":
			p.Name, err = decodeString(d)
		case "description":
			p.Description, err = decodeString(d)
		case "category":
			var s string
			s, err = decodeString(d)
			p.Category = product.Category(s)
		case "price":
			p.Price, err = decodeDecimal(d)
		case "weight":
			p.Weight, err = decodeDecimal(d)
		case "discount":
			var v decimal.Decimal
			v, err = decodeDecimal(d)
			p.Discount = int(v.IntPart())
		case "image":
			p.Image, err = decodeString(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %s", key)
		}
		return nil
	})
	return p, err
}

func decodeString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		return string(n), err
	case jx.Null:
		return "", d.Null()
	default:
		return "", errors.Errorf("unexpected %v, want string", d.Next())
	}
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(string(n))
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		if s = strings.TrimSpace(s); s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		return decimal.Zero, errors.Errorf("unexpected %v, want number", d.Next())
	}
}

func encodeRemove(id string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(id)
	e.ObjEnd()
	return e.Bytes()
}
