// Package export writes catalog snapshots as gzip-compressed JSON.
//
// Records use the same keys the catalog service answers with, so a
// snapshot can be read back with the service decoder. Decimal values are
// written as strings to keep their exact text.
package export

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
)

// Snapshot is a point-in-time copy of the product list.
type Snapshot struct {
	ExportedAt time.Time
	Products   []product.Product
}

// Encode returns the JSON form of s.
func (s Snapshot) Encode() []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("exported_at")
	e.Str(s.ExportedAt.UTC().Format(time.RFC3339))
	e.FieldStart("count")
	e.Int(len(s.Products))
	e.FieldStart("data")
	e.ArrStart()
	for _, p := range s.Products {
		encodeProduct(&e, p)
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("_id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(string(p.Category))
	e.FieldStart("price")
	e.Str(p.Price.String())
	e.FieldStart("discount")
	e.Int(p.Discount)
	e.FieldStart("weight")
	e.Str(p.Weight.String())
	e.FieldStart("image")
	e.Str(p.Image)
	e.ObjEnd()
}

// Write compresses the encoded snapshot to w.
func Write(w io.Writer, s Snapshot) error {
	gz := pgzip.NewWriter(w)
	if _, err := gz.Write(s.Encode()); err != nil {
		_ = gz.Close()
		return errors.Wrap(err, "write snapshot")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}
	return nil
}
