// Package formdata encodes product drafts as multipart/form-data request
// bodies for the catalog service.
//
// The image part is written only when the draft carries a pending upload.
// Its absence tells the service to keep the stored image; an empty part
// would not mean the same thing.
package formdata

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
)

// ImageField is the part name the service reads the upload from.
const ImageField = "image"

// Body is an encoded multipart request body.
type Body struct {
	ContentType string
	data        []byte
}

// Reader returns a fresh reader over the encoded body.
func (b *Body) Reader() io.Reader {
	return bytes.NewReader(b.data)
}

// Len returns the encoded size in bytes.
func (b *Body) Len() int {
	return len(b.data)
}

// Encode serializes d. A non-empty id produces an update body that carries
// the id and always includes weight; an empty id produces a creation body
// where weight is sent only when entered.
func Encode(id string, d product.Draft) (*Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := make([][2]string, 0, 7)
	if id != "" {
		fields = append(fields, [2]string{"id", id})
	}
	fields = append(fields,
		[2]string{string(product.FieldName), strings.TrimSpace(d.Name)},
		[2]string{string(product.FieldDescription), strings.TrimSpace(d.Description)},
		[2]string{string(product.FieldCategory), category(d.Category)},
		[2]string{string(product.FieldPrice), strings.TrimSpace(d.Price)},
		[2]string{string(product.FieldDiscount), strconv.Itoa(d.DiscountPercent())},
	)
	if weight := strings.TrimSpace(d.Weight); id != "" || weight != "" {
		fields = append(fields, [2]string{string(product.FieldWeight), weight})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, errors.Wrapf(err, "write field %s", f[0])
		}
	}

	if d.Image != nil {
		if err := writeImage(w, d.Image); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart writer")
	}
	return &Body{ContentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

func writeImage(w *multipart.Writer, img *product.Image) error {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := img.Filename
	if filename == "" {
		filename = ImageField
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+ImageField+`"; filename="`+quoteEscaper.Replace(filename)+`"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return errors.Wrap(err, "create image part")
	}
	if _, err := part.Write(img.Data); err != nil {
		return errors.Wrap(err, "write image part")
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// category normalizes known tags to their canonical spelling and passes
// anything else through untouched.
func category(s string) string {
	if c, ok := product.ParseCategory(s); ok {
		return string(c)
	}
	return strings.TrimSpace(s)
}
