// Package console is the presentation-neutral controller behind the
// catalog admin screens. Front-ends call its intents and render Rows;
// every outcome is reported to the operator through a Notifier.
package console

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/catalog"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

// ErrUnknownProduct is returned when an intent names an ID that is not in
// the current list.
var ErrUnknownProduct = errors.New("product is not in the list")

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification is a transient message for the operator.
type Notification struct {
	Level   Level
	Message string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Options controls how rows are rendered.
type Options struct {
	// ImageBaseURL is prepended to image references.
	ImageBaseURL string
	// Currency is the symbol shown before prices.
	Currency string
}

// Row is one rendered product.
type Row struct {
	ID       string
	Name     string
	Category string
	Price    string
	Discount int
	Weight   string
	ImageURL string
}

// View binds the store and the creation form to a Notifier.
type View struct {
	store  *catalog.Store
	form   *catalog.CreationForm
	notify Notifier
	opts   Options
}

func NewView(store *catalog.Store, form *catalog.CreationForm, notifier Notifier, opts Options) *View {
	return &View{store: store, form: form, notify: notifier, opts: opts}
}

// Open loads the list. A failed load is reported and the list stays empty.
func (v *View) Open(ctx context.Context) error {
	if err := v.store.Load(ctx); err != nil {
		v.fail(err)
		return err
	}
	return nil
}

func (v *View) Mode() catalog.Mode {
	return v.store.Mode()
}

// Rows renders the canonical list in service order.
func (v *View) Rows() []Row {
	products := v.store.Products()
	rows := make([]Row, len(products))
	for i, p := range products {
		rows[i] = Row{
			ID:       p.ID,
			Name:     p.Name,
			Category: string(p.Category),
			Price:    v.opts.Currency + p.Price.String(),
			Discount: p.Discount,
			Weight:   weightText(p),
			ImageURL: product.ImageURL(v.opts.ImageBaseURL, p.Image),
		}
	}
	return rows
}

func weightText(p product.Product) string {
	if p.Weight.IsZero() {
		return ""
	}
	return p.Weight.String() + " kg"
}

// Edit selects id for editing, dropping any other unsaved draft.
func (v *View) Edit(id string) error {
	p, ok := v.store.Lookup(id)
	if !ok {
		err := errors.Wrap(ErrUnknownProduct, id)
		v.fail(err)
		return err
	}
	v.store.StartEdit(p)
	return nil
}

// Change sets a text field of the edit draft.
func (v *View) Change(field product.Field, value string) error {
	var setErr error
	if err := v.store.EditDraft(func(d *product.Draft) {
		setErr = d.Set(field, value)
	}); err != nil {
		return err
	}
	return setErr
}

// ChooseImage stages a replacement image for the product under edit.
func (v *View) ChooseImage(img *product.Image) error {
	return v.store.EditDraft(func(d *product.Draft) {
		d.Image = img
	})
}

func (v *View) Cancel() {
	v.store.Cancel()
}

// Save submits the edit draft.
func (v *View) Save(ctx context.Context) (catalog.Outcome, error) {
	out, err := v.store.SubmitUpdate(ctx)
	v.report(out, err, "Product updated")
	return out, err
}

// Delete removes id.
func (v *View) Delete(ctx context.Context, id string) (catalog.Outcome, error) {
	out, err := v.store.Remove(ctx, id)
	v.report(out, err, "Product removed")
	return out, err
}

// Form returns the creation form.
func (v *View) Form() *catalog.CreationForm {
	return v.form
}

// Create submits the creation form.
func (v *View) Create(ctx context.Context) (catalog.Outcome, error) {
	out, err := v.form.Submit(ctx)
	v.report(out, err, "Product added")
	return out, err
}

func (v *View) report(out catalog.Outcome, err error, fallback string) {
	if err != nil {
		v.fail(err)
	} else {
		msg := out.Message
		if msg == "" {
			msg = fallback
		}
		v.notify.Notify(Notification{Level: LevelSuccess, Message: msg})
	}
	if out.RefreshErr != nil {
		v.notify.Notify(Notification{
			Level:   LevelError,
			Message: "Could not refresh the list: " + Reason(out.RefreshErr),
		})
	}
}

func (v *View) fail(err error) {
	v.notify.Notify(Notification{Level: LevelError, Message: Reason(err)})
}

// Reason turns an error into the text shown to the operator.
func Reason(err error) string {
	var (
		ve *product.ValidationError
		ke *httpclient.TokenError
		te *httpclient.TransportError
		se *httpclient.ServiceError
	)
	switch {
	case errors.As(err, &ve):
		names := make([]string, len(ve.Fields))
		for i, f := range ve.Fields {
			names[i] = string(f)
		}
		return "Please fill all required fields: " + strings.Join(names, ", ")
	case errors.As(err, &ke):
		return "Could not read the saved login token"
	case errors.As(err, &te):
		return "No response from server"
	case errors.As(err, &se):
		if se.Message != "" {
			return se.Message
		}
		return "Error"
	case errors.Is(err, catalog.ErrBusy):
		return "Please wait for the current request to finish"
	case errors.Is(err, catalog.ErrNotEditing):
		return "Select a product to edit first"
	case errors.Is(err, ErrUnknownProduct):
		return "Product not found"
	case errors.Is(err, product.ErrNotImage):
		return "Please upload an image"
	default:
		return "Error"
	}
}
