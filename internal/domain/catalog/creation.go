package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
)

// DiscountBadge returns the promotional badge shown on the creation
// preview. There is no badge without a pending image or without a
// positive discount.
func DiscountBadge(hasPendingImage bool, discount int) (string, bool) {
	if !hasPendingImage || discount <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d%% OFF", discount), true
}

// CreationForm stages a new product independently of the edit session.
type CreationForm struct {
	store *Store

	mu         sync.Mutex
	draft      product.Draft
	submitting bool
}

func NewCreationForm(store *Store) *CreationForm {
	return &CreationForm{store: store, draft: product.NewDraft()}
}

// Set assigns a text field of the creation draft.
func (f *CreationForm) Set(field product.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Set(field, value)
}

func (f *CreationForm) SelectImage(img *product.Image) {
	f.mu.Lock()
	f.draft.Image = img
	f.mu.Unlock()
}

func (f *CreationForm) ClearImage() {
	f.mu.Lock()
	f.draft.Image = nil
	f.mu.Unlock()
}

// Draft returns a copy of the creation draft.
func (f *CreationForm) Draft() product.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Badge previews the discount badge for the current draft.
func (f *CreationForm) Badge() (string, bool) {
	d := f.Draft()
	return DiscountBadge(d.Image != nil, d.DiscountPercent())
}

// Submit sends the draft through the store. On success the draft resets to
// its defaults; on any failure it is kept, image included, so the operator
// can correct it and try again.
func (f *CreationForm) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	f.submitting = true
	draft := f.draft
	f.mu.Unlock()

	out, err := f.store.Create(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return out, err
	}
	f.draft = product.NewDraft()
	return out, nil
}
