// Package catalog holds the product list workflow: the canonical list as
// last reported by the catalog service, the browse/edit state machine and
// the mutations that are always followed by a re-fetch.
package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/formdata"
)

// Workflow errors.
var (
	ErrBusy       = errors.New("a request for this product is already in flight")
	ErrNotEditing = errors.New("no product is being edited")
)

// Created is the service's answer to a successful creation.
type Created struct {
	ID      string
	Message string
}

// Backend is the remote catalog service.
type Backend interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, body *formdata.Body) (Created, error)
	Update(ctx context.Context, id string, body *formdata.Body) (string, error)
	Remove(ctx context.Context, id string) (string, error)
}

// Mode is the store's interaction state.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "browsing"
}

// Outcome describes a completed mutation attempt. Message is the service
// text, Refreshed reports whether the follow-up list fetch succeeded and
// RefreshErr holds its failure otherwise.
type Outcome struct {
	ID         string
	Message    string
	Refreshed  bool
	RefreshErr error
}

type editSession struct {
	id    string
	draft product.Draft
}

// target identifies what a mutation acts on. The zero id with create set is
// the single creation slot.
type target struct {
	create bool
	id     string
}

// Store owns the canonical product list and the edit session.
// The mutex guards state only; it is never held across a backend call.
type Store struct {
	backend Backend
	lg      *zap.Logger

	mu       sync.Mutex
	products []product.Product
	session  *editSession // nil while browsing
	inflight map[target]struct{}
}

// NewStore creates an empty Store in browsing mode.
func NewStore(backend Backend, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{
		backend:  backend,
		lg:       lg,
		inflight: make(map[target]struct{}),
	}
}

// Load fetches the list for the first time.
func (s *Store) Load(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Refresh re-fetches the list and replaces the local copy wholesale.
// On failure the previous list is kept.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.backend.List(ctx)
	if err != nil {
		s.lg.Warn("Failed to fetch product list", zap.Error(err))
		return errors.Wrap(err, "list products")
	}

	s.mu.Lock()
	s.products = slices.Clone(list)
	s.mu.Unlock()

	s.lg.Debug("Product list refreshed", zap.Int("count", len(list)))
	return nil
}

// Products returns a copy of the canonical list.
func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Lookup finds a product in the canonical list by ID.
func (s *Store) Lookup(id string) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ModeBrowsing
	}
	return ModeEditing
}

// Selection returns the ID under edit.
func (s *Store) Selection() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", false
	}
	return s.session.id, true
}

// Draft returns a copy of the staged edit.
func (s *Store) Draft() (product.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return product.Draft{}, false
	}
	return s.session.draft, true
}

// StartEdit selects p and seeds a fresh draft from it. Any draft for a
// previously selected product is dropped without confirmation.
func (s *Store) StartEdit(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.id != p.ID {
		s.lg.Debug("Discarding unsaved draft", zap.String("id", s.session.id))
	}
	s.session = &editSession{id: p.ID, draft: product.DraftFrom(p)}
}

// EditDraft applies fn to the staged draft.
func (s *Store) EditDraft(fn func(d *product.Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNotEditing
	}
	fn(&s.session.draft)
	return nil
}

// Cancel drops the edit session. Nothing is sent.
func (s *Store) Cancel() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// SubmitUpdate validates and sends the staged draft. A draft that fails
// validation keeps the store in editing mode and sends nothing. Once a
// request has been made the session ends and the list is re-fetched
// whether or not the service accepted the change.
func (s *Store) SubmitUpdate(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	sess := s.session
	var draft product.Draft
	if sess != nil {
		draft = sess.draft
	}
	s.mu.Unlock()
	if sess == nil {
		return Outcome{}, ErrNotEditing
	}

	id := sess.id
	out := Outcome{ID: id}
	if err := product.Validate(product.OpUpdate, draft).Err(); err != nil {
		return out, err
	}

	t := target{id: id}
	if !s.acquire(t) {
		return out, ErrBusy
	}
	defer s.release(t)

	body, err := formdata.Encode(id, draft)
	if err != nil {
		return out, errors.Wrap(err, "encode update")
	}

	msg, err := s.backend.Update(ctx, id, body)
	out.Message = msg

	s.mu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.mu.Unlock()

	s.refreshAfter(ctx, &out)
	if err != nil {
		s.lg.Warn("Update rejected", zap.String("id", id), zap.Error(err))
		return out, errors.Wrap(err, "update product")
	}
	s.lg.Info("Product updated", zap.String("id", id))
	return out, nil
}

// Create validates and sends a new product. The list is re-fetched only
// when the service confirms the creation.
func (s *Store) Create(ctx context.Context, draft product.Draft) (Outcome, error) {
	if err := product.Validate(product.OpCreate, draft).Err(); err != nil {
		return Outcome{}, err
	}

	t := target{create: true}
	if !s.acquire(t) {
		return Outcome{}, ErrBusy
	}
	defer s.release(t)

	body, err := formdata.Encode("", draft)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "encode create")
	}

	created, err := s.backend.Create(ctx, body)
	out := Outcome{ID: created.ID, Message: created.Message}
	if err != nil {
		s.lg.Warn("Create rejected", zap.Error(err))
		return out, errors.Wrap(err, "create product")
	}

	s.lg.Info("Product created", zap.String("id", created.ID))
	s.refreshAfter(ctx, &out)
	return out, nil
}

// Remove asks the service to delete id and re-fetches the list regardless
// of the answer. IDs absent from the local list are sent anyway; the
// service decides.
func (s *Store) Remove(ctx context.Context, id string) (Outcome, error) {
	out := Outcome{ID: id}
	t := target{id: id}
	if !s.acquire(t) {
		return out, ErrBusy
	}
	defer s.release(t)

	msg, err := s.backend.Remove(ctx, id)
	out.Message = msg

	if err == nil {
		// The record under edit no longer exists.
		s.mu.Lock()
		if s.session != nil && s.session.id == id {
			s.session = nil
		}
		s.mu.Unlock()
	}

	s.refreshAfter(ctx, &out)
	if err != nil {
		s.lg.Warn("Remove rejected", zap.String("id", id), zap.Error(err))
		return out, errors.Wrap(err, "remove product")
	}
	s.lg.Info("Product removed", zap.String("id", id))
	return out, nil
}

func (s *Store) refreshAfter(ctx context.Context, out *Outcome) {
	if err := s.Refresh(ctx); err != nil {
		out.RefreshErr = err
		return
	}
	out.Refreshed = true
}

func (s *Store) acquire(t target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[t]; busy {
		return false
	}
	s.inflight[t] = struct{}{}
	return true
}

func (s *Store) release(t target) {
	s.mu.Lock()
	delete(s.inflight, t)
	s.mu.Unlock()
}
