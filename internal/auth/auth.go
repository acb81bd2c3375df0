// Package auth signs operators in to the catalog service and keeps the
// issued bearer token on disk.
package auth

import (
	"bytes"
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

const (
	pathLogin    = "/api/admin/login"
	pathRegister = "/api/admin/register"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNoToken          = errors.New("service did not issue a token")
)

// FieldsError lists the sign-in fields that are missing or malformed.
type FieldsError struct {
	Fields []string
}

func (e *FieldsError) Error() string {
	return "Please fill all required fields: " + strings.Join(e.Fields, ", ")
}

// Credentials identify an existing operator. Identifier is an email
// address or a phone number.
type Credentials struct {
	Identifier string `field:"identifier" validate:"required"`
	Password   string `field:"password" validate:"required"`
}

// Registration describes a new operator account.
type Registration struct {
	Name     string `field:"name" validate:"required"`
	Email    string `field:"email" validate:"required,email"`
	Password string `field:"password" validate:"required"`
	Confirm  string `field:"confirm" validate:"required"`
	Phone    string `field:"phone" validate:"required"`
}

// Session is a successful sign-in.
type Session struct {
	Token   string
	Message string
}

var rules = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	return v
}()

func check(v any) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(rules.Struct(v), &fieldErrs) {
		return nil
	}
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field()
	}
	return &FieldsError{Fields: fields}
}

// Client calls the admin endpoints.
type Client struct {
	base string
	hc   *http.Client
	lg   *zap.Logger
}

func NewClient(baseURL string, hc *http.Client, lg *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc, lg: lg}
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, cred Credentials) (Session, error) {
	cred.Identifier = strings.TrimSpace(cred.Identifier)
	if err := check(cred); err != nil {
		return Session{}, err
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("identifier")
	e.Str(cred.Identifier)
	e.FieldStart("password")
	e.Str(cred.Password)
	e.ObjEnd()

	s, err := c.post(ctx, "login", pathLogin, e.Bytes())
	if err != nil {
		return s, err
	}
	c.lg.Info("Logged in", zap.String("identifier", cred.Identifier))
	return s, nil
}

// Signup registers a new operator and returns the token it is issued.
func (c *Client) Signup(ctx context.Context, reg Registration) (Session, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if err := check(reg); err != nil {
		return Session{}, err
	}
	if reg.Password != reg.Confirm {
		return Session{}, ErrPasswordMismatch
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(reg.Name)
	e.FieldStart("email")
	e.Str(reg.Email)
	e.FieldStart("password")
	e.Str(reg.Password)
	e.FieldStart("phone")
	e.Str(reg.Phone)
	e.ObjEnd()

	s, err := c.post(ctx, "signup", pathRegister, e.Bytes())
	if err != nil {
		return s, err
	}
	c.lg.Info("Registered", zap.String("email", reg.Email))
	return s, nil
}

func (c *Client) post(ctx context.Context, op, path string, body []byte) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return Session{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var s Session
	env, err := httpclient.Call(c.hc, req, op, func(d *jx.Decoder, key string) error {
		if key != "token" || d.Next() != jx.String {
			return d.Skip()
		}
		v, err := d.Str()
		s.Token = v
		return err
	})
	s.Message = env.Message
	if err != nil {
		return s, err
	}
	if s.Token == "" {
		return s, ErrNoToken
	}
	return s, nil
}
