package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

// --- Helpers ---

// newServer answers with body and records the decoded JSON request.
func newServer(t *testing.T, status int, body string) (*httptest.Server, map[string]string) {
	t.Helper()
	got := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got["path"] = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
			v, err := d.Str()
			got[key] = v
			return err
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

// --- Tests ---

func TestLogin(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"token":"tok-1","message":"Login successful"}`)
	c := NewClient(srv.URL, srv.Client(), nil)

	s, err := c.Login(context.Background(), Credentials{Identifier: " admin@example.com ", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, Session{Token: "tok-1", Message: "Login successful"}, s)
	assert.Equal(t, pathLogin, got["path"])
	assert.Equal(t, "admin@example.com", got["identifier"])
	assert.Equal(t, "secret", got["password"])
}

func TestLogin_MissingFields(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, nil)

	_, err := c.Login(context.Background(), Credentials{Identifier: "  "})

	var fe *FieldsError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"identifier", "password"}, fe.Fields)
}

func TestLogin_Rejected(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`)
	c := NewClient(srv.URL, srv.Client(), nil)

	s, err := c.Login(context.Background(), Credentials{Identifier: "a", Password: "b"})

	var se *httpclient.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Invalid credentials", se.Message)
	assert.Empty(t, s.Token)
}

func TestLogin_NoToken(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success":true,"message":"ok"}`)
	c := NewClient(srv.URL, srv.Client(), nil)

	_, err := c.Login(context.Background(), Credentials{Identifier: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLogin_NoResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, srv.Client(), nil)
	srv.Close()

	_, err := c.Login(context.Background(), Credentials{Identifier: "a", Password: "b"})

	var te *httpclient.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestSignup(t *testing.T) {
	valid := Registration{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "pw",
		Confirm:  "pw",
		Phone:    "9876543210",
	}

	t.Run("success", func(t *testing.T) {
		srv, got := newServer(t, http.StatusOK, `{"success":true,"token":"tok-2","message":"Registered"}`)
		c := NewClient(srv.URL, srv.Client(), nil)

		s, err := c.Signup(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, "tok-2", s.Token)
		assert.Equal(t, pathRegister, got["path"])
		assert.Equal(t, "9876543210", got["phone"])
		_, sentConfirm := got["confirm"]
		assert.False(t, sentConfirm)
	})

	t.Run("password mismatch", func(t *testing.T) {
		reg := valid
		reg.Confirm = "other"
		_, err := NewClient("http://127.0.0.1:1", nil, nil).Signup(context.Background(), reg)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("invalid email", func(t *testing.T) {
		reg := valid
		reg.Email = "not-an-email"
		_, err := NewClient("http://127.0.0.1:1", nil, nil).Signup(context.Background(), reg)

		var fe *FieldsError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, []string{"email"}, fe.Fields)
	})
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "token"))

	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok, "no file means not logged in")

	require.NoError(t, s.Save("tok-1"))
	tok, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	tok, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}
