package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glintwash/glintwash-client/pkg/config"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewClient(config.APIConfig{BaseURL: ts.URL}, StaticToken(token), nil, nil)
	require.NoError(t, err)
	return client
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.Envelope{Success: success, Message: message, Data: raw})
}

func TestClientAttachesBearerToken(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeEnvelope(w, http.StatusOK, true, "", []types.ProductDTO{})
	})

	client := newTestClient(t, router, "tok-1")
	_, err := client.Products(context.Background())
	require.NoError(t, err)
}

func TestClientOmitsAuthorizationWhenNoToken(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/api/branches", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, true, "", []types.BranchDTO{{ID: 1, Name: "Downtown", IsActive: true}})
	})

	client := newTestClient(t, router, "")
	branches, err := client.Branches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "Downtown", branches[0].Name)
}

func TestClientSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "invalid credentials", nil)
	})

	client := newTestClient(t, router, "")
	_, err := client.Login(context.Background(), LoginRequest{Identifier: "a", Password: "b"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeRemote, typed.Code())
	assert.Equal(t, "invalid credentials", typed.Message())
}

func TestClientTreatsSuccessFalseAsFailure(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		// 200 with success=false still fails uniformly.
		writeEnvelope(w, http.StatusOK, false, "", nil)
	})

	client := newTestClient(t, router, "tok")
	_, err := client.CartCreate(context.Background(), CartCreateRequest{UserID: 1, ProductID: 2, Quantity: 1})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeRemote, typed.Code())
	assert.Equal(t, "request rejected by server", typed.Message())
}

func TestClientMapsGarbageBodyToDependencyError(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/api/gallery", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	client := newTestClient(t, router, "")
	_, err := client.Gallery(context.Background())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestOrderCreateSendsEmptyServiceArrays(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[]", string(body["services"]))
		assert.Equal(t, "[]", string(body["extra_works"]))
		writeEnvelope(w, http.StatusCreated, true, "", types.OrderDTO{ID: 11, Status: "pending"})
	})

	client := newTestClient(t, router, "tok")
	order, err := client.OrderCreate(context.Background(), OrderCreateRequest{
		UserID:   1,
		BranchID: 2,
		Products: []OrderProductRequest{{ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), order.ID)
}
