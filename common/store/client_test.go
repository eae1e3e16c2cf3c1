package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(&Config{
		BaseURL: url,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestSelectBuildsRowFilters(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"name":"Maria Lopez"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	var rows []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	err := client.Select(context.Background(), "employees", []Filter{
		Eq("corporate_email", "maria@marimon.com"),
		Eq("active", "true"),
	}, &rows)

	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/employees", gotPath)
	assert.Contains(t, gotQuery, "corporate_email=eq.maria%40marimon.com")
	assert.Contains(t, gotQuery, "active=eq.true")
	assert.Equal(t, "test-key", gotAPIKey)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].ID)
	assert.Equal(t, "Maria Lopez", rows[0].Name)
}

func TestSelectNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	var rows []map[string]interface{}
	err := client.Select(context.Background(), "employees", nil, &rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestPatchSendsPartialUpdate(t *testing.T) {
	var gotMethod, gotQuery, gotBody, gotPrefer string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotPrefer = r.Header.Get("Prefer")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	err := client.Patch(context.Background(), "employees",
		[]Filter{Eq("id", "12")},
		map[string]string{"password": "nuevo123"},
	)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "id=eq.12", gotQuery)
	assert.Equal(t, "return=minimal", gotPrefer)
	assert.JSONEq(t, `{"password":"nuevo123"}`, gotBody)
}

func TestAdminSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "tok-abc",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "9f6c", "email": "admin@marimon.com"}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	session, err := client.AdminSignIn(context.Background(), "admin@marimon.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", session.AccessToken)
	assert.Equal(t, "9f6c", session.User.ID)
	assert.Equal(t, "admin@marimon.com", session.User.Email)
}

func TestAdminSignInRejectsMissingIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": ""}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.AdminSignIn(context.Background(), "admin@marimon.com", "secret")
	require.Error(t, err)
}

func TestAdminSignInBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.AdminSignIn(context.Background(), "admin@marimon.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
