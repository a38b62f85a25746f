package lfid

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/config"
	"lfreleng/internal/errors"
	"lfreleng/internal/testutil"
)

// newTestClient serves both the OAuth token endpoint and the identity
// API from one test server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "oauth-token", "token_type": "bearer", "expires_in": 3600}`)
	})
	mux.HandleFunc("/groups/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer oauth-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		handler(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := config.LFIDConfig{
		URL:          server.URL + "/groups",
		TokenURL:     server.URL + "/oauth/token",
		ClientID:     "client",
		ClientSecret: "secret",
	}
	return NewClient(cfg, adapterhttp.NewAdapter(5*time.Second, false, testutil.Logger()))
}

func TestSearchMembers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/releng-committers", r.URL.Path)
		fmt.Fprint(w, `{"members": [
			{"username": "alice", "mail": "alice@example.org"},
			{"username": "bob", "mail": "bob@example.org"}
		]}`)
	})

	members, err := client.SearchMembers(context.Background(), "releng-committers")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, "alice@example.org", members[0].Mail)
}

func TestSearchMembersMissingGroup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.SearchMembers(context.Background(), "no-such-group")
	assert.True(t, errors.IsNotFound(err))
}

func TestAddUser(t *testing.T) {
	var gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.AddUser(context.Background(), "releng-committers", "erin"))
	assert.Equal(t, http.MethodPut, gotMethod)
}

func TestInviteRejectsBadAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid address")
	})

	err := client.Invite(context.Background(), "releng-committers", "not-an-email")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestInvite(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Invite(context.Background(), "releng-committers", "erin@example.org"))
	assert.Equal(t, "/groups/releng-committers/invite", gotPath)
}

func TestCreateGroupAlreadyExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	err := client.CreateGroup(context.Background(), "releng-committers")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCreateGroup(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			// existence probe
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, client.CreateGroup(context.Background(), "new-group"))
	assert.Equal(t, 2, requests)
}
