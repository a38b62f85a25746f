package github

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
	"lfreleng/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewEnterpriseClient(server.URL, "gh-token", adapterhttp.NewAdapter(5*time.Second, false, testutil.Logger()))
}

func TestPRApprovals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widget/pulls/42/reviews", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))

		fmt.Fprint(w, `[
			{"state": "APPROVED", "user": {"login": "alice"}},
			{"state": "CHANGES_REQUESTED", "user": {"login": "bob"}},
			{"state": "COMMENTED", "user": {"login": "carol"}},
			{"state": "APPROVED", "user": {"login": "dave"}}
		]`)
	})

	approvals, err := client.PRApprovals(context.Background(), "acme", "widget", 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "dave"}, approvals)
}

func TestTeamMembers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/teams/committers/members", r.URL.Path)
		fmt.Fprint(w, `[{"login": "alice"}, {"login": "bob"}]`)
	})

	members, err := client.TeamMembers(context.Background(), "acme", "committers")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, members)
}

func TestAddTeamMember(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.AddTeamMember(context.Background(), "acme", "committers", "erin"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/orgs/acme/teams/committers/memberships/erin", gotPath)
}

func TestRemoveTeamMemberError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	err := client.RemoveTeamMember(context.Background(), "acme", "committers", "erin")
	assert.Error(t, err)
}

func TestTeamDirectory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/teams/committers/members", r.URL.Path)
		fmt.Fprint(w, `[{"login": "alice"}]`)
	})

	members, err := TeamDirectory{Client: client, Org: "acme"}.Members(context.Background(), "committers")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
}
