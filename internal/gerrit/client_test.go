package gerrit

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/config"
	"lfreleng/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	creds := config.GerritConfig{Username: "admin", Password: "hunter2"}
	return NewClient(server.URL, creds, adapterhttp.NewAdapter(5*time.Second, false, testutil.Logger()))
}

func TestApprovalVotes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/changes/12345/reviewers", r.URL.Path)

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:hunter2"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))

		// Gerrit prepends the XSSI guard to every JSON body.
		fmt.Fprint(w, ")]}'\n"+`[
			{"username": "alice", "approvals": {"Code-Review": "+2"}},
			{"username": "bob", "approvals": {"Code-Review": " 0"}},
			{"username": "carol", "approvals": {"Code-Review": "+1"}},
			{"username": "dave", "approvals": {"Code-Review": "-1"}}
		]`)
	})

	votes, err := client.ApprovalVotes(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol"}, votes)
}

func TestReviewersHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found: change", http.StatusNotFound)
	})

	_, err := client.Reviewers(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to list reviewers of change 99")
}

func TestAccessEncodesProjectName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The slash in the project name must arrive percent-encoded.
		assert.Contains(t, r.RequestURI, "projects/releng%2Fbuilder/access")
		fmt.Fprint(w, ")]}'\n"+`{
			"inherits_from": {"id": "All-Projects"},
			"local": {
				"refs/*": {
					"permissions": {
						"owner": {"rules": {"ldap:cn=releng-gerrit-builder-committers": {}}}
					}
				}
			}
		}`)
	})

	access, err := client.Access(context.Background(), "releng/builder")
	require.NoError(t, err)
	assert.Equal(t, "All-Projects", access.InheritsFrom.ID)
	assert.Equal(t, []string{"ldap:cn=releng-gerrit-builder-committers"}, access.OwnerRules())
}

func TestOwnerRulesAbsent(t *testing.T) {
	var access AccessInfo
	assert.Empty(t, access.OwnerRules())
}

func TestVoteSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/changes/7/reviewers", r.URL.Path)
		fmt.Fprint(w, ")]}'\n"+`[{"username": "alice", "approvals": {"Code-Review": "+1"}}]`)
	})

	votes, err := VoteSource{Client: client, ChangeNumber: 7}.Votes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, votes)
}
