package votes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfreleng/internal/infofile"
	"lfreleng/internal/testutil"
)

type staticSource struct {
	votes []string
	err   error
}

func (s staticSource) Votes(context.Context) ([]string, error) {
	return s.votes, s.err
}

func writeInfo(t *testing.T, name string, ids ...string) string {
	t.Helper()
	var body bytes.Buffer
	body.WriteString("---\nproject: 'test'\ncommitters:\n")
	for _, id := range ids {
		fmt.Fprintf(&body, "    - name: '%s'\n      email: '%s@example.org'\n      id: '%s'\n", id, id, id)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, body.Bytes(), 0o600))
	return path
}

func newChecker(source Source, out *bytes.Buffer) *Checker {
	return NewChecker(source, infofile.IDKeyLFID, testutil.Logger(), out)
}

func TestCheckMajorityReached(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice", "bob", "carol", "dave")
	source := staticSource{votes: []string{"alice", "bob"}}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, "")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "INFO: Number of Committers: 4")
	assert.Contains(t, out.String(), "INFO: Majority committer vote reached")
}

func TestCheckMajorityNotReached(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice", "bob", "carol", "dave")
	source := staticSource{votes: []string{"alice"}}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, "")

	require.Error(t, err)
	assert.ErrorContains(t, err, "majority not yet reached")
}

func TestCheckNoVotes(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice", "bob")
	source := staticSource{votes: []string{"mallory"}}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, "")

	require.Error(t, err)
	assert.ErrorContains(t, err, "no votes recorded")
}

// The TSC stage reuses the votes of the committer stage; both must
// reach majority independently.
func TestCheckTSCStage(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice", "bob")
	tsc := writeInfo(t, "tsc.yaml", "alice", "erin")
	source := staticSource{votes: []string{"alice", "bob"}}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, tsc)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "INFO: Need majority of tsc")
	assert.Contains(t, out.String(), "INFO: TSC majority reached auto merging commit")
}

func TestCheckTSCStageFails(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice", "bob")
	tsc := writeInfo(t, "tsc.yaml", "erin", "frank", "grace")
	source := staticSource{votes: []string{"alice", "bob"}}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, tsc)

	require.Error(t, err)
	assert.ErrorContains(t, err, "majority not yet reached")
	assert.Contains(t, out.String(), "INFO: Majority committer vote reached")
}

func TestCheckSourceFailure(t *testing.T) {
	info := writeInfo(t, "INFO.yaml", "alice")
	source := staticSource{err: fmt.Errorf("gerrit unreachable")}

	var out bytes.Buffer
	err := newChecker(source, &out).Check(context.Background(), info, "")

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to fetch votes")
}

// Half is enough: two of four committers pass the 0.5 threshold.
func TestMajorityBoundary(t *testing.T) {
	stage := Stage{
		Committers: []string{"a", "b", "c", "d"},
		Voted:      []string{"a", "b"},
	}
	assert.Equal(t, 0.5, stage.Majority())
}
