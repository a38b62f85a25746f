package infofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfreleng/internal/errors"
)

const sampleInfo = `---
project: 'releng'
project_creation_date: '2019-11-13'
lifecycle_state: 'Incubation'
repositories:
    - releng/builder
committers:
    - name: 'Alice Admin'
      email: 'alice@example.org'
      company: 'example'
      id: 'alice'
      github_id: 'alice-gh'
    - name: 'Bob Builder'
      email: 'bob@example.org'
      id: 'bob'
tsc:
    approval: 'https://lists.example.org/thread/1'
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "INFO.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	info, err := Load(writeSample(t, sampleInfo))
	require.NoError(t, err)

	assert.Equal(t, "releng", info.Project)
	assert.Equal(t, []string{"releng/builder"}, info.Repositories)
	require.Len(t, info.Committers, 2)
	assert.Equal(t, "alice", info.Committers[0].ID)
	assert.Equal(t, "alice-gh", info.Committers[0].GithubID)
	require.NotNil(t, info.TSC)
	assert.Equal(t, "https://lists.example.org/thread/1", info.TSC.Approval)
}

func TestCommitterIDs(t *testing.T) {
	info, err := Load(writeSample(t, sampleInfo))
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, info.CommitterIDs(IDKeyLFID))
	// bob has no github_id; the blank entry is preserved positionally.
	assert.Equal(t, []string{"alice-gh", ""}, info.CommitterIDs(IDKeyGitHub))
}

func TestFindCommitter(t *testing.T) {
	info, err := Load(writeSample(t, sampleInfo))
	require.NoError(t, err)

	c := info.FindCommitter("alice-gh", IDKeyGitHub)
	require.NotNil(t, c)
	assert.Equal(t, "Alice Admin", c.Name)

	assert.Nil(t, info.FindCommitter("nobody", IDKeyLFID))
}

func TestSyncCommitterAddsMissing(t *testing.T) {
	infoPath := writeSample(t, sampleInfo)
	ldapPath := writeSample(t, `---
project: 'ldap-dump'
committers:
    - name: 'Carol Committer'
      email: 'carol@example.org'
      id: 'carol'
`)

	added, err := SyncCommitter(infoPath, ldapPath, "carol", "releng/new-repo")
	require.NoError(t, err)
	assert.True(t, added)

	info, err := Load(infoPath)
	require.NoError(t, err)
	require.Len(t, info.Committers, 3)
	assert.Equal(t, "carol", info.Committers[2].ID)
	assert.Equal(t, []string{"releng/new-repo"}, info.Repositories)
}

func TestSyncCommitterAlreadyPresent(t *testing.T) {
	infoPath := writeSample(t, sampleInfo)
	ldapPath := writeSample(t, sampleInfo)

	added, err := SyncCommitter(infoPath, ldapPath, "alice", "")
	require.NoError(t, err)
	assert.False(t, added)

	info, err := Load(infoPath)
	require.NoError(t, err)
	assert.Len(t, info.Committers, 2)
	// a no-op sync must not rewrite the repositories list either
	assert.Equal(t, []string{"releng/builder"}, info.Repositories)
}

func TestSyncCommitterMissingFromDump(t *testing.T) {
	infoPath := writeSample(t, sampleInfo)
	ldapPath := writeSample(t, "---\nproject: 'empty'\ncommitters: []\n")

	_, err := SyncCommitter(infoPath, ldapPath, "carol", "")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSaveRoundTrips(t *testing.T) {
	path := writeSample(t, sampleInfo)
	info, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, info.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "---\n", string(data[:4]))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, info.Committers, reloaded.Committers)
}
