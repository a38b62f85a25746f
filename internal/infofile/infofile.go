// Package infofile reads and writes project INFO.yaml governance files.
package infofile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lfreleng/internal/errors"
)

// IDKey selects which committer identifier a lookup is keyed on.
type IDKey string

const (
	// IDKeyLFID keys on the LF identity username.
	IDKeyLFID IDKey = "id"
	// IDKeyGitHub keys on the GitHub login.
	IDKeyGitHub IDKey = "github_id"
)

// Committer is one entry under committers.
type Committer struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Company  string `yaml:"company,omitempty"`
	ID       string `yaml:"id"`
	GithubID string `yaml:"github_id,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
}

// Identifier returns the committer identifier for the given key.
func (c Committer) Identifier(key IDKey) string {
	if key == IDKeyGitHub {
		return c.GithubID
	}
	return c.ID
}

// TSCChange is one recorded TSC change entry.
type TSCChange struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
	Link string `yaml:"link"`
}

// TSC is the tsc section of an INFO.yaml.
type TSC struct {
	Approval string      `yaml:"approval"`
	Changes  []TSCChange `yaml:"changes,omitempty"`
}

// Info is a parsed INFO.yaml. Only the fields the tooling consumes are
// modeled; unknown fields are dropped on rewrite.
type Info struct {
	Project             string      `yaml:"project"`
	ProjectCreationDate string      `yaml:"project_creation_date,omitempty"`
	ProjectCategory     string      `yaml:"project_category,omitempty"`
	LifecycleState      string      `yaml:"lifecycle_state,omitempty"`
	Repositories        []string    `yaml:"repositories"`
	Committers          []Committer `yaml:"committers"`
	TSC                 *TSC        `yaml:"tsc,omitempty"`
}

// Load parses an INFO.yaml file.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &info, nil
}

// Save writes the file back. Formatting follows the project convention
// of four-space indents and an explicit document start.
func (i *Info) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString("---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(4)
	if err := enc.Encode(i); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return enc.Close()
}

// CommitterIDs extracts the committer identifiers for the given key.
func (i *Info) CommitterIDs(key IDKey) []string {
	ids := make([]string, 0, len(i.Committers))
	for _, c := range i.Committers {
		ids = append(ids, c.Identifier(key))
	}
	return ids
}

// FindCommitter returns the committer with the given identifier, or nil.
func (i *Info) FindCommitter(id string, key IDKey) *Committer {
	for idx := range i.Committers {
		if i.Committers[idx].Identifier(key) == id {
			return &i.Committers[idx]
		}
	}
	return nil
}

// SyncCommitter copies the committer with the given id from an LDAP
// dump file (same YAML shape) into the INFO file. Already present is a
// no-op; missing from the dump is an error.
func SyncCommitter(infoPath, ldapPath, id, repo string) (added bool, err error) {
	info, err := Load(infoPath)
	if err != nil {
		return false, err
	}
	if info.FindCommitter(id, IDKeyLFID) != nil {
		return false, nil
	}

	dump, err := Load(ldapPath)
	if err != nil {
		return false, err
	}
	committer := dump.FindCommitter(id, IDKeyLFID)
	if committer == nil {
		return false, fmt.Errorf("%s does not exist in %s: %w", id, ldapPath, errors.ErrNotFound)
	}

	info.Committers = append(info.Committers, *committer)
	if repo != "" {
		info.Repositories = []string{repo}
	}
	if err := info.Save(infoPath); err != nil {
		return false, err
	}
	return true, nil
}
