// Package gerrit is a minimal Gerrit REST client covering what the
// governance tooling needs: reviewer votes on a change and project
// access info.
package gerrit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/config"
	"lfreleng/internal/errors"
)

// Gerrit prefixes every JSON body with a magic line to defeat XSSI.
var xssiPrefix = []byte(")]}'")

// Client talks to one Gerrit instance.
type Client struct {
	baseURL string
	creds   config.GerritConfig
	http    *adapterhttp.Adapter
}

// NewClient creates a Gerrit client. Credentials may be empty for
// anonymous endpoints.
func NewClient(baseURL string, creds config.GerritConfig, adapter *adapterhttp.Adapter) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    adapter,
	}
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json; charset=UTF-8"}
	if c.creds.Username != "" {
		basic := base64.StdEncoding.EncodeToString([]byte(c.creds.Username + ":" + c.creds.Password))
		h["Authorization"] = "Basic " + basic
	}
	return h
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	resp, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return errors.NewHTTPError(resp.StatusCode, http.MethodGet, url, string(body))
	}

	body = bytes.TrimPrefix(body, xssiPrefix)
	if err := json.Unmarshal(bytes.TrimSpace(body), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Reviewer is one entry of the change reviewers listing.
type Reviewer struct {
	Username  string            `json:"username"`
	Approvals map[string]string `json:"approvals"`
}

// Reviewers lists the reviewers of a change.
func (c *Client) Reviewers(ctx context.Context, changeNumber int) ([]Reviewer, error) {
	var reviewers []Reviewer
	path := fmt.Sprintf("changes/%d/reviewers", changeNumber)
	if err := c.get(ctx, path, &reviewers); err != nil {
		return nil, fmt.Errorf("failed to list reviewers of change %d: %w", changeNumber, err)
	}
	return reviewers, nil
}

// ApprovalVotes returns the usernames that voted Code-Review +1 or +2.
func (c *Client) ApprovalVotes(ctx context.Context, changeNumber int) ([]string, error) {
	reviewers, err := c.Reviewers(ctx, changeNumber)
	if err != nil {
		return nil, err
	}

	var votes []string
	for _, r := range reviewers {
		score := r.Approvals["Code-Review"]
		if strings.Contains(score, "+1") || strings.Contains(score, "+2") {
			votes = append(votes, r.Username)
		}
	}
	return votes, nil
}

// AccessInfo is the subset of the project access response the
// create-info-file command inspects.
type AccessInfo struct {
	InheritsFrom struct {
		ID string `json:"id"`
	} `json:"inherits_from"`
	Local map[string]struct {
		Permissions map[string]struct {
			Rules map[string]json.RawMessage `json:"rules"`
		} `json:"permissions"`
	} `json:"local"`
}

// Access fetches the access configuration of a project.
func (c *Client) Access(ctx context.Context, project string) (*AccessInfo, error) {
	encoded := strings.ReplaceAll(project, "/", "%2F")
	var access AccessInfo
	if err := c.get(ctx, "projects/"+encoded+"/access", &access); err != nil {
		return nil, fmt.Errorf("failed to fetch access for %s: %w", project, err)
	}
	return &access, nil
}

// OwnerRules returns the owner rule keys on refs/*, typically LDAP
// group references.
func (a *AccessInfo) OwnerRules() []string {
	refs, ok := a.Local["refs/*"]
	if !ok {
		return nil
	}
	owner, ok := refs.Permissions["owner"]
	if !ok {
		return nil
	}
	rules := make([]string, 0, len(owner.Rules))
	for rule := range owner.Rules {
		rules = append(rules, rule)
	}
	return rules
}

// VoteSource adapts the client to the votes.Source interface for one
// change.
type VoteSource struct {
	Client       *Client
	ChangeNumber int
}

// Votes returns the approving reviewers of the change.
func (s VoteSource) Votes(ctx context.Context) ([]string, error) {
	return s.Client.ApprovalVotes(ctx, s.ChangeNumber)
}
