// Package github is a minimal GitHub REST client covering pull-request
// approval votes and organization team membership.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/errors"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *adapterhttp.Adapter
}

// NewClient creates a GitHub client. An empty token limits it to
// public data.
func NewClient(token string, adapter *adapterhttp.Adapter) *Client {
	return &Client{baseURL: defaultBaseURL, token: token, http: adapter}
}

// NewEnterpriseClient creates a client against a GitHub Enterprise
// endpoint.
func NewEnterpriseClient(baseURL, token string, adapter *adapterhttp.Adapter) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: adapter}
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/vnd.github+json"}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
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
	return json.Unmarshal(body, out)
}

type reviewData struct {
	State string `json:"state"`
	User  struct {
		Login string `json:"login"`
	} `json:"user"`
}

// PRApprovals returns the logins that approved the pull request.
func (c *Client) PRApprovals(ctx context.Context, org, repo string, number int) ([]string, error) {
	var reviews []reviewData
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", org, repo, number)
	if err := c.get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("failed to list reviews of %s/%s#%d: %w", org, repo, number, err)
	}

	var approvals []string
	for _, r := range reviews {
		if r.State == "APPROVED" {
			approvals = append(approvals, r.User.Login)
		}
	}
	return approvals, nil
}

type memberData struct {
	Login string `json:"login"`
}

// TeamMembers lists the logins in an organization team.
func (c *Client) TeamMembers(ctx context.Context, org, team string) ([]string, error) {
	var members []memberData
	path := fmt.Sprintf("/orgs/%s/teams/%s/members", org, team)
	if err := c.get(ctx, path, &members); err != nil {
		return nil, fmt.Errorf("failed to list members of %s/%s: %w", org, team, err)
	}

	logins := make([]string, 0, len(members))
	for _, m := range members {
		logins = append(logins, m.Login)
	}
	return logins, nil
}

// AddTeamMember adds a user to an organization team.
func (c *Client) AddTeamMember(ctx context.Context, org, team, user string) error {
	url := fmt.Sprintf("%s/orgs/%s/teams/%s/memberships/%s", c.baseURL, org, team, user)
	resp, err := c.http.Put(ctx, url, c.headers(), map[string]string{"role": "member"})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError(resp.StatusCode, http.MethodPut, url, string(body))
	}
	return nil
}

// RemoveTeamMember removes a user from an organization team.
func (c *Client) RemoveTeamMember(ctx context.Context, org, team, user string) error {
	url := fmt.Sprintf("%s/orgs/%s/teams/%s/memberships/%s", c.baseURL, org, team, user)
	resp, err := c.http.Delete(ctx, url, c.headers(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError(resp.StatusCode, http.MethodDelete, url, string(body))
	}
	return nil
}

// VoteSource adapts the client to the votes.Source interface for one
// pull request.
type VoteSource struct {
	Client *Client
	Org    string
	Repo   string
	Number int
}

// Votes returns the approving reviewers of the pull request.
func (s VoteSource) Votes(ctx context.Context) ([]string, error) {
	return s.Client.PRApprovals(ctx, s.Org, s.Repo, s.Number)
}

// TeamDirectory adapts team membership to the lfid.Directory interface
// so match-to-info can reconcile GitHub teams.
type TeamDirectory struct {
	Client *Client
	Org    string
}

// Members lists the team's logins.
func (d TeamDirectory) Members(ctx context.Context, team string) ([]string, error) {
	return d.Client.TeamMembers(ctx, d.Org, team)
}

// AddUser adds a login to the team.
func (d TeamDirectory) AddUser(ctx context.Context, team, user string) error {
	return d.Client.AddTeamMember(ctx, d.Org, team, user)
}

// RemoveUser removes a login from the team.
func (d TeamDirectory) RemoveUser(ctx context.Context, team, user string) error {
	return d.Client.RemoveTeamMember(ctx, d.Org, team, user)
}
