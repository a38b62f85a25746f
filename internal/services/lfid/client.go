// Package lfid manages group membership through the LDAP-backed
// identity API.
package lfid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/config"
	"lfreleng/internal/errors"
)

// Member is one group member as the identity API reports it.
type Member struct {
	Username string `json:"username"`
	Mail     string `json:"mail,omitempty"`
}

// Client talks to the identity API with an OAuth2 client-credentials
// token.
type Client struct {
	baseURL string
	oauth   clientcredentials.Config
	http    *adapterhttp.Adapter
}

// NewClient creates an identity API client from explicit configuration.
func NewClient(cfg config.LFIDConfig, adapter *adapterhttp.Adapter) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		},
		http: adapter,
	}
}

func (c *Client) headers(ctx context.Context) (map[string]string, error) {
	token, err := c.oauth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain identity API token: %w", err)
	}
	return map[string]string{"Authorization": "Bearer " + token.AccessToken}, nil
}

func (c *Client) groupURL(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

type membersResponse struct {
	Members []Member `json:"members"`
}

// GroupExists checks whether a group exists.
func (c *Client) GroupExists(ctx context.Context, group string) (bool, error) {
	headers, err := c.headers(ctx)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Get(ctx, c.groupURL(group), headers)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK, nil
}

// SearchMembers lists the members of a group. A missing group is a
// fatal condition for the callers, surfaced as ErrNotFound.
func (c *Client) SearchMembers(ctx context.Context, group string) ([]Member, error) {
	headers, err := c.headers(ctx)
	if err != nil {
		return nil, err
	}

	url := c.groupURL(group)
	resp, err := c.http.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("group %s: %w", group, errors.ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, errors.NewHTTPError(resp.StatusCode, http.MethodGet, url, string(body))
	}

	var result membersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return result.Members, nil
}

// AddUser adds a username to a group.
func (c *Client) AddUser(ctx context.Context, group, user string) error {
	headers, err := c.headers(ctx)
	if err != nil {
		return err
	}

	url := c.groupURL(group)
	resp, err := c.http.Put(ctx, url, headers, map[string]string{"username": user})
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

// RemoveUser removes a username from a group.
func (c *Client) RemoveUser(ctx context.Context, group, user string) error {
	headers, err := c.headers(ctx)
	if err != nil {
		return err
	}

	url := c.groupURL(group)
	resp, err := c.http.Delete(ctx, url, headers, map[string]string{"username": user})
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

// Invite emails an invitation to join a group. The address is checked
// for syntactic validity before any call is made.
func (c *Client) Invite(ctx context.Context, group, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address: %w", errors.ErrInvalidInput)
	}

	headers, err := c.headers(ctx)
	if err != nil {
		return err
	}

	url := c.groupURL(group, "invite")
	resp, err := c.http.Post(ctx, url, headers, map[string]string{"mail": email})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError(resp.StatusCode, http.MethodPost, url, string(body))
	}
	return nil
}

// CreateGroup creates a group. Creating an existing group is an error.
func (c *Client) CreateGroup(ctx context.Context, group string) error {
	exists, err := c.GroupExists(ctx, group)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("group %s already exists: %w", group, errors.ErrInvalidInput)
	}

	headers, err := c.headers(ctx)
	if err != nil {
		return err
	}

	url := c.baseURL + "/"
	resp, err := c.http.Post(ctx, url, headers, map[string]string{"title": group, "type": "group"})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError(resp.StatusCode, http.MethodPost, url, string(body))
	}
	return nil
}

// Directory is the reconciliation surface shared by the identity API
// and GitHub teams.
type Directory interface {
	Members(ctx context.Context, group string) ([]string, error)
	AddUser(ctx context.Context, group, user string) error
	RemoveUser(ctx context.Context, group, user string) error
}

// GroupDirectory adapts the client to the Directory interface.
type GroupDirectory struct {
	Client *Client
}

// Members lists the group's usernames.
func (d GroupDirectory) Members(ctx context.Context, group string) ([]string, error) {
	members, err := d.Client.SearchMembers(ctx, group)
	if err != nil {
		return nil, err
	}
	usernames := make([]string, 0, len(members))
	for _, m := range members {
		usernames = append(usernames, m.Username)
	}
	return usernames, nil
}

// AddUser adds a username to the group.
func (d GroupDirectory) AddUser(ctx context.Context, group, user string) error {
	return d.Client.AddUser(ctx, group, user)
}

// RemoveUser removes a username from the group.
func (d GroupDirectory) RemoveUser(ctx context.Context, group, user string) error {
	return d.Client.RemoveUser(ctx, group, user)
}
