// Package openstack implements domain.CloudProvider against the
// provider's REST surfaces: Keystone (identity), Nova (compute), Cinder
// (block storage), Glance (image) and Magnum (container infra).
//
// Provider payloads are mapped into domain records here; nothing
// outside this package sees raw JSON.
package openstack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/config"
	"lfreleng/internal/errors"
)

// Service types as they appear in the Keystone service catalog.
const (
	serviceCompute        = "compute"
	serviceBlockStorage   = "volumev3"
	serviceImage          = "image"
	serviceContainerInfra = "container-infra"
)

// Client talks to one cloud. It authenticates lazily on first use and
// caches the token, catalog endpoints and project scope for the run.
type Client struct {
	cloud config.Cloud
	http  *adapterhttp.Adapter

	token     string
	projectID string
	endpoints map[string]string
}

// NewClient creates a provider client for one cloud defined in
// clouds.yaml.
func NewClient(cloud config.Cloud, adapter *adapterhttp.Adapter) *Client {
	return &Client{
		cloud:     cloud,
		http:      adapter,
		endpoints: make(map[string]string),
	}
}

// Cloud returns the configured cloud name.
func (c *Client) Cloud() string { return c.cloud.Name }

// Keystone v3 password authentication request.
type authIdentity struct {
	Methods  []string     `json:"methods"`
	Password authPassword `json:"password"`
}

type authPassword struct {
	User authUser `json:"user"`
}

type authUser struct {
	Name     string     `json:"name"`
	Domain   authDomain `json:"domain"`
	Password string     `json:"password"`
}

type authDomain struct {
	Name string `json:"name"`
}

type authProject struct {
	ID     string      `json:"id,omitempty"`
	Name   string      `json:"name,omitempty"`
	Domain *authDomain `json:"domain,omitempty"`
}

type authScope struct {
	Project authProject `json:"project"`
}

type authRequest struct {
	Auth struct {
		Identity authIdentity `json:"identity"`
		Scope    authScope    `json:"scope"`
	} `json:"auth"`
}

type tokenResponse struct {
	Token struct {
		Project struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
		Catalog []struct {
			Type      string `json:"type"`
			Endpoints []struct {
				Interface string `json:"interface"`
				Region    string `json:"region"`
				URL       string `json:"url"`
			} `json:"endpoints"`
		} `json:"catalog"`
	} `json:"token"`
}

// Authenticate obtains a scoped token from Keystone and records the
// service catalog endpoints for the configured region and interface.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.token != "" {
		return nil
	}

	var req authRequest
	req.Auth.Identity = authIdentity{
		Methods: []string{"password"},
		Password: authPassword{
			User: authUser{
				Name:     c.cloud.Auth.Username,
				Domain:   authDomain{Name: c.cloud.Auth.UserDomainName},
				Password: c.cloud.Auth.Password,
			},
		},
	}
	if c.cloud.Auth.ProjectID != "" {
		req.Auth.Scope.Project = authProject{ID: c.cloud.Auth.ProjectID}
	} else {
		req.Auth.Scope.Project = authProject{
			Name:   c.cloud.Auth.ProjectName,
			Domain: &authDomain{Name: c.cloud.Auth.ProjectDomainName},
		}
	}

	url := c.cloud.Auth.AuthURL + "/auth/tokens"
	resp, err := c.http.Post(ctx, url, nil, req)
	if err != nil {
		return errors.NewCloudError(c.cloud.Name, "authentication", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewCloudError(c.cloud.Name, "authentication", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return errors.NewCloudError(c.cloud.Name, "authentication",
			errors.NewHTTPError(resp.StatusCode, http.MethodPost, url, string(body)))
	}

	token := resp.Header.Get("X-Subject-Token")
	if token == "" {
		return errors.NewCloudError(c.cloud.Name, "authentication",
			fmt.Errorf("no subject token in response"))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return errors.NewCloudError(c.cloud.Name, "authentication",
			fmt.Errorf("failed to decode token response: %w", err))
	}

	c.token = token
	c.projectID = tokenResp.Token.Project.ID
	for _, entry := range tokenResp.Token.Catalog {
		for _, ep := range entry.Endpoints {
			if ep.Interface != c.cloud.Interface {
				continue
			}
			if c.cloud.RegionName != "" && ep.Region != c.cloud.RegionName {
				continue
			}
			if _, seen := c.endpoints[entry.Type]; !seen {
				c.endpoints[entry.Type] = ep.URL
			}
		}
	}
	return nil
}

// ProjectID returns the tenant id the credentials are scoped to.
func (c *Client) ProjectID(ctx context.Context) (string, error) {
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}
	if c.projectID == "" {
		return "", errors.NewCloudError(c.cloud.Name, "project lookup",
			fmt.Errorf("token carries no project scope"))
	}
	return c.projectID, nil
}

// endpoint resolves a catalog endpoint, authenticating first if needed.
// A missing container-infra endpoint is the "operation unsupported"
// condition with its own diagnostic; any other missing service is a
// plain provider error.
func (c *Client) endpoint(ctx context.Context, service string) (string, error) {
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}
	url, ok := c.endpoints[service]
	if !ok {
		if service == serviceContainerInfra {
			return "", errors.NewUnsupportedError(c.cloud.Name, "COE cluster operations",
				"no container-infra endpoint in the service catalog; ensure Magnum is deployed and current")
		}
		return "", errors.NewCloudError(c.cloud.Name, "endpoint lookup",
			fmt.Errorf("no %q endpoint in the service catalog", service))
	}
	return url, nil
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"X-Auth-Token": c.token}
}

// getJSON performs an authenticated GET and decodes the response.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := c.http.Get(ctx, url, c.authHeaders())
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
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// deleteURL performs an authenticated DELETE. A 404 maps to
// errors.ErrNotFound so callers can treat "already gone" as a
// non-fatal skip.
func (c *Client) deleteURL(ctx context.Context, url string) error {
	resp, err := c.http.Delete(ctx, url, c.authHeaders(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errors.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError(resp.StatusCode, http.MethodDelete, url, string(body))
	}
	return nil
}
