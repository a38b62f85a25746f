package openstack

import (
	"context"
	"fmt"

	"lfreleng/internal/domain"
	"lfreleng/internal/errors"
)

type serversResponse struct {
	Servers []serverData `json:"servers"`
}

type serverData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

func (d serverData) toDomain() domain.Server {
	return domain.Server{Descriptor: domain.Descriptor{
		Name:      d.Name,
		ID:        d.ID,
		CreatedAt: d.Created,
	}}
}

// ListServers returns every compute instance visible to the project.
func (c *Client) ListServers(ctx context.Context) ([]domain.Server, error) {
	base, err := c.endpoint(ctx, serviceCompute)
	if err != nil {
		return nil, err
	}

	var resp serversResponse
	if err := c.getJSON(ctx, base+"/servers/detail", &resp); err != nil {
		return nil, errors.NewCloudError(c.cloud.Name, "server listing", err)
	}

	servers := make([]domain.Server, 0, len(resp.Servers))
	for _, s := range resp.Servers {
		servers = append(servers, s.toDomain())
	}
	return servers, nil
}

// GetServer looks a server up by exact name.
func (c *Client) GetServer(ctx context.Context, name string) (*domain.Server, error) {
	servers, err := c.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range servers {
		if s.Name == name {
			server := s
			return &server, nil
		}
	}
	return nil, fmt.Errorf("server %q: %w", name, errors.ErrNotFound)
}

// DeleteServer deletes a server by name, resolving the name to an id
// first. More than one match yields a DuplicateNameError.
func (c *Client) DeleteServer(ctx context.Context, name string) error {
	base, err := c.endpoint(ctx, serviceCompute)
	if err != nil {
		return err
	}

	id, err := c.resolveServerID(ctx, name)
	if err != nil {
		return err
	}
	return c.deleteURL(ctx, fmt.Sprintf("%s/servers/%s", base, id))
}

func (c *Client) resolveServerID(ctx context.Context, name string) (string, error) {
	servers, err := c.ListServers(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range servers {
		if s.Name == name {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("server %q: %w", name, errors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewDuplicateNameError(domain.KindServer, name)
	}
}
