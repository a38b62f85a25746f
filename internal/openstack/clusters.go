package openstack

import (
	"context"
	"fmt"

	"lfreleng/internal/domain"
	"lfreleng/internal/errors"
)

type clustersResponse struct {
	Clusters []clusterData `json:"clusters"`
}

type clusterData struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (d clusterData) toDomain() domain.Cluster {
	return domain.Cluster{Descriptor: domain.Descriptor{
		Name:      d.Name,
		ID:        d.UUID,
		CreatedAt: d.CreatedAt,
	}}
}

// ListClusters returns every COE cluster in the project. A cloud
// without a container-infra service yields an UnsupportedError.
func (c *Client) ListClusters(ctx context.Context) ([]domain.Cluster, error) {
	base, err := c.endpoint(ctx, serviceContainerInfra)
	if err != nil {
		return nil, err
	}

	var resp clustersResponse
	if err := c.getJSON(ctx, base+"/v1/clusters", &resp); err != nil {
		return nil, errors.NewCloudError(c.cloud.Name, "cluster listing", err)
	}

	clusters := make([]domain.Cluster, 0, len(resp.Clusters))
	for _, cl := range resp.Clusters {
		clusters = append(clusters, cl.toDomain())
	}
	return clusters, nil
}

// DeleteCluster deletes a COE cluster by name, resolving the name to a
// uuid first. More than one match yields a DuplicateNameError.
func (c *Client) DeleteCluster(ctx context.Context, name string) error {
	base, err := c.endpoint(ctx, serviceContainerInfra)
	if err != nil {
		return err
	}

	clusters, err := c.ListClusters(ctx)
	if err != nil {
		return err
	}

	var matches []string
	for _, cl := range clusters {
		if cl.Name == name {
			matches = append(matches, cl.ID)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("cluster %q: %w", name, errors.ErrNotFound)
	case 1:
		return c.deleteURL(ctx, fmt.Sprintf("%s/v1/clusters/%s", base, matches[0]))
	default:
		return errors.NewDuplicateNameError(domain.KindCluster, name)
	}
}
