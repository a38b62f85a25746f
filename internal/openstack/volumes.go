package openstack

import (
	"context"
	"fmt"
	"net/http"

	"lfreleng/internal/domain"
	"lfreleng/internal/errors"
)

type volumesResponse struct {
	Volumes []volumeData `json:"volumes"`
}

type volumeResponse struct {
	Volume volumeData `json:"volume"`
}

type volumeData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (d volumeData) toDomain() domain.Volume {
	return domain.Volume{Descriptor: domain.Descriptor{
		Name:      d.Name,
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
	}}
}

// ListVolumes returns every block-storage volume in the project.
func (c *Client) ListVolumes(ctx context.Context) ([]domain.Volume, error) {
	base, err := c.endpoint(ctx, serviceBlockStorage)
	if err != nil {
		return nil, err
	}

	var resp volumesResponse
	if err := c.getJSON(ctx, base+"/volumes/detail", &resp); err != nil {
		return nil, errors.NewCloudError(c.cloud.Name, "volume listing", err)
	}

	volumes := make([]domain.Volume, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		volumes = append(volumes, v.toDomain())
	}
	return volumes, nil
}

// GetVolume looks a volume up by id.
func (c *Client) GetVolume(ctx context.Context, id string) (*domain.Volume, error) {
	base, err := c.endpoint(ctx, serviceBlockStorage)
	if err != nil {
		return nil, err
	}

	var resp volumeResponse
	err = c.getJSON(ctx, fmt.Sprintf("%s/volumes/%s", base, id), &resp)
	if err != nil {
		if errors.IsHTTPStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("volume %q: %w", id, errors.ErrNotFound)
		}
		return nil, errors.NewCloudError(c.cloud.Name, "volume lookup", err)
	}

	volume := resp.Volume.toDomain()
	return &volume, nil
}

// DeleteVolume deletes a volume by id. Volumes are the one kind deleted
// by id rather than name: volume names are commonly empty or reused.
func (c *Client) DeleteVolume(ctx context.Context, id string) error {
	base, err := c.endpoint(ctx, serviceBlockStorage)
	if err != nil {
		return err
	}
	return c.deleteURL(ctx, fmt.Sprintf("%s/volumes/%s", base, id))
}
