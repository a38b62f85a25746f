package openstack

import (
	"context"
	"fmt"

	"lfreleng/internal/domain"
	"lfreleng/internal/errors"
)

type imagesResponse struct {
	Images []imageData `json:"images"`
}

type imageData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Visibility string `json:"visibility"`
	Protected  bool   `json:"protected"`
	CreatedAt  string `json:"created_at"`
}

func (d imageData) toDomain() domain.Image {
	return domain.Image{
		Descriptor: domain.Descriptor{
			Name:      d.Name,
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
		},
		Owner:      d.Owner,
		Visibility: domain.Visibility(d.Visibility),
		Protected:  d.Protected,
	}
}

// ListImages returns every image visible to the project, public and
// shared ones included; the cleanup policy filters those out later.
func (c *Client) ListImages(ctx context.Context) ([]domain.Image, error) {
	base, err := c.endpoint(ctx, serviceImage)
	if err != nil {
		return nil, err
	}

	var resp imagesResponse
	if err := c.getJSON(ctx, base+"/v2/images", &resp); err != nil {
		return nil, errors.NewCloudError(c.cloud.Name, "image listing", err)
	}

	images := make([]domain.Image, 0, len(resp.Images))
	for _, img := range resp.Images {
		images = append(images, img.toDomain())
	}
	return images, nil
}

// DeleteImage deletes an image by name, resolving the name to an id
// first. More than one match yields a DuplicateNameError.
func (c *Client) DeleteImage(ctx context.Context, name string) error {
	base, err := c.endpoint(ctx, serviceImage)
	if err != nil {
		return err
	}

	images, err := c.ListImages(ctx)
	if err != nil {
		return err
	}

	var matches []string
	for _, img := range images {
		if img.Name == name {
			matches = append(matches, img.ID)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("image %q: %w", name, errors.ErrNotFound)
	case 1:
		return c.deleteURL(ctx, fmt.Sprintf("%s/v2/images/%s", base, matches[0]))
	default:
		return errors.NewDuplicateNameError(domain.KindImage, name)
	}
}
