package domain

import "context"

// CloudProvider is the provider-facing surface of the cleanup tooling.
// Implementations map provider responses into the typed records above
// at the listing boundary; nothing downstream touches provider payloads.
type CloudProvider interface {
	// Cloud returns the configured cloud name, used in diagnostics.
	Cloud() string

	ListServers(ctx context.Context) ([]Server, error)
	ListVolumes(ctx context.Context) ([]Volume, error)
	ListImages(ctx context.Context) ([]Image, error)
	ListClusters(ctx context.Context) ([]Cluster, error)

	// GetServer looks a server up by name. A missing server yields
	// errors.ErrNotFound.
	GetServer(ctx context.Context, name string) (*Server, error)
	// GetVolume looks a volume up by id. A missing volume yields
	// errors.ErrNotFound.
	GetVolume(ctx context.Context, id string) (*Volume, error)

	// Deletes by name resolve the name to an id first; more than one
	// match yields a DuplicateNameError. Volumes are deleted by id.
	DeleteServer(ctx context.Context, name string) error
	DeleteVolume(ctx context.Context, id string) error
	DeleteImage(ctx context.Context, name string) error
	DeleteCluster(ctx context.Context, name string) error

	// ProjectID resolves the tenant the credentials are scoped to,
	// used by the image ownership predicate.
	ProjectID(ctx context.Context) (string, error)
}

// BuildSource collects the identifiers of builds currently running on
// external build systems.
type BuildSource interface {
	ActiveBuilds(ctx context.Context, endpoints []string) ActiveBuildSet
}
