package domain

// Descriptor is the read-only snapshot every cloud resource kind shares.
// It is constructed once at the listing boundary and never mutated.
type Descriptor struct {
	Name      string
	ID        string
	CreatedAt string // raw provider timestamp, see ParseCreated
}

// ResourceName returns the provider-unique name of the resource.
func (d Descriptor) ResourceName() string { return d.Name }

// ResourceID returns the stable identifier of the resource.
func (d Descriptor) ResourceID() string { return d.ID }

// Created returns the raw creation timestamp as reported by the provider.
func (d Descriptor) Created() string { return d.CreatedAt }

// Resource is the common read surface the cleanup pipeline operates on.
type Resource interface {
	ResourceName() string
	ResourceID() string
	Created() string
}

// Server is a compute instance.
type Server struct {
	Descriptor
}

// Volume is a block-storage volume.
type Volume struct {
	Descriptor
}

// Visibility is the image visibility reported by the image service.
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityPublic    Visibility = "public"
	VisibilityShared    Visibility = "shared"
	VisibilityCommunity Visibility = "community"
)

// Image is a machine image. Ownership and protection flags drive the
// image-specific cleanup policy.
type Image struct {
	Descriptor
	Owner      string
	Visibility Visibility
	Protected  bool
}

// Cluster is a container-orchestration-engine cluster.
type Cluster struct {
	Descriptor
}

// Kind names used in diagnostics and duplicate-name errors.
const (
	KindServer  = "Server"
	KindVolume  = "Volume"
	KindImage   = "Image"
	KindCluster = "Cluster"
)
