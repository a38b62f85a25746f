// Package cleanup implements the Lister → Filter → Deleter → Reporter
// pipeline shared by every resource kind. Filters are independent
// predicates combined with logical AND; a resource is deleted if and
// only if every applicable predicate passes.
package cleanup

import (
	"fmt"
	"strings"
	"time"

	"lfreleng/internal/domain"
)

// Predicate decides whether one resource is eligible for deletion.
// When it is not, reason explains the policy skip for the report.
type Predicate func(r domain.Resource) (eligible bool, reason string)

// Eligible evaluates all predicates conjunctively. The first failing
// predicate supplies the reason; order affects only which reason is
// reported, never membership in the candidate set.
func Eligible(r domain.Resource, preds ...Predicate) (bool, string) {
	for _, p := range preds {
		if ok, reason := p(r); !ok {
			return false, reason
		}
	}
	return true, ""
}

// Clusters carrying these substrings are long-lived managed
// infrastructure and permanently exempt from cleanup.
var managedClusterMarkers = []string{
	"-managed-prod-k8s-",
	"-managed-test-k8s-",
}

// MinAge passes resources created at or before now-threshold. The
// boundary is inclusive: a resource exactly threshold old is eligible.
// A zero threshold disables the check. A timestamp that does not parse
// keeps the resource (never delete what cannot be dated).
func MinAge(threshold time.Duration, now func() time.Time) Predicate {
	if now == nil {
		now = time.Now
	}
	return func(r domain.Resource) (bool, string) {
		if threshold == 0 {
			return true, ""
		}
		created, err := domain.ParseCreated(r.Created())
		if err != nil {
			return false, fmt.Sprintf("unparseable creation time %q", r.Created())
		}
		if now().UTC().Sub(created) >= threshold {
			return true, ""
		}
		return false, fmt.Sprintf("younger than %s", threshold)
	}
}

// ImagePolicy excludes images that are not plainly ours to delete:
// public, shared or community visibility, the protected flag, or an
// owner other than the current tenant.
func ImagePolicy(projectID string) Predicate {
	return func(r domain.Resource) (bool, string) {
		img, ok := r.(domain.Image)
		if !ok {
			return true, ""
		}
		if img.Protected {
			return false, "image is protected"
		}
		if img.Visibility != domain.VisibilityPrivate {
			return false, fmt.Sprintf("image visibility is %s", img.Visibility)
		}
		if img.Owner != projectID {
			return false, fmt.Sprintf("image owned by %s", img.Owner)
		}
		return true, ""
	}
}

// ManagedExemption excludes clusters whose names mark them as
// long-lived managed infrastructure.
func ManagedExemption() Predicate {
	return func(r domain.Resource) (bool, string) {
		for _, marker := range managedClusterMarkers {
			if strings.Contains(r.ResourceName(), marker) {
				return false, "managed cluster"
			}
		}
		return true, ""
	}
}

// NotInUse excludes resources referenced by a currently running build.
func NotInUse(active domain.ActiveBuildSet) Predicate {
	return func(r domain.Resource) (bool, string) {
		if active.InUse(r.ResourceName()) {
			return false, "in use by an active build"
		}
		return true, ""
	}
}
