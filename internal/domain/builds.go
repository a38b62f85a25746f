package domain

import "strings"

// ActiveBuildSet holds the <silo>-<job>-<buildnum> tokens of builds
// currently running across the configured build systems. It is built
// once per cleanup run and read-only afterwards.
type ActiveBuildSet []string

// InUse reports whether name occurs anywhere in the concatenated token
// set. Substring matching is deliberate: build tokens embed the cluster
// name rather than equal it.
func (s ActiveBuildSet) InUse(name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.Join(s, " "), name)
}
