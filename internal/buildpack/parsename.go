package buildpack

import (
	"strings"

	"github.com/pkg/errors"
)

// RegistryPrefix is the URN prefix a registry buildpack reference may carry.
const RegistryPrefix = "urn:cnb:registry:"

// ParseReference parses a buildpack reference of the form [urn:cnb:registry:]<id>[@<version>]
// into its lookup ID and requested version. If version is omitted, the version returned will be empty.
func ParseReference(reference string) (id string, version string) {
	parts := strings.SplitN(strings.TrimPrefix(reference, RegistryPrefix), "@", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// ParseRegistryID splits a registry reference into namespace, name and version.
func ParseRegistryID(reference string) (namespace string, name string, version string, err error) {
	id, version := ParseReference(reference)

	parts := strings.Split(id, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return parts[0], parts[1], version, nil
	}
	return parts[0], "", version, errors.Errorf("invalid registry ID: %s", reference)
}
