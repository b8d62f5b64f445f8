package buildpack

import (
	"context"
	"fmt"
	"io"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/registry"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

// ErrNoVersions is reported when the registry lists no versions for a buildpack.
var ErrNoVersions = errors.New("no versions published")

// RegistryFetchError is returned when the registry record of a buildpack could not be fetched.
type RegistryFetchError struct {
	ID  string
	Err error
}

func (e *RegistryFetchError) Error() string {
	return fmt.Sprintf("fetching buildpack %s: %s", style.Symbol(e.ID), e.Err)
}

func (e *RegistryFetchError) Unwrap() error {
	return e.Err
}

// NoCompatibleStacksError is returned when the latest version of a buildpack declares no stacks.
type NoCompatibleStacksError struct {
	ID string
}

func (e *NoCompatibleStacksError) Error() string {
	return fmt.Sprintf("buildpack %s declares no compatible stacks", style.Symbol(e.ID))
}

// Fetcher retrieves the registry record of a normalized buildpack id.
type Fetcher interface {
	FetchInfo(ctx context.Context, buildpackID string) (registry.Record, error)
}

// Resolver fills in the version and compatible stacks of buildpacks.
type Resolver struct {
	fetcher Fetcher
	logger  logging.Logger
}

// NewResolver creates a Resolver backed by fetcher. A nil logger discards notices.
func NewResolver(fetcher Fetcher, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewLogWithWriters(io.Discard, io.Discard)
	}
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve fetches the registry record for bp and sets its ID, Version and CompatibleStacks.
//
// The requested version is taken from an @version suffix on the reference, or from bp.Version
// when the reference carries none. A requested version the registry does not list is replaced
// with the registry's latest version and a warning is logged. On error bp keeps whatever it
// held before the call apart from ID.
func (r *Resolver) Resolve(ctx context.Context, bp *Buildpack) error {
	id, requested := ParseReference(bp.URI)
	if id == "" {
		return errors.Errorf("buildpack reference %s has no id", style.Symbol(bp.URI))
	}
	if requested == "" {
		requested = bp.Version
	}
	bp.ID = id

	r.logger.Debugf("Resolving buildpack %s", style.Symbol(id))
	record, err := r.fetcher.FetchInfo(ctx, id)
	if err != nil {
		return &RegistryFetchError{ID: id, Err: err}
	}

	versions := record.VersionList()
	if len(versions) == 0 {
		return errors.Wrapf(ErrNoVersions, "buildpack %s", style.Symbol(id))
	}

	version := versions[0]
	if requested != "" {
		if contains(versions, requested) {
			version = requested
		} else {
			r.logger.Warnf("Version %s of buildpack %s was not found in the registry, %s %s",
				style.Symbol(requested), style.Symbol(id), substitution(requested, version), style.Symbol(version))
		}
	}

	stacks, ok := record.Stacks()
	if !ok || len(stacks) == 0 {
		return &NoCompatibleStacksError{ID: id}
	}

	bp.Version = version
	bp.CompatibleStacks = stacks
	r.logger.Debugf("Resolved buildpack %s to version %s with stacks %s", style.Symbol(id), style.Symbol(version), style.List(stacks))
	return nil
}

// substitution describes the direction of a version fallback.
func substitution(requested, substitute string) string {
	want, err := semver.NewVersion(requested)
	if err != nil {
		return "substituted with"
	}
	got, err := semver.NewVersion(substitute)
	if err != nil {
		return "substituted with"
	}

	switch {
	case got.LessThan(want):
		return "downgraded to"
	case got.GreaterThan(want):
		return "upgraded to"
	default:
		return "substituted with"
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
