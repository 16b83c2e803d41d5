package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrUnsupportedVersion is returned when the host's mdbook version falls
// outside the supported range.
var ErrUnsupportedVersion = errors.New("unsupported mdbook version")

// CheckVersion reports whether hostVersion satisfies constraint, e.g.
// ">= 0.4.0, < 0.5.0". A leading "v" on the version is tolerated.
func CheckVersion(hostVersion, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(hostVersion, "v"))
	if err != nil {
		return fmt.Errorf("parsing mdbook version %q: %w", hostVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, constraint)
	}
	return nil
}
