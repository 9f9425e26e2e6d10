package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// VersionMarker separates the tag namespace from the version number.
const VersionMarker = "v"

// DefaultTagNamespace is the namespace used when none is configured.
const DefaultTagNamespace = "bsr/vers"

// Version is a published ledger version.
type Version int

// String returns the decimal form of the version.
func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// Next returns the version that follows v.
func (v Version) Next() Version {
	return v + 1
}

// ParseVersion parses a user supplied version number.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrVersionNotSpecified
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidVersion, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidVersion, n)
	}
	return Version(n), nil
}

// TagScheme maps versions to tag names and back. Both directions are derived
// from the same prefix.
type TagScheme struct {
	prefix  string
	matcher *regexp.Regexp
}

// NewTagScheme creates a TagScheme for the given namespace, e.g. "bsr/vers"
// yields tags like "bsr/vers/v3".
func NewTagScheme(namespace string) TagScheme {
	namespace = strings.TrimSuffix(namespace, "/")
	prefix := namespace + "/" + VersionMarker
	return TagScheme{
		prefix:  prefix,
		matcher: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(0|[1-9][0-9]*)$`),
	}
}

// Prefix returns the literal part of every tag name.
func (s TagScheme) Prefix() string {
	return s.prefix
}

// TagName returns the tag name for a version.
func (s TagScheme) TagName(v Version) string {
	return s.prefix + v.String()
}

// Parse extracts the version from a tag name. The second result is false when
// the name does not follow the scheme exactly.
func (s TagScheme) Parse(name string) (Version, bool) {
	m := s.matcher.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return Version(n), true
}

// Versions collects the versions of all matching tag names.
func (s TagScheme) Versions(names []string) VersionSet {
	vers := make([]Version, 0, len(names))
	for _, name := range names {
		if v, ok := s.Parse(name); ok {
			vers = append(vers, v)
		}
	}
	return NewVersionSet(vers...)
}

// VersionSet is a set of versions ordered from newest to oldest.
type VersionSet []Version

// NewVersionSet returns the de-duplicated versions sorted descending.
func NewVersionSet(vers ...Version) VersionSet {
	set := slices.Clone(vers)
	slices.SortFunc(set, func(a, b Version) int { return int(b) - int(a) })
	return VersionSet(slices.Compact(set))
}

// Latest returns the highest version, or false when the set is empty.
func (vs VersionSet) Latest() (Version, bool) {
	if len(vs) == 0 {
		return 0, false
	}
	return vs[0], true
}

// Contains reports whether v is in the set.
func (vs VersionSet) Contains(v Version) bool {
	return slices.Contains(vs, v)
}

// Difference returns the versions of vs that are not in other.
func (vs VersionSet) Difference(other VersionSet) VersionSet {
	var out VersionSet
	for _, v := range vs {
		if !other.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// AtOrBelow returns the versions less than or equal to bound.
func (vs VersionSet) AtOrBelow(bound Version) VersionSet {
	var out VersionSet
	for _, v := range vs {
		if v <= bound {
			out = append(out, v)
		}
	}
	return out
}
