package driver

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Version is a server version. Only major and minor numbers select a
// translator layer.
type Version struct {
	Major int
	Minor int
}

// V is shorthand for Version{major, minor}.
func V(major, minor int) Version { return Version{Major: major, Minor: minor} }

// ParseVersion reads the leading "major[.minor]" of s. Vendor banners such
// as "PostgreSQL 16.2 on x86_64" and "8.0.36-0ubuntu0" are accepted.
func ParseVersion(s string) (Version, error) {
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return Version{}, fmt.Errorf("parse version %q: no digits", s)
	}
	rest := s[start:]
	end := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' })
	if end >= 0 {
		rest = rest[:end]
	}
	parts := strings.Split(strings.Trim(rest, "."), ".")
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	if len(parts) > 1 {
		if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
			return Version{}, fmt.Errorf("parse version %q: %w", s, err)
		}
	}
	return v, nil
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// AtLeast reports whether v is o or later.
func (v Version) AtLeast(o Version) bool { return !v.Less(o) }

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }
