package types

import (
	"errors"
	"fmt"
	"strings"
)

// Requirement references an upstream package by name, version, and
// publishing origin (user and channel). Resolution belongs to whoever
// consumes the declaration; this package only records it.
type Requirement struct {
	Name    string
	Version string
	User    string
	Channel string
}

// ErrRequirementMalformed is returned for references not of the form
// name/version@user/channel.
var ErrRequirementMalformed = errors.New("malformed requirement reference")

// ParseRequirement parses a canonical reference such as
// "conan_cmake/0.1.0@azriel91/stable".
func ParseRequirement(ref string) (Requirement, error) {
	ident, origin, ok := strings.Cut(strings.TrimSpace(ref), "@")
	if !ok {
		return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementMalformed, ref)
	}
	name, version, ok1 := strings.Cut(ident, "/")
	user, channel, ok2 := strings.Cut(origin, "/")
	r := Requirement{Name: name, Version: version, User: user, Channel: channel}
	if !ok1 || !ok2 || r.Validate() != nil {
		return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementMalformed, ref)
	}
	return r, nil
}

// Validate reports ErrRequirementMalformed when any part is empty or
// contains a reference separator.
func (r Requirement) Validate() error {
	for _, part := range []string{r.Name, r.Version, r.User, r.Channel} {
		if part == "" || strings.ContainsAny(part, "/@ ") {
			return ErrRequirementMalformed
		}
	}
	return nil
}

// Origin returns the publishing origin, user/channel.
func (r Requirement) Origin() string {
	return r.User + "/" + r.Channel
}

// String returns the canonical name/version@user/channel form.
func (r Requirement) String() string {
	return r.Name + "/" + r.Version + "@" + r.Origin()
}

// MarshalText implements encoding.TextMarshaler so requirements serialize as
// their canonical reference.
func (r Requirement) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Requirement) UnmarshalText(text []byte) error {
	parsed, err := ParseRequirement(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
