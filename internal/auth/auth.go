// Package auth authenticates API callers with static keys. Each key names a subject and its roles.
package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	// RoleAnalyst may ask questions and run read statements.
	RoleAnalyst = "analyst"
	// RoleOperator holds every analyst permission and may run mutations, read the ask history and
	// trigger maintenance.
	RoleOperator = "operator"
)

var knownRoles = []string{RoleAnalyst, RoleOperator}

type Identity struct {
	Subject string
	Roles   []string
}

func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// Allows reports whether the identity may act with role.
func (i Identity) Allows(role string) bool {
	return i.HasRole(role) || i.HasRole(RoleOperator)
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Identity, bool)
}

// StaticAPIKeyValidator holds keys parsed from ASKDATA_AUTH_STATIC_KEYS.
type StaticAPIKeyValidator struct {
	keys map[string]Identity
}

// NewStaticAPIKeyValidator parses "key:subject:role|role,..." entries. Roles must be analyst or
// operator and a key may appear once.
func NewStaticAPIKeyValidator(spec string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{keys: map[string]Identity{}}
	for entry := range strings.SplitSeq(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, identity, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		if _, exists := validator.keys[key]; exists {
			return nil, fmt.Errorf("duplicate static key for subject %q", identity.Subject)
		}
		validator.keys[key] = identity
	}
	return validator, nil
}

func parseEntry(entry string) (string, Identity, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 3 {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: expected key:subject:role|role", entry)
	}
	key := strings.TrimSpace(parts[0])
	subject := strings.TrimSpace(parts[1])
	if key == "" || subject == "" {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: empty key/subject", entry)
	}

	var roles []string
	for role := range strings.SplitSeq(parts[2], "|") {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" || slices.Contains(roles, role) {
			continue
		}
		if !slices.Contains(knownRoles, role) {
			return "", Identity{}, fmt.Errorf("invalid static key entry for %q: unknown role %q", subject, role)
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: at least one role is required", entry)
	}
	slices.Sort(roles)
	return key, Identity{Subject: subject, Roles: roles}, nil
}

func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Identity, bool) {
	identity, ok := v.keys[apiKey]
	return identity, ok
}
