package enums

import (
	"fmt"
	"strings"
)

// Role identifies which dashboard surface an authenticated identity may use.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleVendor Role = "VENDOR"
	RoleAdmin  Role = "ADMIN"
	RoleExpert Role = "EXPERT"
)

var validRoles = []Role{
	RoleBuyer,
	RoleVendor,
	RoleAdmin,
	RoleExpert,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	// The upstream login endpoints disagree on the buyer label.
	if normalized == "USER" {
		normalized = string(RoleBuyer)
	}
	for _, candidate := range validRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
