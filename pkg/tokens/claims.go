package tokens

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of account roles carried in access tokens.
type Role string

const (
	RoleOwner    Role = "Owner"
	RoleCustomer Role = "Customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type AccessClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
