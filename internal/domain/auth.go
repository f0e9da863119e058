package domain

import "context"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

type Principal struct {
	Subject string
	Role    Role
}

// Authorizer validates a bearer token and checks it carries the required role.
type Authorizer interface {
	Authorize(ctx context.Context, token string, role Role) (*Principal, error)
}
