package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleDealer   UserRole = "DEALER"
	UserRoleOperator UserRole = "OPERATOR"
)

// Principal is the authenticated caller taken from the access token.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsDealer() bool {
	return p.Role == UserRoleDealer
}

// CanRegisterVehicles reports whether the principal may create vehicles.
func (p Principal) CanRegisterVehicles() bool {
	return p.IsAdmin() || p.IsDealer()
}
