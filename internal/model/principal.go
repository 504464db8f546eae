package model

import "time"

// Role is a profile's storefront role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleOwner    Role = "owner"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName,omitempty"`
}

// IsStaff reports whether the principal may act on the kitchen board.
func (p *Principal) IsStaff() bool {
	return p != nil && (p.Role == RoleEmployee || p.Role == RoleOwner)
}

// IsOwner reports whether the principal may see financials and edit the menu.
func (p *Principal) IsOwner() bool {
	return p != nil && p.Role == RoleOwner
}

// Profile is the stored account row a principal is resolved from.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
