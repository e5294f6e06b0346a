package model

import "time"

// Role: "admin" | "supervisor" | "cashier"
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleCashier    Role = "cashier"
)

// User has no stored credential. The set is fixed and reseeded at startup.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// SeedUsers returns the three demo accounts stamped with createdAt.
func SeedUsers(createdAt time.Time) []User {
	return []User{
		{ID: "1", Username: "admin", Email: "admin@sistema.com", Role: RoleAdmin, IsActive: true, CreatedAt: createdAt},
		{ID: "2", Username: "supervisor", Email: "supervisor@sistema.com", Role: RoleSupervisor, IsActive: true, CreatedAt: createdAt},
		{ID: "3", Username: "vendedor", Email: "vendedor@sistema.com", Role: RoleCashier, IsActive: true, CreatedAt: createdAt},
	}
}
