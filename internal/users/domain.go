package users

import "time"

// User represents a point-of-sale account scoped to exactly one tenant.
// Deletion is logical: Active flips to false and the row stays behind, so
// uniqueness of (id, tenant) and (email, tenant) applies to active rows only.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	Active    bool      `json:"active"`
	TenantID  string    `json:"tenantId"`

	// PasswordHash never leaves the repository layer.
	PasswordHash string `json:"-"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// SearchFilters combine with logical AND. TenantID is always set by the
// caller from the gate-resolved tenant and cannot be overridden by request
// input.
type SearchFilters struct {
	ID       string
	Name     string
	Email    string
	Role     string
	TenantID string
	Page     int
	Limit    int
}

// SearchResult is a page of matching users plus pagination metadata.
type SearchResult struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
