package tenancy

import "time"

// Tenant statuses. Only active tenants may be resolved for requests.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// Tenant represents an isolated organization. Tenants themselves are global,
// not tenant-scoped.
type Tenant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BusinessName     string    `json:"businessName"`
	OwnerName        string    `json:"ownerName"`
	OwnerEmail       string    `json:"ownerEmail"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	TaxID            string    `json:"taxId,omitempty"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SearchFilters combine with logical AND. Zero-valued fields are skipped.
type SearchFilters struct {
	ID         string
	Name       string
	OwnerEmail string
	Status     string
	Plan       string
	Page       int
	Limit      int
}

// SearchResult is a page of matching tenants plus pagination metadata.
type SearchResult struct {
	Tenants    []Tenant `json:"tenants"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// ValidStatus reports whether a status belongs to the closed enumeration.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusSuspended, StatusCancelled:
		return true
	}
	return false
}
