package tenancy

// CreateTenantInput is the payload for registering a tenant.
type CreateTenantInput struct {
	ID               string `json:"id" validate:"required,min=3,max=50,tenantid"`
	Name             string `json:"name" validate:"required,min=1,max=100"`
	BusinessName     string `json:"businessName" validate:"required,min=1,max=150"`
	OwnerName        string `json:"ownerName" validate:"required,min=1,max=100"`
	OwnerEmail       string `json:"ownerEmail" validate:"required,email,max=255"`
	Phone            string `json:"phone" validate:"omitempty,max=30"`
	Address          string `json:"address" validate:"omitempty,max=255"`
	TaxID            string `json:"taxId" validate:"omitempty,max=50"`
	SubscriptionPlan string `json:"subscriptionPlan" validate:"omitempty,max=50"`
}

// UpdateTenantInput carries a partial update; nil fields stay untouched.
type UpdateTenantInput struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	BusinessName     *string `json:"businessName" validate:"omitempty,min=1,max=150"`
	OwnerName        *string `json:"ownerName" validate:"omitempty,min=1,max=100"`
	OwnerEmail       *string `json:"ownerEmail" validate:"omitempty,email,max=255"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	Address          *string `json:"address" validate:"omitempty,max=255"`
	TaxID            *string `json:"taxId" validate:"omitempty,max=50"`
	SubscriptionPlan *string `json:"subscriptionPlan" validate:"omitempty,max=50"`
	Status           *string `json:"status" validate:"omitempty,oneof=active suspended cancelled"`
}

// SearchTenantsInput mirrors the query string of the tenant search endpoint.
type SearchTenantsInput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerEmail string `json:"ownerEmail"`
	Status     string `json:"status" validate:"omitempty,oneof=active suspended cancelled"`
	Plan       string `json:"subscriptionPlan"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func (in UpdateTenantInput) empty() bool {
	return in.Name == nil && in.BusinessName == nil && in.OwnerName == nil &&
		in.OwnerEmail == nil && in.Phone == nil && in.Address == nil &&
		in.TaxID == nil && in.SubscriptionPlan == nil && in.Status == nil
}
