package users

// CreateUserInput is the payload for creating a user inside a tenant.
type CreateUserInput struct {
	ID       string `json:"id" validate:"required,min=1,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     string `json:"role" validate:"required,oneof=admin manager cashier viewer"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// UpdateUserInput carries a partial update; nil fields stay untouched.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Nickname *string `json:"nickname" validate:"omitempty,min=2,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager cashier viewer"`
}

func (in UpdateUserInput) empty() bool {
	return in.Name == nil && in.Nickname == nil && in.Phone == nil &&
		in.Email == nil && in.Role == nil
}

// SearchUsersInput mirrors the query string of the search endpoint. The
// tenant is deliberately absent: it always comes from the resolved context.
type SearchUsersInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin manager cashier viewer"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// View is the redacted user representation returned to clients. The
// credential digest is never part of it.
type View struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TenantID  string `json:"tenantId"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
}

// NewView redacts a user for transport.
func NewView(u User) View {
	return View{
		ID:        u.ID,
		Name:      u.Name,
		Nickname:  u.Nickname,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      u.Role,
		TenantID:  u.TenantID,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
