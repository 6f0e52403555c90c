package dto

// RegisterRequest is the public self-registration payload. Role is always
// "employee"; staff roles are assigned by an admin via CreateUserRequest.
type RegisterRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"  validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=8"`
	Site       string `json:"site"       validate:"required"`
	Department string `json:"department" validate:"required"`
}

type CreateUserRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"  validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=8"`
	Role       string `json:"role"       validate:"required,oneof=employee admin secretary caterer"`
	Site       string `json:"site"       validate:"required"`
	Department string `json:"department" validate:"required"`
}

// UpdateUserRequest: zero values mean "leave unchanged".
type UpdateUserRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"       validate:"omitempty,oneof=employee admin secretary caterer"`
	Site       string `json:"site"`
	Department string `json:"department"`
	Password   string `json:"password"   validate:"omitempty,min=8"`
}

type UserResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Site       string `json:"site"`
	Department string `json:"department"`
	DarkTheme  bool   `json:"dark_theme"`
	Active     bool   `json:"active"`
}
