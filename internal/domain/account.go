package domain

// Role enumerates the account roles recognized by the service.
type Role string

const (
	RoleStudent     Role = "student"
	RoleFaculty     Role = "faculty"
	RoleAdmin       Role = "admin"
	RoleMaintenance Role = "maintenance"
)

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin, RoleMaintenance:
		return true
	}
	return false
}

// Account is the stored record for anyone who can sign in: students and
// faculty who report issues, maintenance staff, and administrators.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// SanitizedAccount is the password-stripped projection handed to callers.
type SanitizedAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Sanitize strips the credential field.
func (a Account) Sanitize() SanitizedAccount {
	return SanitizedAccount{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  a.Role,
	}
}
