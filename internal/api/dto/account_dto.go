package dto

import "github.com/ejcents/schoolfix-minicapstone/internal/domain"

// CreateMaintenanceAccountRequest payload for admin-created staff accounts.
type CreateMaintenanceAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse is the sanitized account projection.
type AccountResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AccountResponseFrom converts a sanitized directory entry.
func AccountResponseFrom(account domain.SanitizedAccount) AccountResponse {
	return AccountResponse{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}
}
