package model

import "time"

// UserAccount is a staff or jury account with a role assignment.
// Role changes are free-form: any account with the assign-roles capability
// may move any account to any role. There is no approval workflow.
type UserAccount struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by,omitempty"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Role constants
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleJury       = "jury"
	RoleUser       = "user"
)

// AccountStatus constants
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleJury, RoleUser:
		return true
	}
	return false
}

// CanAssignRoles reports whether an account with the given role may change
// other accounts' roles.
func CanAssignRoles(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// CanManageContent reports whether the role may create and edit activities.
func CanManageContent(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// CreateAccountRequest represents a request to create a staff account.
type CreateAccountRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=200"`
	Role        string `json:"role" validate:"required"`
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Role        *string `json:"role,omitempty"`
	Status      *string `json:"status,omitempty"`
}
