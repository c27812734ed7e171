package domain

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
)

type Admin struct {
	ID      int64     `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	OrgCode string    `json:"ngo_code"`
	Role    AdminRole `json:"role"`
}

// Session is the authenticated admin context passed into every service call.
type Session struct {
	AdminID int64     `json:"admin_id"`
	Email   string    `json:"email"`
	OrgCode string    `json:"ngo_code"`
	Role    AdminRole `json:"role"`
}

func (s Session) IsSuperAdmin() bool {
	return s.Role == AdminRoleSuperAdmin
}
