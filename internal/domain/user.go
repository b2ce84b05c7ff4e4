package domain

import "time"

// User roles
const (
	UserRoleSuperAdmin    = "superadmin"
	UserRoleAdmin         = "admin"
	UserRoleFacilityAdmin = "facility_admin"
	UserRoleStaff         = "staff"
	UserRoleReadOnly      = "readonly"
)

// Facility access statuses
const (
	AccessStatusPending  = "pending"
	AccessStatusApproved = "approved"
	AccessStatusDenied   = "denied"
)

// User application account (users table)
// Hashes follow the front-end convention:
//   account_hash  = sha256(lower(account))
//   password_hash = sha256(lower(account) + ":" + password)
type User struct {
	UserID       string `db:"user_id"` // UUID, PRIMARY KEY
	Account      string `db:"account"` // VARCHAR(100), NOT NULL, UNIQUE
	AccountHash  string `db:"account_hash"`  // hex sha256
	PasswordHash string `db:"password_hash"` // hex sha256
	Role         string `db:"role"`          // DEFAULT 'staff'
	Status       string `db:"status"`        // DEFAULT 'active'

	CreatedAt time.Time `db:"created_at"`
}

// IsAdmin true for roles that bypass facility access checks.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleSuperAdmin || u.Role == UserRoleAdmin
}

// FacilityAccess per-user facility grant (facility_access table)
// UNIQUE(user_id, facility_id)
type FacilityAccess struct {
	AccessID    string     `db:"access_id"`   // UUID, PRIMARY KEY
	UserID      string     `db:"user_id"`     // UUID, NOT NULL, FK users
	FacilityID  string     `db:"facility_id"` // UUID, NOT NULL, FK facilities
	Role        string     `db:"role"`        // DEFAULT 'staff'
	Status      string     `db:"status"`      // pending/approved/denied
	RequestedAt time.Time  `db:"requested_at"`
	ApprovedAt  *time.Time `db:"approved_at"`
}
