package accounts

import "time"

// Role identifies the kind of principal behind an account or session.
type Role string

const (
	RoleStudent Role = "student"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
)

// VerificationStatus tracks where a user account is in the admin review flow.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// UserAccount represents a registered student or student-driver.
type UserAccount struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"full_name"`
	Phone              string             `json:"phone"`
	Email              string             `json:"email"`
	Role               Role               `json:"role"`
	Password           string             `json:"-"`
	Verified           bool               `json:"verified"`
	Status             VerificationStatus `json:"status"`
	StudentIDImage     string             `json:"student_id_image"`
	DriverLicenseImage string             `json:"driver_license_image,omitempty"`
	VehicleType        string             `json:"vehicle_type,omitempty"`
	PlateNumber        string             `json:"plate_number,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	ReviewedAt         *time.Time         `json:"reviewed_at,omitempty"`
}

// IsDriver reports whether the account carries driver documents.
func (u UserAccount) IsDriver() bool {
	return u.Role == RoleDriver
}

// AdminAccount is an operator allowed to review registrations.
type AdminAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the single authenticated principal held by the store.
// User is a snapshot copy and is only populated for student and driver sessions.
type Session struct {
	ID          string      `json:"session_id"`
	Role        Role        `json:"role"`
	PrincipalID string      `json:"principal_id"`
	Username    string      `json:"username,omitempty"`
	User        UserAccount `json:"-"`
	StartedAt   time.Time   `json:"started_at"`
}

// IsAdmin reports whether the session belongs to an admin.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Credentials is the login form: an admin username or a user email plus password.
type Credentials struct {
	Identifier string
	Password   string
}

// StudentRegistration carries the fields submitted by the student sign-up form.
type StudentRegistration struct {
	FullName       string
	Phone          string
	Email          string
	Password       string
	StudentIDImage string
}

// DriverRegistration carries the student-driver sign-up form.
type DriverRegistration struct {
	StudentRegistration
	DriverLicenseImage string
	VehicleType        string
	PlateNumber        string
}

// ProfilePatch lists the editable profile fields. Nil fields are left untouched.
type ProfilePatch struct {
	FullName           *string `json:"full_name"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	StudentIDImage     *string `json:"student_id_image"`
	DriverLicenseImage *string `json:"driver_license_image"`
	VehicleType        *string `json:"vehicle_type"`
	PlateNumber        *string `json:"plate_number"`
}

// Stats summarises the registry for health and admin views.
type Stats struct {
	Users         int  `json:"users"`
	Pending       int  `json:"pending"`
	Approved      int  `json:"approved"`
	Rejected      int  `json:"rejected"`
	Admins        int  `json:"admins"`
	SessionActive bool `json:"session_active"`
}
