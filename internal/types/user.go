package types

// Role is the authorization role attached to a user record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the internal user record as held by the directory. It carries
// the password hash and must never cross the service boundary; callers
// get a PublicUser instead.
type User struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	BirthDate    string `json:"birthDate"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
}

// PublicUser is the sanitized view of a user record. Omission of the
// hash is structural: the type has no field to leak.
type PublicUser struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// Public returns the sanitized view of the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		BirthDate: u.BirthDate,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

// Identity is the authenticated principal derived from a verified token.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
