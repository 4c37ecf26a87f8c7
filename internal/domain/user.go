package domain

// Role decides discounts and admin access.
type Role string

const (
	RoleUser      Role = "user"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

// User is the signed-in identity.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	// Local identities were synthesized without the auth backend and write to the
	// in-memory catalog only.
	Local bool `json:"local,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsCollector() bool {
	return u != nil && u.Role == RoleCollector
}
