package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Hash      string `db:"password_hash"`
	Role      string `db:"role"`
	CreatedAt string `db:"created_at"`
}

// UserRef is the embedded owner/participant shape returned inside other
// documents (never carries the hash).
type UserRef struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// Public is the shape returned by /api/auth endpoints.
type Public struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
