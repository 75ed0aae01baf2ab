package models

// User is a row of the users table. Password always holds an argon2id hash.
type User struct {
	Username  string `json:"username"`
	Password  string `json:"-"` // Never rendered or serialized
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
