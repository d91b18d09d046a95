package models

// Account represents a registered user in the system. The JSON field names
// match the on-disk users file layout.
type Account struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	HashedPassword string `json:"hashed_password,omitempty"`
	Disabled       bool   `json:"disabled"`
}

// Sanitized returns a copy of the account safe to send to clients.
func (a Account) Sanitized() Account {
	a.HashedPassword = ""
	return a
}
