package model

// User is a person who can register for events.  Email is neither
// validated nor required to be unique.
type User struct {
	ID    uint64 `json:"id"`    // users.id
	Name  string `json:"name"`  // users.name
	Email string `json:"email"` // users.email
}
