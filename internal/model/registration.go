package model

// Registrant is the summary of a registered user returned with an event.
type Registrant struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
