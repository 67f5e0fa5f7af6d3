package domain

// User is the authenticated user snapshot surfaced by the auth collaborator.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	PhotoURL string `json:"photoURL"`
}
