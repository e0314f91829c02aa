package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Caller identifie l'auteur d'une requête. La valeur zéro est un visiteur anonyme.
type Caller struct {
	UserID string
	Email  string
	Role   string
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}
