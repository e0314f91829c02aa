package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID        gocql.UUID `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// CategorySummary liste aussi les noms des produits rattachés (vue admin).
type CategorySummary struct {
	Category
	Products []string `json:"products"`
}
