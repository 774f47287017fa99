package database

import (
	"database/sql"
	"strings"

	"github.com/artyaffairs/storefront/internal/models"
)

// Repository is the remote relational store consumed by the cart and
// wishlist stores and by the catalog handlers.
type Repository struct {
	DB     *sql.DB
	Driver string

	// AdminEmails receive the admin role when their profile is first created.
	AdminEmails []string
}

// NewRepository wraps an open pool.
func NewRepository(db *sql.DB, driver string, adminEmails []string) *Repository {
	return &Repository{DB: db, Driver: driver, AdminEmails: adminEmails}
}

func (r *Repository) roleFor(email string) string {
	for _, admin := range r.AdminEmails {
		if strings.EqualFold(admin, email) {
			return models.RoleAdmin
		}
	}
	return models.RoleCustomer
}
