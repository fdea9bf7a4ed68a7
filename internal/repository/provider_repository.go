package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

// ProviderRepository manages persistence for providers.
type ProviderRepository struct {
	db *sqlx.DB
}

// NewProviderRepository constructs a ProviderRepository.
func NewProviderRepository(db *sqlx.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// FindByID returns the provider or nil when the id does not resolve.
func (r *ProviderRepository) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	const query = `SELECT id, full_name, specialty, active, created_at
FROM providers WHERE id = $1`
	var provider models.Provider
	if err := r.db.GetContext(ctx, &provider, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find provider %s: %w", id, err)
	}
	return &provider, nil
}

// List returns active providers ordered by name.
func (r *ProviderRepository) List(ctx context.Context) ([]models.Provider, error) {
	const query = `SELECT id, full_name, specialty, active, created_at
FROM providers WHERE active = TRUE ORDER BY full_name ASC`
	providers := []models.Provider{}
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}
