package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

// MySQLBuyerRepository reads buyer identity records. Identity issuance is
// external; this table is a read model of the parties we snapshot.
type MySQLBuyerRepository struct {
	db *sql.DB
}

func NewMySQLBuyerRepository(db *sql.DB) *MySQLBuyerRepository {
	return &MySQLBuyerRepository{db: db}
}

func (r *MySQLBuyerRepository) FindBuyerByID(ctx context.Context, id string) (*domain.Buyer, error) {
	query := `
		SELECT id, name, phone, address, latitude, longitude, createdAt, updatedAt
		FROM Buyers
		WHERE id = ?
	`

	var buyer domain.Buyer
	var lat, lng sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&buyer.ID, &buyer.Name, &buyer.Phone, &buyer.Address,
		&lat, &lng, &buyer.CreatedAt, &buyer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("buyer %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying buyer by id: %w", err)
	}

	if lat.Valid && lng.Valid {
		buyer.Location = &domain.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return &buyer, nil
}
