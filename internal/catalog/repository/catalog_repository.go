package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLCatalogRepository struct {
	db *sql.DB
}

func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

func (r *MySQLCatalogRepository) FindVendorByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `
		SELECT id, name, phone, address, latitude, longitude, locationAddress,
		       ratingAverage, ratingCount, isVerified, isActive, createdAt, updatedAt
		FROM Vendors
		WHERE id = ?
	`

	var vendor domain.Vendor
	var lat, lng sql.NullFloat64
	var locationAddress sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vendor.ID, &vendor.Name, &vendor.Phone, &vendor.Address,
		&lat, &lng, &locationAddress,
		&vendor.Rating.Average, &vendor.Rating.Count,
		&vendor.IsVerified, &vendor.IsActive,
		&vendor.CreatedAt, &vendor.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("vendor %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying vendor by id: %w", err)
	}

	if lat.Valid && lng.Valid {
		vendor.Location = &domain.Location{
			Latitude:  lat.Float64,
			Longitude: lng.Float64,
			Address:   locationAddress.String,
		}
	}

	return &vendor, nil
}

// SearchVendors returns active vendors carrying at least one available item
// whose name, description or category matches the keyword. An empty keyword
// returns every active vendor.
func (r *MySQLCatalogRepository) SearchVendors(ctx context.Context, keyword string) ([]domain.Vendor, error) {
	query := `
		SELECT DISTINCT v.id, v.name, v.phone, v.address, v.latitude, v.longitude,
		       v.locationAddress, v.ratingAverage, v.ratingCount, v.isVerified,
		       v.isActive, v.createdAt, v.updatedAt
		FROM Vendors v
		JOIN CatalogItems i ON i.vendorId = v.id
		WHERE v.isActive = 1
		  AND i.isAvailable = 1
		  AND (? = '' OR LOWER(i.name) LIKE ? OR LOWER(i.description) LIKE ? OR LOWER(i.category) LIKE ?)
	`

	pattern := "%" + keyword + "%"
	rows, err := r.db.QueryContext(ctx, query, keyword, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching vendors: %w", err)
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		var vendor domain.Vendor
		var lat, lng sql.NullFloat64
		var locationAddress sql.NullString
		if err := rows.Scan(
			&vendor.ID, &vendor.Name, &vendor.Phone, &vendor.Address,
			&lat, &lng, &locationAddress,
			&vendor.Rating.Average, &vendor.Rating.Count,
			&vendor.IsVerified, &vendor.IsActive,
			&vendor.CreatedAt, &vendor.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning vendor row: %w", err)
		}
		if lat.Valid && lng.Valid {
			vendor.Location = &domain.Location{
				Latitude:  lat.Float64,
				Longitude: lng.Float64,
				Address:   locationAddress.String,
			}
		}
		vendors = append(vendors, vendor)
	}

	return vendors, rows.Err()
}

func (r *MySQLCatalogRepository) FindItemsByVendor(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	query := `
		SELECT id, vendorId, name, description, category, unitPrice, unit,
		       quantityAvailable, isAvailable, minimumOrderQuantity, createdAt, updatedAt
		FROM CatalogItems
		WHERE vendorId = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("querying catalog items: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(
			&item.ID, &item.VendorID, &item.Name, &item.Description, &item.Category,
			&item.UnitPrice, &item.Unit, &item.QuantityAvailable, &item.IsAvailable,
			&item.MinimumOrderQuantity, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog item row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *MySQLCatalogRepository) InsertItem(ctx context.Context, item domain.CatalogItem) error {
	query := `
		INSERT INTO CatalogItems
			(id, vendorId, name, description, category, unitPrice, unit,
			 quantityAvailable, isAvailable, minimumOrderQuantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.VendorID, item.Name, item.Description, item.Category,
		item.UnitPrice, item.Unit, item.QuantityAvailable, item.IsAvailable,
		item.MinimumOrderQuantity,
	)
	if err != nil {
		return fmt.Errorf("inserting catalog item: %w", err)
	}

	return nil
}

// UpdateItem updates an item only when it belongs to the vendor; the
// ownership check is part of the WHERE clause.
func (r *MySQLCatalogRepository) UpdateItem(ctx context.Context, item domain.CatalogItem) error {
	query := `
		UPDATE CatalogItems
		SET name = ?, description = ?, category = ?, unitPrice = ?, unit = ?,
		    quantityAvailable = ?, isAvailable = ?, minimumOrderQuantity = ?
		WHERE id = ? AND vendorId = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		item.Name, item.Description, item.Category, item.UnitPrice, item.Unit,
		item.QuantityAvailable, item.IsAvailable, item.MinimumOrderQuantity,
		item.ID, item.VendorID,
	)
	if err != nil {
		return fmt.Errorf("updating catalog item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("catalog item %s not found for vendor %s", item.ID, item.VendorID))
	}

	return nil
}

func (r *MySQLCatalogRepository) UpdateVendorLocation(ctx context.Context, vendorID string, location domain.Location) error {
	query := `UPDATE Vendors SET latitude = ?, longitude = ?, locationAddress = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, location.Latitude, location.Longitude, location.Address, vendorID)
	if err != nil {
		return fmt.Errorf("updating vendor location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("vendor %s not found", vendorID))
	}

	return nil
}

func (r *MySQLCatalogRepository) UpdateVendorRating(ctx context.Context, vendorID string, rating domain.Rating) error {
	query := `UPDATE Vendors SET ratingAverage = ?, ratingCount = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, rating.Average, rating.Count, vendorID)
	if err != nil {
		return fmt.Errorf("updating vendor rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("vendor %s not found", vendorID))
	}

	return nil
}
