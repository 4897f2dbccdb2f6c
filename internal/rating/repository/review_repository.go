package repository

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

const mysqlErrDuplicateEntry = 1062

type MySQLReviewRepository struct {
	db *sql.DB
}

func NewMySQLReviewRepository(db *sql.DB) *MySQLReviewRepository {
	return &MySQLReviewRepository{db: db}
}

// Insert relies on the (orderId, buyerId) unique key: the database is the
// authority on the one-review-per-order invariant, not a pre-read.
func (r *MySQLReviewRepository) Insert(ctx context.Context, review domain.Review) error {
	query := `
		INSERT INTO Reviews (id, orderId, buyerId, vendorId, rating, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.OrderID, review.BuyerID, review.VendorID, review.Rating, review.Text,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if goerrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return errors.NewDuplicateReviewError(
				fmt.Sprintf("order %s already has a review from buyer %s", review.OrderID, review.BuyerID))
		}
		return fmt.Errorf("inserting review: %w", err)
	}

	return nil
}

// AggregateForVendor recomputes the mean and count over all of the vendor's
// reviews. Re-aggregating from scratch avoids the drift an incremental
// running average accumulates.
func (r *MySQLReviewRepository) AggregateForVendor(ctx context.Context, vendorID string) (domain.Rating, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM Reviews
		WHERE vendorId = ?
	`

	var rating domain.Rating
	err := r.db.QueryRowContext(ctx, query, vendorID).Scan(&rating.Average, &rating.Count)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("aggregating vendor rating: %w", err)
	}

	return rating, nil
}

func (r *MySQLReviewRepository) FindByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	query := `
		SELECT id, orderId, buyerId, vendorId, rating, text, createdAt
		FROM Reviews
		WHERE vendorId = ?
		ORDER BY createdAt DESC
	`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("querying vendor reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID, &review.OrderID, &review.BuyerID, &review.VendorID,
			&review.Rating, &review.Text, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
