package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Insert writes the order, its line items and the initial history entry in
// one transaction.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO Orders
			(id, buyerId, vendorId,
			 buyerName, buyerPhone, buyerAddress, buyerLatitude, buyerLongitude,
			 vendorName, vendorPhone, vendorAddress, vendorLatitude, vendorLongitude,
			 status, totalAmount, deliveryNote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	buyerLat, buyerLng := locationColumns(order.Buyer.Location)
	vendorLat, vendorLng := locationColumns(order.Vendor.Location)

	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.BuyerID, order.VendorID,
		order.Buyer.Name, order.Buyer.Phone, order.Buyer.Address, buyerLat, buyerLng,
		order.Vendor.Name, order.Vendor.Phone, order.Vendor.Address, vendorLat, vendorLng,
		order.Status, order.TotalAmount, order.DeliveryNote,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	itemQuery := `
		INSERT INTO OrderItems (orderId, itemId, name, quantity, unit, unitPrice, lineTotal)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, itemQuery,
			order.ID, item.ItemID, item.Name, item.Quantity, item.Unit, item.UnitPrice, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	historyQuery := `INSERT INTO OrderStatusHistory (orderId, status, note) VALUES (?, ?, ?)`
	if _, err = tx.ExecContext(ctx, historyQuery, order.ID, order.Status, "order placed"); err != nil {
		return fmt.Errorf("inserting initial history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order insert: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	orderQuery := `
		SELECT id, buyerId, vendorId,
		       buyerName, buyerPhone, buyerAddress, buyerLatitude, buyerLongitude,
		       vendorName, vendorPhone, vendorAddress, vendorLatitude, vendorLongitude,
		       status, totalAmount, deliveryNote, createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	var buyerLat, buyerLng, vendorLat, vendorLng sql.NullFloat64
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID, &order.BuyerID, &order.VendorID,
		&order.Buyer.Name, &order.Buyer.Phone, &order.Buyer.Address, &buyerLat, &buyerLng,
		&order.Vendor.Name, &order.Vendor.Phone, &order.Vendor.Address, &vendorLat, &vendorLng,
		&order.Status, &order.TotalAmount, &order.DeliveryNote, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if buyerLat.Valid && buyerLng.Valid {
		order.Buyer.Location = &domain.Location{Latitude: buyerLat.Float64, Longitude: buyerLng.Float64}
	}
	if vendorLat.Valid && vendorLng.Valid {
		order.Vendor.Location = &domain.Location{Latitude: vendorLat.Float64, Longitude: vendorLng.Float64}
	}

	if order.Items, err = r.findItems(ctx, id); err != nil {
		return nil, err
	}
	if order.History, err = r.findHistory(ctx, id); err != nil {
		return nil, err
	}
	if order.Payment, err = r.findPayment(ctx, id); err != nil {
		return nil, err
	}

	return &order, nil
}

// TransitionStatus performs the atomic conditional transition: the UPDATE
// matches the row only while the stored status equals from, and exactly one
// history entry is appended with it. Two racing transitions on the same
// order resolve to one success and one ConflictError.
func (r *MySQLOrderRepository) TransitionStatus(ctx context.Context, id, from, to, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transition transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE Orders SET status = ? WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM Orders WHERE id = ?`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
		if err != nil {
			return fmt.Errorf("querying current status: %w", err)
		}
		return errors.NewConflictError(fmt.Sprintf("order %s is %s, expected %s", id, current, from))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO OrderStatusHistory (orderId, status, note) VALUES (?, ?, ?)`,
		id, to, note,
	)
	if err != nil {
		return fmt.Errorf("appending status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}

	return nil
}

// MarkPaid is the only path that sets PAID: the APPROVED -> PAID compare-and-
// swap, the payment record insert and the history entry share one transaction.
func (r *MySQLOrderRepository) MarkPaid(ctx context.Context, id string, payment domain.PaymentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning payment transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE Orders SET status = ? WHERE id = ? AND status = ?`,
		domain.OrderStatusPaid, id, domain.OrderStatusApproved,
	)
	if err != nil {
		return fmt.Errorf("updating order status to paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM Orders WHERE id = ?`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
		if err != nil {
			return fmt.Errorf("querying current status: %w", err)
		}
		return errors.NewConflictError(fmt.Sprintf("order %s is %s, expected %s", id, current, domain.OrderStatusApproved))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO OrderPayments (orderId, externalOrderRef, externalPaymentRef, signature, amount, verifiedAt)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, payment.ExternalOrderRef, payment.ExternalPaymentRef, payment.Signature, payment.Amount, payment.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting payment record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO OrderStatusHistory (orderId, status, note) VALUES (?, ?, ?)`,
		id, domain.OrderStatusPaid, "payment verified",
	)
	if err != nil {
		return fmt.Errorf("appending status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) findItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	query := `
		SELECT itemId, name, quantity, unit, unitPrice, lineTotal
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Quantity, &item.Unit, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// findHistory returns entries in insertion order; the history is the audit
// trail and must be readable as appended.
func (r *MySQLOrderRepository) findHistory(ctx context.Context, orderID string) ([]domain.StatusEntry, error) {
	query := `
		SELECT status, createdAt, note
		FROM OrderStatusHistory
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying status history: %w", err)
	}
	defer rows.Close()

	var history []domain.StatusEntry
	for rows.Next() {
		var entry domain.StatusEntry
		if err := rows.Scan(&entry.Status, &entry.Timestamp, &entry.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}

func (r *MySQLOrderRepository) findPayment(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	query := `
		SELECT externalOrderRef, externalPaymentRef, signature, amount, verifiedAt
		FROM OrderPayments
		WHERE orderId = ?
	`

	var payment domain.PaymentRecord
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&payment.ExternalOrderRef, &payment.ExternalPaymentRef,
		&payment.Signature, &payment.Amount, &payment.VerifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment record: %w", err)
	}

	return &payment, nil
}

func locationColumns(location *domain.Location) (interface{}, interface{}) {
	if location == nil {
		return nil, nil
	}
	return location.Latitude, location.Longitude
}
