package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Expects a MySQL instance
// at localhost:3306 with a database named 'radagast_test'; skips the test
// when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/radagast_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables in dependency order and closes the
// connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"Reviews", "OrderPayments", "OrderStatusHistory", "OrderItems",
		"Orders", "CatalogItems", "Vendors", "Buyers",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories run against.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createVendorsTable := `
	CREATE TABLE IF NOT EXISTS Vendors (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		phone VARCHAR(30) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		latitude DOUBLE,
		longitude DOUBLE,
		locationAddress VARCHAR(255),
		ratingAverage DOUBLE NOT NULL DEFAULT 0,
		ratingCount INT NOT NULL DEFAULT 0,
		isVerified TINYINT(1) NOT NULL DEFAULT 0,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_active (isActive)
	)`

	createCatalogItemsTable := `
	CREATE TABLE IF NOT EXISTS CatalogItems (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		vendorId VARCHAR(36) NOT NULL,
		name VARCHAR(150) NOT NULL,
		description TEXT,
		category VARCHAR(100) NOT NULL DEFAULT '',
		unitPrice DECIMAL(10,2) NOT NULL,
		unit VARCHAR(30) NOT NULL DEFAULT '',
		quantityAvailable INT NOT NULL DEFAULT 0,
		isAvailable TINYINT(1) NOT NULL DEFAULT 1,
		minimumOrderQuantity INT NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (vendorId) REFERENCES Vendors(id) ON DELETE CASCADE,
		INDEX idx_vendor (vendorId),
		INDEX idx_available (isAvailable)
	)`

	createBuyersTable := `
	CREATE TABLE IF NOT EXISTS Buyers (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		phone VARCHAR(30) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		latitude DOUBLE,
		longitude DOUBLE,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		buyerId VARCHAR(36) NOT NULL,
		vendorId VARCHAR(36) NOT NULL,
		buyerName VARCHAR(150) NOT NULL,
		buyerPhone VARCHAR(30) NOT NULL DEFAULT '',
		buyerAddress VARCHAR(255) NOT NULL DEFAULT '',
		buyerLatitude DOUBLE,
		buyerLongitude DOUBLE,
		vendorName VARCHAR(150) NOT NULL,
		vendorPhone VARCHAR(30) NOT NULL DEFAULT '',
		vendorAddress VARCHAR(255) NOT NULL DEFAULT '',
		vendorLatitude DOUBLE,
		vendorLongitude DOUBLE,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		totalAmount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		deliveryNote VARCHAR(500) NOT NULL DEFAULT '',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_buyer (buyerId),
		INDEX idx_vendor (vendorId),
		INDEX idx_status (status)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId VARCHAR(36) NOT NULL,
		itemId VARCHAR(36) NOT NULL,
		name VARCHAR(150) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unit VARCHAR(30) NOT NULL DEFAULT '',
		unitPrice DECIMAL(10,2) NOT NULL,
		lineTotal DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	createOrderStatusHistoryTable := `
	CREATE TABLE IF NOT EXISTS OrderStatusHistory (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId VARCHAR(36) NOT NULL,
		status VARCHAR(20) NOT NULL,
		note VARCHAR(500) NOT NULL DEFAULT '',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	createOrderPaymentsTable := `
	CREATE TABLE IF NOT EXISTS OrderPayments (
		orderId VARCHAR(36) NOT NULL PRIMARY KEY,
		externalOrderRef VARCHAR(64) NOT NULL,
		externalPaymentRef VARCHAR(64) NOT NULL,
		signature VARCHAR(128) NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		verifiedAt DATETIME NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE
	)`

	createReviewsTable := `
	CREATE TABLE IF NOT EXISTS Reviews (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		orderId VARCHAR(36) NOT NULL,
		buyerId VARCHAR(36) NOT NULL,
		vendorId VARCHAR(36) NOT NULL,
		rating INT NOT NULL,
		text VARCHAR(2000) NOT NULL DEFAULT '',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_order_buyer (orderId, buyerId),
		INDEX idx_vendor (vendorId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Vendors", createVendorsTable},
		{"CatalogItems", createCatalogItemsTable},
		{"Buyers", createBuyersTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"OrderStatusHistory", createOrderStatusHistoryTable},
		{"OrderPayments", createOrderPaymentsTable},
		{"Reviews", createReviewsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
