package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/platform/money"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
)

const transactionColumns = `id, listing_id, buyer_id, seller_id, price,
       ship_first_name, ship_last_name, ship_email, ship_phone, ship_city,
       ship_postal_code, ship_street, ship_street_number, ship_apartment_number,
       pay_card_number, pay_expiration_date, pay_cvc, created_at`

// RecordPurchase applies the full purchase effect as one SQLite transaction.
//
// The availability flip is conditioned on the prior value (available = 1),
// so two concurrent purchases of the same listing resolve to exactly one
// winner; the loser observes ErrListingUnavailable and nothing is written.
func (s *Store) RecordPurchase(ctx context.Context, txr storage.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(txr.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	if strings.TrimSpace(txr.ListingID) == "" {
		return fmt.Errorf("listing id is required")
	}
	if strings.TrimSpace(txr.BuyerID) == "" || strings.TrimSpace(txr.SellerID) == "" {
		return fmt.Errorf("buyer and seller ids are required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Atomic test-and-set: the flip only matches a row that is still available.
	result, err := tx.ExecContext(
		ctx,
		`UPDATE listings SET available = 0, updated_at = ? WHERE id = ? AND available = 1`,
		toMillis(txr.CreatedAt),
		txr.ListingID,
	)
	if err != nil {
		return fmt.Errorf("flip listing availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("flip listing rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		scanErr := tx.QueryRowContext(ctx, `SELECT 1 FROM listings WHERE id = ?`, txr.ListingID).Scan(&exists)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if scanErr != nil {
			return fmt.Errorf("check listing existence: %w", scanErr)
		}
		return storage.ErrListingUnavailable
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO transactions (
		   id, listing_id, buyer_id, seller_id, price,
		   ship_first_name, ship_last_name, ship_email, ship_phone, ship_city,
		   ship_postal_code, ship_street, ship_street_number, ship_apartment_number,
		   pay_card_number, pay_expiration_date, pay_cvc, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txr.ID,
		txr.ListingID,
		txr.BuyerID,
		txr.SellerID,
		txr.Price.Cents(),
		txr.Shipment.FirstName,
		txr.Shipment.LastName,
		txr.Shipment.Email,
		txr.Shipment.Phone,
		txr.Shipment.City,
		txr.Shipment.PostalCode,
		txr.Shipment.Street,
		txr.Shipment.StreetNumber,
		txr.Shipment.ApartmentNumber,
		txr.Payment.CardNumber,
		txr.Payment.ExpirationDate,
		txr.Payment.CVC,
		toMillis(txr.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	// Seller is credited the snapshotted price and both sides gain reputation.
	result, err = tx.ExecContext(
		ctx,
		`UPDATE users SET balance = balance + ?, rating = rating + 1, updated_at = ? WHERE id = ?`,
		txr.Price.Cents(),
		toMillis(txr.CreatedAt),
		txr.SellerID,
	)
	if err != nil {
		return fmt.Errorf("credit seller: %w", err)
	}
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("credit seller rows affected: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("credit seller: %w", storage.ErrNotFound)
	}

	result, err = tx.ExecContext(
		ctx,
		`UPDATE users SET rating = rating + 1, updated_at = ? WHERE id = ?`,
		toMillis(txr.CreatedAt),
		txr.BuyerID,
	)
	if err != nil {
		return fmt.Errorf("increment buyer rating: %w", err)
	}
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("increment buyer rating rows affected: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("increment buyer rating: %w", storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}
	return nil
}

// GetTransaction returns one sale record by ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (storage.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return storage.Transaction{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Transaction{}, err
	}
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return storage.Transaction{}, fmt.Errorf("transaction id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, txID)
	return scanTransaction(row)
}

// ListTransactionsByBuyer returns one page of purchases, newest first.
func (s *Store) ListTransactionsByBuyer(ctx context.Context, buyerID string, pageIndex, pageSize int) (storage.TransactionPage, error) {
	return s.listTransactions(ctx, "buyer_id", buyerID, pageIndex, pageSize)
}

// ListTransactionsBySeller returns one page of sales, newest first.
func (s *Store) ListTransactionsBySeller(ctx context.Context, sellerID string, pageIndex, pageSize int) (storage.TransactionPage, error) {
	return s.listTransactions(ctx, "seller_id", sellerID, pageIndex, pageSize)
}

func (s *Store) listTransactions(ctx context.Context, column, userID string, pageIndex, pageSize int) (storage.TransactionPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TransactionPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.TransactionPage{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.TransactionPage{}, fmt.Errorf("user id is required")
	}
	if pageSize <= 0 {
		return storage.TransactionPage{}, fmt.Errorf("page size must be greater than zero")
	}

	page := storage.TransactionPage{Transactions: make([]storage.Transaction, 0, pageSize)}
	if err := s.sqlDB.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM transactions WHERE `+column+` = ?`, userID,
	).Scan(&page.TotalCount); err != nil {
		return storage.TransactionPage{}, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+transactionColumns+`
		   FROM transactions
		  WHERE `+column+` = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ? OFFSET ?`,
		userID,
		pageSize,
		pagination.Offset(pageIndex, pageSize),
	)
	if err != nil {
		return storage.TransactionPage{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		txr, err := scanTransaction(rows)
		if err != nil {
			return storage.TransactionPage{}, fmt.Errorf("list transactions: %w", err)
		}
		page.Transactions = append(page.Transactions, txr)
	}
	if err := rows.Err(); err != nil {
		return storage.TransactionPage{}, fmt.Errorf("list transactions: %w", err)
	}
	return page, nil
}

func scanTransaction(row rowScanner) (storage.Transaction, error) {
	var txr storage.Transaction
	var price int64
	var createdAt int64
	err := row.Scan(
		&txr.ID,
		&txr.ListingID,
		&txr.BuyerID,
		&txr.SellerID,
		&price,
		&txr.Shipment.FirstName,
		&txr.Shipment.LastName,
		&txr.Shipment.Email,
		&txr.Shipment.Phone,
		&txr.Shipment.City,
		&txr.Shipment.PostalCode,
		&txr.Shipment.Street,
		&txr.Shipment.StreetNumber,
		&txr.Shipment.ApartmentNumber,
		&txr.Payment.CardNumber,
		&txr.Payment.ExpirationDate,
		&txr.Payment.CVC,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Transaction{}, storage.ErrNotFound
		}
		return storage.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	txr.Price = money.Amount(price)
	txr.CreatedAt = fromMillis(createdAt)
	return txr, nil
}
