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

// RecordWithdrawal debits the balance and appends the payout record atomically.
//
// The debit is conditioned on balance >= amount so the check and the write
// are one indivisible operation; a stale in-memory balance can never
// overdraw the account.
func (s *Store) RecordWithdrawal(ctx context.Context, w storage.Withdrawal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("withdrawal id is required")
	}
	if strings.TrimSpace(w.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if !w.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE users SET balance = balance - ?, updated_at = ? WHERE id = ? AND balance >= ?`,
		w.Amount.Cents(),
		toMillis(w.CreatedAt),
		w.UserID,
		w.Amount.Cents(),
	)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit balance rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		scanErr := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, w.UserID).Scan(&exists)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if scanErr != nil {
			return fmt.Errorf("check user existence: %w", scanErr)
		}
		return storage.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO withdrawals (id, user_id, account_number, amount, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID,
		w.UserID,
		w.AccountNumber,
		w.Amount.Cents(),
		toMillis(w.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit withdrawal: %w", err)
	}
	return nil
}

// ListWithdrawalsByUser returns one page of payout records, newest first.
func (s *Store) ListWithdrawalsByUser(ctx context.Context, userID string, pageIndex, pageSize int) (storage.WithdrawalPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.WithdrawalPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.WithdrawalPage{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.WithdrawalPage{}, fmt.Errorf("user id is required")
	}
	if pageSize <= 0 {
		return storage.WithdrawalPage{}, fmt.Errorf("page size must be greater than zero")
	}

	page := storage.WithdrawalPage{Withdrawals: make([]storage.Withdrawal, 0, pageSize)}
	if err := s.sqlDB.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM withdrawals WHERE user_id = ?`, userID,
	).Scan(&page.TotalCount); err != nil {
		return storage.WithdrawalPage{}, fmt.Errorf("count withdrawals: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, account_number, amount, created_at
		   FROM withdrawals
		  WHERE user_id = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ? OFFSET ?`,
		userID,
		pageSize,
		pagination.Offset(pageIndex, pageSize),
	)
	if err != nil {
		return storage.WithdrawalPage{}, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w storage.Withdrawal
		var amount int64
		var createdAt int64
		if err := rows.Scan(&w.ID, &w.UserID, &w.AccountNumber, &amount, &createdAt); err != nil {
			return storage.WithdrawalPage{}, fmt.Errorf("list withdrawals: %w", err)
		}
		w.Amount = money.Amount(amount)
		w.CreatedAt = fromMillis(createdAt)
		page.Withdrawals = append(page.Withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return storage.WithdrawalPage{}, fmt.Errorf("list withdrawals: %w", err)
	}
	return page, nil
}
