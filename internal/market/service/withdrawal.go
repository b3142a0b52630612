package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
	"github.com/louisbranch/bookmarket/internal/platform/money"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
)

// Withdraw debits the caller's balance and records a payout request.
//
// The balance check and the debit are one conditioned store operation, so a
// concurrent withdrawal can never drive the balance negative. A recorded
// withdrawal is permanent ledger history; there is no reversal.
func (s *Service) Withdraw(ctx context.Context, accountNumber string, amount money.Amount, caller authz.Caller) (storage.Withdrawal, error) {
	if err := authz.Authorize(caller, authz.ActionWithdraw, caller.ID); err != nil {
		return storage.Withdrawal{}, err
	}
	if !amount.IsPositive() {
		return storage.Withdrawal{}, apperrors.New(apperrors.CodeWithdrawalAmountInvalid, "withdrawal amount must be greater than zero")
	}

	withdrawalID, err := s.idGenerator()
	if err != nil {
		return storage.Withdrawal{}, fmt.Errorf("generate withdrawal id: %w", err)
	}

	record := storage.Withdrawal{
		ID:            withdrawalID,
		UserID:        caller.ID,
		AccountNumber: strings.TrimSpace(accountNumber),
		Amount:        amount,
		CreatedAt:     s.clock().UTC(),
	}

	if err := s.stores.Withdrawals.RecordWithdrawal(ctx, record); err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return storage.Withdrawal{}, apperrors.New(apperrors.CodeWithdrawalInsufficientFunds, "insufficient funds")
		}
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Withdrawal{}, apperrors.New(apperrors.CodeUnauthenticated, "user account not found")
		}
		return storage.Withdrawal{}, mapStorageErr("record withdrawal", err)
	}
	return record, nil
}

// ListWithdrawals returns one page of the caller's payout history, newest
// first. Admins may target another user's history.
func (s *Service) ListWithdrawals(ctx context.Context, targetID string, pageIndex, pageSize int, caller authz.Caller) (storage.WithdrawalPage, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = caller.ID
	}
	if err := authz.Authorize(caller, authz.ActionListWithdrawals, targetID); err != nil {
		return storage.WithdrawalPage{}, err
	}

	pageSize = pagination.ClampPageSize(pageSize, pageSizeConfig)
	page, err := s.stores.Withdrawals.ListWithdrawalsByUser(ctx, targetID, pagination.ClampPageIndex(pageIndex), pageSize)
	if err != nil {
		return storage.WithdrawalPage{}, mapStorageErr("list withdrawals", err)
	}
	return page, nil
}
