package service

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/user"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

func TestWithdraw(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// 100.00 on the balance, withdraw 40.00, expect 60.00 left.
	caller := seedAccount(t, store, "user-1", user.RoleUser, 10000)

	record, err := svc.Withdraw(ctx, "DE02120300000000202051", 4000, caller)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if record.UserID != "user-1" || record.Amount.Cents() != 4000 {
		t.Fatalf("unexpected withdrawal record: %+v", record)
	}

	account, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Balance.String() != "60.00" {
		t.Fatalf("expected balance 60.00, got %s", account.Balance)
	}

	page, err := svc.ListWithdrawals(ctx, "", 0, 10, caller)
	if err != nil {
		t.Fatalf("list withdrawals: %v", err)
	}
	if page.TotalCount != 1 || len(page.Withdrawals) != 1 {
		t.Fatalf("expected a single ledger entry, got %+v", page)
	}
	if page.Withdrawals[0].ID != record.ID {
		t.Fatalf("expected ledger entry %q, got %q", record.ID, page.Withdrawals[0].ID)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// 100.00 on the balance, 150.00 requested.
	caller := seedAccount(t, store, "user-1", user.RoleUser, 10000)

	_, err := svc.Withdraw(ctx, "DE02120300000000202051", 15000, caller)
	if !errors.Is(err, apperrors.New(apperrors.CodeWithdrawalInsufficientFunds, "")) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	account, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Balance.Cents() != 10000 {
		t.Fatalf("expected balance untouched, got %d", account.Balance.Cents())
	}

	page, err := svc.ListWithdrawals(ctx, "", 0, 10, caller)
	if err != nil {
		t.Fatalf("list withdrawals: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("expected empty ledger after rejection, got %+v", page)
	}
}

func TestWithdrawInvalidAmount(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)

	caller := seedAccount(t, store, "user-1", user.RoleUser, 10000)

	invalid := apperrors.New(apperrors.CodeWithdrawalAmountInvalid, "")
	if _, err := svc.Withdraw(context.Background(), "acct", 0, caller); !errors.Is(err, invalid) {
		t.Fatalf("zero amount: expected invalid, got %v", err)
	}
	if _, err := svc.Withdraw(context.Background(), "acct", -100, caller); !errors.Is(err, invalid) {
		t.Fatalf("negative amount: expected invalid, got %v", err)
	}
}

func TestWithdrawUnauthenticated(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	_, err := svc.Withdraw(context.Background(), "acct", 100, authz.Caller{})
	if !errors.Is(err, apperrors.New(apperrors.CodeUnauthenticated, "")) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestListWithdrawalsTargeting(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	owner := seedAccount(t, store, "user-1", user.RoleUser, 10000)
	stranger := seedAccount(t, store, "stranger-1", user.RoleUser, 0)
	admin := seedAccount(t, store, "admin-1", user.RoleAdmin, 0)

	if _, err := svc.Withdraw(ctx, "acct", 1000, owner); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	adminView, err := svc.ListWithdrawals(ctx, "user-1", 0, 10, admin)
	if err != nil {
		t.Fatalf("admin lists withdrawals: %v", err)
	}
	if adminView.TotalCount != 1 {
		t.Fatalf("expected admin to see the ledger, got %+v", adminView)
	}

	_, err = svc.ListWithdrawals(ctx, "user-1", 0, 10, stranger)
	if !errors.Is(err, apperrors.New(apperrors.CodeForbidden, "")) {
		t.Fatalf("stranger lists withdrawals: expected forbidden, got %v", err)
	}
}
