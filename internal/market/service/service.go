// Package service implements the marketplace core workflows: accounts,
// listings, the purchase transaction engine, and the withdrawal ledger.
//
// Every operation takes the caller identity as an explicit parameter; there
// is no ambient security context. All authorization decisions go through the
// authz guard, and every balance or availability mutation happens inside the
// same storage transaction as its guarding check.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/market/token"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
	"github.com/louisbranch/bookmarket/internal/platform/id"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var pageSizeConfig = pagination.PageSizeConfig{
	Default: 10,
	Max:     100,
}

// Stores groups all marketplace storage interfaces.
type Stores struct {
	Users        storage.UserStore
	Listings     storage.ListingStore
	Transactions storage.TransactionStore
	Withdrawals  storage.WithdrawalStore
}

// Service exposes the marketplace core operations.
type Service struct {
	stores      Stores
	tokens      *token.Service
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates a Service with default clock and id generation.
func NewService(stores Stores, tokens *token.Service) *Service {
	return &Service{
		stores:      stores,
		tokens:      tokens,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// NewServiceForTest creates a Service with injected clock and id generation.
func NewServiceForTest(stores Stores, tokens *token.Service, clock func() time.Time, idGenerator func() (string, error)) *Service {
	svc := NewService(stores, tokens)
	if clock != nil {
		svc.clock = clock
	}
	if idGenerator != nil {
		svc.idGenerator = idGenerator
	}
	return svc
}

// errNotFound is the shared "referenced entity absent" failure.
func errNotFound(message string) error {
	return apperrors.New(apperrors.CodeNotFound, message)
}

// mapStorageErr classifies unexpected storage failures. Context expiry and a
// busy database are transient infrastructure failures the caller may retry;
// anything else is surfaced as unknown.
func mapStorageErr(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || isBusy(err) {
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, message, err)
	}
	return apperrors.Wrap(apperrors.CodeUnknown, message, err)
}

// isBusy reports whether the error chain carries a SQLITE_BUSY or
// SQLITE_LOCKED failure.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
