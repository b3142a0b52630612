package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
)

// Purchase executes the purchase workflow for one listing.
//
// Preconditions are checked in a fixed order, each with its own failure
// kind: buyer resolves (Unauthenticated), listing exists (NotFound), listing
// available (already sold), buyer is not the owner (self purchase). The
// effect (availability flip, sale insert, seller credit, reputation
// increments) is applied by the store as one atomic unit; if a concurrent
// purchase wins the conditioned flip, this call reports the listing as sold
// and writes nothing.
func (s *Service) Purchase(ctx context.Context, listingID string, shipment storage.Shipment, payment storage.Payment, caller authz.Caller) (storage.Transaction, error) {
	if !caller.Authenticated || strings.TrimSpace(caller.ID) == "" {
		return storage.Transaction{}, apperrors.New(apperrors.CodeUnauthenticated, "caller is not authenticated")
	}

	buyer, err := s.stores.Users.GetUser(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Transaction{}, apperrors.New(apperrors.CodeUnauthenticated, "buyer account not found")
		}
		return storage.Transaction{}, mapStorageErr("resolve buyer", err)
	}

	target, err := s.stores.Listings.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Transaction{}, errNotFound("listing not found")
		}
		return storage.Transaction{}, mapStorageErr("get listing", err)
	}
	if !target.Available {
		return storage.Transaction{}, apperrors.New(apperrors.CodeListingAlreadySold, "listing is already sold")
	}
	if target.OwnerID == buyer.ID {
		return storage.Transaction{}, apperrors.New(apperrors.CodeListingSelfPurchase, "cannot buy own listing")
	}

	txID, err := s.idGenerator()
	if err != nil {
		return storage.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	// Price, shipment, and payment are snapshotted here; the sale record
	// never re-reads the listing.
	record := storage.Transaction{
		ID:        txID,
		ListingID: target.ID,
		BuyerID:   buyer.ID,
		SellerID:  target.OwnerID,
		Price:     target.Price,
		Shipment:  shipment,
		Payment:   payment,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.stores.Transactions.RecordPurchase(ctx, record); err != nil {
		if errors.Is(err, storage.ErrListingUnavailable) {
			// Lost the race: a concurrent purchase flipped availability first.
			return storage.Transaction{}, apperrors.New(apperrors.CodeListingAlreadySold, "listing is already sold")
		}
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Transaction{}, errNotFound("listing not found")
		}
		return storage.Transaction{}, mapStorageErr("record purchase", err)
	}
	return record, nil
}

// GetTransaction returns one sale record. Only the buyer (or an admin) may
// read it; the seller is denied, matching the marketplace's current policy.
func (s *Service) GetTransaction(ctx context.Context, txID string, caller authz.Caller) (storage.Transaction, error) {
	if !caller.Authenticated {
		return storage.Transaction{}, apperrors.New(apperrors.CodeUnauthenticated, "caller is not authenticated")
	}

	record, err := s.stores.Transactions.GetTransaction(ctx, txID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Transaction{}, errNotFound("transaction not found")
		}
		return storage.Transaction{}, mapStorageErr("get transaction", err)
	}

	if err := authz.Authorize(caller, authz.ActionViewTransaction, record.BuyerID); err != nil {
		return storage.Transaction{}, err
	}
	return record, nil
}

// ListBought returns one page of the target user's purchases, newest first.
// An admin may target any user; everyone else only themselves.
func (s *Service) ListBought(ctx context.Context, targetID string, pageIndex, pageSize int, caller authz.Caller) (storage.TransactionPage, error) {
	targetID, err := s.resolveHistoryTarget(targetID, caller)
	if err != nil {
		return storage.TransactionPage{}, err
	}

	pageSize = pagination.ClampPageSize(pageSize, pageSizeConfig)
	page, err := s.stores.Transactions.ListTransactionsByBuyer(ctx, targetID, pagination.ClampPageIndex(pageIndex), pageSize)
	if err != nil {
		return storage.TransactionPage{}, mapStorageErr("list bought", err)
	}
	return page, nil
}

// ListSold returns one page of the target user's sales, newest first.
func (s *Service) ListSold(ctx context.Context, targetID string, pageIndex, pageSize int, caller authz.Caller) (storage.TransactionPage, error) {
	targetID, err := s.resolveHistoryTarget(targetID, caller)
	if err != nil {
		return storage.TransactionPage{}, err
	}

	pageSize = pagination.ClampPageSize(pageSize, pageSizeConfig)
	page, err := s.stores.Transactions.ListTransactionsBySeller(ctx, targetID, pagination.ClampPageIndex(pageIndex), pageSize)
	if err != nil {
		return storage.TransactionPage{}, mapStorageErr("list sold", err)
	}
	return page, nil
}

func (s *Service) resolveHistoryTarget(targetID string, caller authz.Caller) (string, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = caller.ID
	}
	if err := authz.Authorize(caller, authz.ActionListTransactions, targetID); err != nil {
		return "", err
	}
	return targetID, nil
}
