package service

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/market/user"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

var testShipment = storage.Shipment{
	FirstName:    "Ada",
	LastName:     "Lovelace",
	Email:        "ada@example.com",
	Phone:        "555-0100",
	City:         "London",
	PostalCode:   "EC1",
	Street:       "Analytical St",
	StreetNumber: "42",
}

var testPayment = storage.Payment{
	CardNumber:     "4111111111111111",
	ExpirationDate: "12/30",
	CVC:            "123",
}

func TestPurchase(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	buyer := seedAccount(t, store, "buyer-1", user.RoleUser, 0)
	seedAccount(t, store, "seller-1", user.RoleUser, 0)
	seedListing(t, store, "listing-1", "seller-1", 4999)

	record, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, buyer)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if record.BuyerID != "buyer-1" || record.SellerID != "seller-1" {
		t.Fatalf("expected buyer/seller from listing, got %+v", record)
	}
	if record.Price.Cents() != 4999 {
		t.Fatalf("expected price snapshot of 4999, got %d", record.Price.Cents())
	}
	if record.Shipment != testShipment || record.Payment != testPayment {
		t.Fatal("expected shipment and payment snapshots on the record")
	}

	seller, err := store.GetUser(ctx, "seller-1")
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if seller.Balance.Cents() != 4999 {
		t.Fatalf("expected seller credited 49.99, got %s", seller.Balance)
	}
	if seller.Rating != 1 {
		t.Fatalf("expected seller rating 1, got %d", seller.Rating)
	}

	bought, err := store.GetUser(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("get buyer: %v", err)
	}
	if bought.Rating != 1 {
		t.Fatalf("expected buyer rating 1, got %d", bought.Rating)
	}

	flipped, err := store.GetListing(ctx, "listing-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if flipped.Available {
		t.Fatal("expected listing to be sold")
	}
}

func TestPurchaseAlreadySold(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	first := seedAccount(t, store, "buyer-1", user.RoleUser, 0)
	second := seedAccount(t, store, "buyer-2", user.RoleUser, 0)
	seedAccount(t, store, "seller-1", user.RoleUser, 0)
	seedListing(t, store, "listing-1", "seller-1", 4999)

	if _, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, first); err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	_, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, second)
	if !errors.Is(err, apperrors.New(apperrors.CodeListingAlreadySold, "")) {
		t.Fatalf("expected already sold, got %v", err)
	}

	// The seller must only be credited once.
	seller, err := store.GetUser(ctx, "seller-1")
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if seller.Balance.Cents() != 4999 {
		t.Fatalf("expected a single credit, got %d", seller.Balance.Cents())
	}
}

func TestPurchaseOwnListing(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seller := seedAccount(t, store, "seller-1", user.RoleUser, 0)
	seedListing(t, store, "listing-1", "seller-1", 4999)

	_, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, seller)
	if !errors.Is(err, apperrors.New(apperrors.CodeListingSelfPurchase, "")) {
		t.Fatalf("expected self purchase rejection, got %v", err)
	}

	untouched, err := store.GetListing(ctx, "listing-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if !untouched.Available {
		t.Fatal("expected listing to stay available")
	}
}

func TestPurchaseMissingListing(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)

	buyer := seedAccount(t, store, "buyer-1", user.RoleUser, 0)
	_, err := svc.Purchase(context.Background(), "nope", testShipment, testPayment, buyer)
	if !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPurchaseUnauthenticated(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)

	seedAccount(t, store, "seller-1", user.RoleUser, 0)
	seedListing(t, store, "listing-1", "seller-1", 4999)

	unauthenticated := apperrors.New(apperrors.CodeUnauthenticated, "")

	if _, err := svc.Purchase(context.Background(), "listing-1", testShipment, testPayment, authz.Caller{}); !errors.Is(err, unauthenticated) {
		t.Fatalf("anonymous caller: expected unauthenticated, got %v", err)
	}

	// A caller whose account no longer exists resolves the same way.
	ghost := authz.Caller{ID: "ghost-1", Role: user.RoleUser, Authenticated: true}
	if _, err := svc.Purchase(context.Background(), "listing-1", testShipment, testPayment, ghost); !errors.Is(err, unauthenticated) {
		t.Fatalf("ghost caller: expected unauthenticated, got %v", err)
	}
}

func TestGetTransactionVisibility(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	buyer := seedAccount(t, store, "buyer-1", user.RoleUser, 0)
	seller := seedAccount(t, store, "seller-1", user.RoleUser, 0)
	stranger := seedAccount(t, store, "stranger-1", user.RoleUser, 0)
	admin := seedAccount(t, store, "admin-1", user.RoleAdmin, 0)
	seedListing(t, store, "listing-1", "seller-1", 4999)

	record, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, buyer)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if _, err := svc.GetTransaction(ctx, record.ID, buyer); err != nil {
		t.Fatalf("buyer reads own transaction: %v", err)
	}
	if _, err := svc.GetTransaction(ctx, record.ID, admin); err != nil {
		t.Fatalf("admin reads transaction: %v", err)
	}

	forbidden := apperrors.New(apperrors.CodeForbidden, "")
	if _, err := svc.GetTransaction(ctx, record.ID, seller); !errors.Is(err, forbidden) {
		t.Fatalf("seller reads transaction: expected forbidden, got %v", err)
	}
	if _, err := svc.GetTransaction(ctx, record.ID, stranger); !errors.Is(err, forbidden) {
		t.Fatalf("stranger reads transaction: expected forbidden, got %v", err)
	}

	if _, err := svc.GetTransaction(ctx, "nope", buyer); !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("missing transaction: expected not found, got %v", err)
	}
}

func TestListBoughtAndSold(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	buyer := seedAccount(t, store, "buyer-1", user.RoleUser, 0)
	seller := seedAccount(t, store, "seller-1", user.RoleUser, 0)
	stranger := seedAccount(t, store, "stranger-1", user.RoleUser, 0)
	admin := seedAccount(t, store, "admin-1", user.RoleAdmin, 0)
	seedListing(t, store, "listing-1", "seller-1", 1000)
	seedListing(t, store, "listing-2", "seller-1", 2000)

	firstRecord, err := svc.Purchase(ctx, "listing-1", testShipment, testPayment, buyer)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	secondRecord, err := svc.Purchase(ctx, "listing-2", testShipment, testPayment, buyer)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	bought, err := svc.ListBought(ctx, "", 0, 10, buyer)
	if err != nil {
		t.Fatalf("list bought: %v", err)
	}
	if bought.TotalCount != 2 || len(bought.Transactions) != 2 {
		t.Fatalf("expected 2 purchases, got %+v", bought)
	}
	if bought.Transactions[0].ID != secondRecord.ID || bought.Transactions[1].ID != firstRecord.ID {
		t.Fatalf("expected newest purchase first, got %q then %q", bought.Transactions[0].ID, bought.Transactions[1].ID)
	}

	sold, err := svc.ListSold(ctx, "", 0, 10, seller)
	if err != nil {
		t.Fatalf("list sold: %v", err)
	}
	if sold.TotalCount != 2 {
		t.Fatalf("expected 2 sales, got %d", sold.TotalCount)
	}

	adminView, err := svc.ListBought(ctx, "buyer-1", 0, 10, admin)
	if err != nil {
		t.Fatalf("admin lists buyer history: %v", err)
	}
	if adminView.TotalCount != 2 {
		t.Fatalf("expected admin to see buyer history, got %+v", adminView)
	}

	_, err = svc.ListBought(ctx, "buyer-1", 0, 10, stranger)
	if !errors.Is(err, apperrors.New(apperrors.CodeForbidden, "")) {
		t.Fatalf("stranger lists buyer history: expected forbidden, got %v", err)
	}
}
