// Package storage defines persistence contracts for marketplace state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/bookmarket/internal/market/listing"
	"github.com/louisbranch/bookmarket/internal/market/user"
	"github.com/louisbranch/bookmarket/internal/platform/money"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrListingUnavailable indicates the conditioned availability flip matched no row.
	ErrListingUnavailable = errors.New("listing is not available")
	// ErrInsufficientFunds indicates the conditioned balance debit matched no row.
	ErrInsufficientFunds = errors.New("balance is insufficient")
)

// Shipment is the delivery snapshot embedded in a sale record.
type Shipment struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	City            string
	PostalCode      string
	Street          string
	StreetNumber    string
	ApartmentNumber string
}

// Payment is the opaque payment snapshot embedded in a sale record.
// Card data is stored as supplied; it is never validated or charged.
type Payment struct {
	CardNumber     string
	ExpirationDate string
	CVC            string
}

// Transaction is one immutable sale record.
// Price is copied from the listing at purchase time and never re-read.
type Transaction struct {
	ID        string
	ListingID string
	BuyerID   string
	SellerID  string
	Price     money.Amount
	Shipment  Shipment
	Payment   Payment
	CreatedAt time.Time
}

// Withdrawal is one immutable balance payout request.
type Withdrawal struct {
	ID            string
	UserID        string
	AccountNumber string
	Amount        money.Amount
	CreatedAt     time.Time
}

// ListingPage is one page of listing records with total-count metadata.
type ListingPage struct {
	Listings   []listing.Listing
	TotalCount int64
}

// TransactionPage is one page of sale records with total-count metadata.
type TransactionPage struct {
	Transactions []Transaction
	TotalCount   int64
}

// WithdrawalPage is one page of payout records with total-count metadata.
type WithdrawalPage struct {
	Withdrawals []Withdrawal
	TotalCount  int64
}

// UserStore persists account records.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName, pictureURL, description string, updatedAt time.Time) error
}

// ListingStore persists listing records. Availability is written only by the
// purchase workflow in TransactionStore.
type ListingStore interface {
	CreateListing(ctx context.Context, l listing.Listing) error
	GetListing(ctx context.Context, listingID string) (listing.Listing, error)
	UpdateListing(ctx context.Context, l listing.Listing) error
	DeleteListing(ctx context.Context, listingID string) error
	ListAvailableListings(ctx context.Context, pageIndex, pageSize int) (ListingPage, error)
}

// TransactionStore persists the append-only ledger of sales.
//
// RecordPurchase applies the whole purchase effect as one atomic unit: the
// conditioned availability flip, the sale insert, the seller balance credit,
// and both reputation increments. It returns ErrListingUnavailable when the
// listing exists but was already sold (the losing side of a race) and
// ErrNotFound when the listing is missing.
type TransactionStore interface {
	RecordPurchase(ctx context.Context, tx Transaction) error
	GetTransaction(ctx context.Context, txID string) (Transaction, error)
	ListTransactionsByBuyer(ctx context.Context, buyerID string, pageIndex, pageSize int) (TransactionPage, error)
	ListTransactionsBySeller(ctx context.Context, sellerID string, pageIndex, pageSize int) (TransactionPage, error)
}

// WithdrawalStore persists the append-only payout ledger.
//
// RecordWithdrawal debits the balance and inserts the payout record as one
// atomic unit. The debit is conditioned on balance >= amount; when no row
// matches it returns ErrInsufficientFunds (or ErrNotFound for a missing user).
type WithdrawalStore interface {
	RecordWithdrawal(ctx context.Context, w Withdrawal) error
	ListWithdrawalsByUser(ctx context.Context, userID string, pageIndex, pageSize int) (WithdrawalPage, error)
}
