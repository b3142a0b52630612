// Package listing provides the book listing domain.
package listing

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
	"github.com/louisbranch/bookmarket/internal/platform/id"
	"github.com/louisbranch/bookmarket/internal/platform/money"
)

var (
	// ErrEmptyTitle indicates a missing listing title.
	ErrEmptyTitle = apperrors.New(apperrors.CodeListingTitleEmpty, "listing title is required")
	// ErrInvalidPrice indicates a non-positive listing price.
	ErrInvalidPrice = apperrors.New(apperrors.CodeListingPriceInvalid, "listing price must be greater than zero")
)

// Listing represents one book offered for sale.
// Available flips to false exactly once, at the moment of purchase.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Condition   string
	AuthorName  string
	Price       money.Amount
	PictureURL  string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateListingInput describes the metadata needed to publish a listing.
// Price is the decimal form supplied by the seller ("49.99" or "49,99").
type CreateListingInput struct {
	OwnerID     string
	Title       string
	Description string
	Condition   string
	AuthorName  string
	Price       string
	PictureURL  string
}

// UpdateListingInput describes an owner edit of listing metadata.
// Availability is not editable; only the purchase workflow clears it.
type UpdateListingInput struct {
	Title       string
	Description string
	Condition   string
	AuthorName  string
	Price       string
	PictureURL  string
}

// CreateListing creates a listing record from validated input.
func CreateListing(input CreateListingInput, now func() time.Time, idGenerator func() (string, error)) (Listing, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return Listing{}, fmt.Errorf("owner id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Listing{}, ErrEmptyTitle
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return Listing{}, err
	}

	listingID, err := idGenerator()
	if err != nil {
		return Listing{}, fmt.Errorf("generate listing id: %w", err)
	}

	createdAt := now().UTC()
	return Listing{
		ID:          listingID,
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Condition:   strings.TrimSpace(input.Condition),
		AuthorName:  strings.TrimSpace(input.AuthorName),
		Price:       price,
		PictureURL:  strings.TrimSpace(input.PictureURL),
		Available:   true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// ApplyUpdate returns the listing with edited metadata applied.
// An empty PictureURL keeps the existing picture, matching upload-optional edits.
func ApplyUpdate(current Listing, input UpdateListingInput, now func() time.Time) (Listing, error) {
	if now == nil {
		now = time.Now
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Listing{}, ErrEmptyTitle
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return Listing{}, err
	}

	current.Title = title
	current.Description = strings.TrimSpace(input.Description)
	current.Condition = strings.TrimSpace(input.Condition)
	current.AuthorName = strings.TrimSpace(input.AuthorName)
	current.Price = price
	if pictureURL := strings.TrimSpace(input.PictureURL); pictureURL != "" {
		current.PictureURL = pictureURL
	}
	current.UpdatedAt = now().UTC()
	return current, nil
}

func parsePrice(value string) (money.Amount, error) {
	price, err := money.ParseDecimal(value)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if !price.IsPositive() {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
