package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/listing"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/platform/money"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
)

const listingColumns = `id, owner_id, title, description, condition, author_name,
       price, picture_url, available, created_at, updated_at`

// CreateListing inserts one listing record.
func (s *Store) CreateListing(ctx context.Context, l listing.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("listing id is required")
	}
	if strings.TrimSpace(l.OwnerID) == "" {
		return fmt.Errorf("owner id is required")
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !l.Price.IsPositive() {
		return fmt.Errorf("price must be greater than zero")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO listings (
		   id, owner_id, title, description, condition, author_name,
		   price, picture_url, available, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.OwnerID,
		l.Title,
		l.Description,
		l.Condition,
		l.AuthorName,
		l.Price.Cents(),
		l.PictureURL,
		boolToInt(l.Available),
		toMillis(l.CreatedAt),
		toMillis(l.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// GetListing returns one listing by ID.
func (s *Store) GetListing(ctx context.Context, listingID string) (listing.Listing, error) {
	if err := ctx.Err(); err != nil {
		return listing.Listing{}, err
	}
	if err := s.ready(); err != nil {
		return listing.Listing{}, err
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return listing.Listing{}, fmt.Errorf("listing id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, listingID)
	return scanListing(row)
}

// UpdateListing rewrites listing metadata. The available flag is not written
// here; only RecordPurchase clears it, under its conditioned update.
func (s *Store) UpdateListing(ctx context.Context, l listing.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("listing id is required")
	}
	if !l.Price.IsPositive() {
		return fmt.Errorf("price must be greater than zero")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE listings
		    SET title = ?, description = ?, condition = ?, author_name = ?,
		        price = ?, picture_url = ?, updated_at = ?
		  WHERE id = ?`,
		l.Title,
		l.Description,
		l.Condition,
		l.AuthorName,
		l.Price.Cents(),
		l.PictureURL,
		toMillis(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteListing removes one listing regardless of availability state.
func (s *Store) DeleteListing(ctx context.Context, listingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return fmt.Errorf("listing id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, listingID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListAvailableListings returns one page of available listings, newest first.
func (s *Store) ListAvailableListings(ctx context.Context, pageIndex, pageSize int) (storage.ListingPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ListingPage{}, err
	}
	if pageSize <= 0 {
		return storage.ListingPage{}, fmt.Errorf("page size must be greater than zero")
	}

	page := storage.ListingPage{Listings: make([]listing.Listing, 0, pageSize)}
	if err := s.sqlDB.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM listings WHERE available = 1`,
	).Scan(&page.TotalCount); err != nil {
		return storage.ListingPage{}, fmt.Errorf("count listings: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+listingColumns+`
		   FROM listings
		  WHERE available = 1
		  ORDER BY created_at DESC, id DESC
		  LIMIT ? OFFSET ?`,
		pageSize,
		pagination.Offset(pageIndex, pageSize),
	)
	if err != nil {
		return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
		}
		page.Listings = append(page.Listings, l)
	}
	if err := rows.Err(); err != nil {
		return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
	}
	return page, nil
}

func scanListing(row rowScanner) (listing.Listing, error) {
	var l listing.Listing
	var price int64
	var available int
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Title,
		&l.Description,
		&l.Condition,
		&l.AuthorName,
		&price,
		&l.PictureURL,
		&available,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return listing.Listing{}, storage.ErrNotFound
		}
		return listing.Listing{}, fmt.Errorf("scan listing: %w", err)
	}
	l.Price = money.Amount(price)
	l.Available = available != 0
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return l, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
