package service

import (
	"context"
	"errors"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/listing"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/platform/pagination"
)

// CreateListing publishes a listing owned by the caller.
func (s *Service) CreateListing(ctx context.Context, input listing.CreateListingInput, caller authz.Caller) (listing.Listing, error) {
	if err := authz.Authorize(caller, authz.ActionCreateListing, caller.ID); err != nil {
		return listing.Listing{}, err
	}

	input.OwnerID = caller.ID
	created, err := listing.CreateListing(input, s.clock, s.idGenerator)
	if err != nil {
		return listing.Listing{}, err
	}

	if err := s.stores.Listings.CreateListing(ctx, created); err != nil {
		return listing.Listing{}, mapStorageErr("create listing", err)
	}
	return created, nil
}

// GetListing returns one listing. Catalog reads are public.
func (s *Service) GetListing(ctx context.Context, listingID string) (listing.Listing, error) {
	found, err := s.stores.Listings.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return listing.Listing{}, errNotFound("listing not found")
		}
		return listing.Listing{}, mapStorageErr("get listing", err)
	}
	return found, nil
}

// BrowseListings returns one page of available listings, newest first.
func (s *Service) BrowseListings(ctx context.Context, pageIndex, pageSize int) (storage.ListingPage, error) {
	pageSize = pagination.ClampPageSize(pageSize, pageSizeConfig)
	page, err := s.stores.Listings.ListAvailableListings(ctx, pagination.ClampPageIndex(pageIndex), pageSize)
	if err != nil {
		return storage.ListingPage{}, mapStorageErr("browse listings", err)
	}
	return page, nil
}

// UpdateListing edits listing metadata for its owner or an admin.
func (s *Service) UpdateListing(ctx context.Context, listingID string, input listing.UpdateListingInput, caller authz.Caller) (listing.Listing, error) {
	current, err := s.stores.Listings.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return listing.Listing{}, errNotFound("listing not found")
		}
		return listing.Listing{}, mapStorageErr("get listing", err)
	}
	if err := authz.Authorize(caller, authz.ActionUpdateListing, current.OwnerID); err != nil {
		return listing.Listing{}, err
	}

	updated, err := listing.ApplyUpdate(current, input, s.clock)
	if err != nil {
		return listing.Listing{}, err
	}
	if err := s.stores.Listings.UpdateListing(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return listing.Listing{}, errNotFound("listing not found")
		}
		return listing.Listing{}, mapStorageErr("update listing", err)
	}
	return updated, nil
}

// DeleteListing removes a listing for its owner or an admin, regardless of
// availability state.
func (s *Service) DeleteListing(ctx context.Context, listingID string, caller authz.Caller) error {
	current, err := s.stores.Listings.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound("listing not found")
		}
		return mapStorageErr("get listing", err)
	}
	if err := authz.Authorize(caller, authz.ActionDeleteListing, current.OwnerID); err != nil {
		return err
	}

	if err := s.stores.Listings.DeleteListing(ctx, listingID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound("listing not found")
		}
		return mapStorageErr("delete listing", err)
	}
	return nil
}
