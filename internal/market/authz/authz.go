// Package authz decides whether a caller may perform a marketplace action.
//
// Authorize is a pure decision function: it inspects only its arguments and
// never touches storage. Denial and "not found" remain distinct error codes
// so callers can choose their own information-hiding policy.
package authz

import (
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/user"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

// Action is the closed set of gated marketplace operations.
type Action int

const (
	// ActionBrowseListings is public read-only catalog access.
	ActionBrowseListings Action = iota
	// ActionRegister creates a new account.
	ActionRegister
	// ActionLogin exchanges credentials for a token.
	ActionLogin
	// ActionCreateListing publishes a listing owned by the caller.
	ActionCreateListing
	// ActionUpdateListing edits listing metadata.
	ActionUpdateListing
	// ActionDeleteListing removes a listing.
	ActionDeleteListing
	// ActionPurchaseListing buys a listing.
	ActionPurchaseListing
	// ActionViewTransaction reads one sale record.
	ActionViewTransaction
	// ActionListTransactions reads a purchase/sale history.
	ActionListTransactions
	// ActionWithdraw debits a balance into a payout request.
	ActionWithdraw
	// ActionListWithdrawals reads a payout history.
	ActionListWithdrawals
	// ActionViewProfile reads account details.
	ActionViewProfile
	// ActionUpdateProfile edits account details.
	ActionUpdateProfile
)

// Caller is the explicit identity a request acts under.
// A zero Caller is unauthenticated.
type Caller struct {
	ID            string
	Role          user.Role
	Authenticated bool
}

var (
	errUnauthenticated = apperrors.New(apperrors.CodeUnauthenticated, "caller is not authenticated")
	errForbidden       = apperrors.New(apperrors.CodeForbidden, "caller may not perform this action")
)

// Authorize reports whether the caller may perform action on a resource
// owned by ownerID. Public actions pass for any caller; admins pass for
// every action; owners pass for owner-scoped actions; everything else is
// denied.
func Authorize(caller Caller, action Action, ownerID string) error {
	if isPublic(action) {
		return nil
	}
	if !caller.Authenticated || strings.TrimSpace(caller.ID) == "" {
		return errUnauthenticated
	}

	switch caller.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleUser:
		if ownerID != "" && caller.ID == ownerID {
			return nil
		}
		return errForbidden
	default:
		return errForbidden
	}
}

func isPublic(action Action) bool {
	switch action {
	case ActionBrowseListings, ActionRegister, ActionLogin:
		return true
	default:
		return false
	}
}
