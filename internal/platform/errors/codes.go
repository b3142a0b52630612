package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"

	// User errors
	CodeUserEmailInvalid     Code = "USER_EMAIL_INVALID"
	CodeUserEmailTaken       Code = "USER_EMAIL_TAKEN"
	CodeUserPasswordTooShort Code = "USER_PASSWORD_TOO_SHORT"
	CodeUserEmptyName        Code = "USER_EMPTY_NAME"
	CodeUserInvalidRole      Code = "USER_INVALID_ROLE"

	// Listing errors
	CodeListingTitleEmpty   Code = "LISTING_TITLE_EMPTY"
	CodeListingPriceInvalid Code = "LISTING_PRICE_INVALID"
	CodeListingAlreadySold  Code = "LISTING_ALREADY_SOLD"
	CodeListingSelfPurchase Code = "LISTING_SELF_PURCHASE"

	// Withdrawal errors
	CodeWithdrawalAmountInvalid     Code = "WITHDRAWAL_AMOUNT_INVALID"
	CodeWithdrawalInsufficientFunds Code = "WITHDRAWAL_INSUFFICIENT_FUNDS"

	// Money errors
	CodeMoneyInvalidAmount Code = "MONEY_INVALID_AMOUNT"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeUserEmailInvalid,
		CodeUserPasswordTooShort,
		CodeUserEmptyName,
		CodeUserInvalidRole,
		CodeListingTitleEmpty,
		CodeListingPriceInvalid,
		CodeListingSelfPurchase,
		CodeWithdrawalAmountInvalid,
		CodeWithdrawalInsufficientFunds,
		CodeMoneyInvalidAmount:
		return codes.InvalidArgument

	// Unauthenticated - no valid caller identity
	case CodeUnauthenticated,
		CodeTokenInvalid,
		CodeTokenExpired,
		CodeInvalidCredentials:
		return codes.Unauthenticated

	// PermissionDenied - valid identity, insufficient privilege
	case CodeForbidden:
		return codes.PermissionDenied

	// FailedPrecondition - state doesn't allow operation
	case CodeListingAlreadySold:
		return codes.FailedPrecondition

	// AlreadyExists - uniqueness violations
	case CodeUserEmailTaken:
		return codes.AlreadyExists

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// Unavailable - transient storage failure, caller may retry
	case CodeStorageUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
