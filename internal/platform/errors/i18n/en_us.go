package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnauthenticated             = "UNAUTHENTICATED"
	CodeForbidden                   = "FORBIDDEN"
	CodeTokenInvalid                = "TOKEN_INVALID"
	CodeTokenExpired                = "TOKEN_EXPIRED"
	CodeInvalidCredentials          = "INVALID_CREDENTIALS"
	CodeUserEmailInvalid            = "USER_EMAIL_INVALID"
	CodeUserEmailTaken              = "USER_EMAIL_TAKEN"
	CodeUserPasswordTooShort        = "USER_PASSWORD_TOO_SHORT"
	CodeUserEmptyName               = "USER_EMPTY_NAME"
	CodeUserInvalidRole             = "USER_INVALID_ROLE"
	CodeListingTitleEmpty           = "LISTING_TITLE_EMPTY"
	CodeListingPriceInvalid         = "LISTING_PRICE_INVALID"
	CodeListingAlreadySold          = "LISTING_ALREADY_SOLD"
	CodeListingSelfPurchase         = "LISTING_SELF_PURCHASE"
	CodeWithdrawalAmountInvalid     = "WITHDRAWAL_AMOUNT_INVALID"
	CodeWithdrawalInsufficientFunds = "WITHDRAWAL_INSUFFICIENT_FUNDS"
	CodeMoneyInvalidAmount          = "MONEY_INVALID_AMOUNT"
	CodeNotFound                    = "NOT_FOUND"
	CodeStorageUnavailable          = "STORAGE_UNAVAILABLE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Auth errors
		CodeUnauthenticated:    "You must be signed in to do that",
		CodeForbidden:          "You do not have access to this resource",
		CodeTokenInvalid:       "Session token is invalid",
		CodeTokenExpired:       "Session token has expired",
		CodeInvalidCredentials: "Email or password is incorrect",

		// User errors
		CodeUserEmailInvalid:     "Email address is not valid",
		CodeUserEmailTaken:       "An account with this email already exists",
		CodeUserPasswordTooShort: "Password must be at least {{.MinLength}} characters",
		CodeUserEmptyName:        "First and last name are required",
		CodeUserInvalidRole:      "Invalid user role specified",

		// Listing errors
		CodeListingTitleEmpty:   "Listing title cannot be empty",
		CodeListingPriceInvalid: "Listing price must be greater than zero",
		CodeListingAlreadySold:  "This book has already been sold",
		CodeListingSelfPurchase: "You cannot buy your own listing",

		// Withdrawal errors
		CodeWithdrawalAmountInvalid:     "Withdrawal amount must be greater than zero",
		CodeWithdrawalInsufficientFunds: "Insufficient funds for this withdrawal",

		// Money errors
		CodeMoneyInvalidAmount: "Amount {{.Value}} is not a valid monetary value",

		// Storage errors
		CodeNotFound:           "The requested resource was not found",
		CodeStorageUnavailable: "The service is temporarily unavailable, please retry",
	},
}
