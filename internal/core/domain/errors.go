package domain

import "errors"

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthentication
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Sentinels below are compared by identity
// with errors.Is, so callers may wrap them freely.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Credential errors.
var (
	ErrInvalidHandle      = newError(KindValidation, "login handle must be between 3 and 50 characters")
	ErrWeakPassword       = newError(KindValidation, "password must be at least 6 characters")
	ErrPasswordTooLong    = newError(KindValidation, "password must be at most 72 bytes")
	ErrDuplicateHandle    = newError(KindValidation, "login handle already registered")
	ErrDuplicateIdentity  = newError(KindValidation, "identity key already registered")
	ErrInvalidRole        = newError(KindValidation, "role must be one of: administrator, salesperson, owner")
	ErrInvalidIdentityKey = newError(KindValidation, "identity key is required")
	ErrCredentialNotFound = newError(KindNotFound, "credential not found")
	ErrInvalidCredentials = newError(KindAuthentication, "invalid credentials")
	ErrInvalidToken       = newError(KindAuthentication, "invalid or expired token")
	ErrForbidden          = newError(KindAuthorization, "access forbidden")
)

// Catalog errors.
var (
	ErrPropertyNotFound    = newError(KindNotFound, "property not found")
	ErrOwnerNotFound       = newError(KindNotFound, "owner not found")
	ErrClientNotFound      = newError(KindNotFound, "client not found")
	ErrOwnerExists         = newError(KindValidation, "owner already exists")
	ErrClientExists        = newError(KindValidation, "client already exists")
	ErrUnknownOwner        = newError(KindValidation, "referenced owner does not exist")
	ErrInvalidAvailability = newError(KindValidation, "availability must be one of: for_sale, for_rent, negotiating, sold, rented")
	ErrInvalidPrice        = newError(KindValidation, "price must be between 0 and 999999999999.99")
)

// Sale errors.
var (
	ErrSaleNotFound          = newError(KindNotFound, "sale not found")
	ErrUnknownProperty       = newError(KindValidation, "referenced property does not exist")
	ErrUnknownClient         = newError(KindValidation, "referenced client does not exist")
	ErrInvalidAmount         = newError(KindValidation, "amount must be between 0 and 999999999999.99")
	ErrInvalidStatus         = newError(KindValidation, "status must be one of: pending, in_progress, completed, cancelled")
	ErrIdempotencyInProgress = newError(KindConflict, "a request with this idempotency key is still in progress")
	ErrPropertyAlreadySold   = newError(KindConflict, "property is already sold")
)

// KindOf returns the classification of err, or KindInternal when err carries
// no domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsDomain reports whether err is a classified, client-facing error.
func IsDomain(err error) bool {
	return err != nil && KindOf(err) != KindInternal
}
