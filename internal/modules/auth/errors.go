package auth

// Category is the user-facing classification of an identity failure.
// Provider-specific codes never leave this package.
type Category string

const (
	CategoryInvalidEmail      Category = "invalid-email"
	CategoryUserDisabled      Category = "user-disabled"
	CategoryUserNotFound      Category = "user-not-found"
	CategoryWrongPassword     Category = "wrong-password"
	CategoryInvalidCredential Category = "invalid-credential"
	CategoryTooManyRequests   Category = "too-many-requests"
	CategoryUnknown           Category = "unknown"
)

// Error wraps an identity failure with its category.
type Error struct {
	Category Category
	cause    error
}

func (e *Error) Error() string {
	return "auth: " + string(e.Category)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(cat Category, cause error) *Error {
	return &Error{Category: cat, cause: cause}
}

// Categorize extracts the category, defaulting to unknown.
func Categorize(err error) Category {
	if e, ok := err.(*Error); ok {
		return e.Category
	}
	return CategoryUnknown
}
