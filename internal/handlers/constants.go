package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Not authenticated"
	ErrForbidden           = "Admin access required"
	ErrInternalServerError = "Internal server error"
	ErrInvalidUserID       = "Invalid user id"

	maxBodyBytes = 1 << 20
)
