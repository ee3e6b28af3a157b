package apperr

import "github.com/openinventory/inventory-admin/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	// InsufficientStockErr also covers a sale against a missing product:
	// the conditional decrement cannot tell the two apart and the caller
	// message is the same either way.
	InsufficientStockErr = zerror.NewBadRequest("INSUFFICIENT_STOCK", "not enough stock")

	UnauthorizedErr       = zerror.NewUnauthorized("UNAUTHORIZED", "authentication required")
	InvalidCredentialsErr = zerror.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")

	UsernameTakenErr = zerror.NewConflict("USERNAME_TAKEN", "username is already taken")
)
