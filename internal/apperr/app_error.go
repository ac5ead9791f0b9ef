package apperr

import "github.com/tuanvumaihuynh/storefront/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	InvalidFilterCode      = "INVALID_FILTER"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	EmailTakenCode         = "EMAIL_ALREADY_REGISTERED"
	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	UnauthorizedCode       = "UNAUTHORIZED"
	ForbiddenCode          = "FORBIDDEN"
	RouteNotFoundCode      = "ROUTE_NOT_FOUND"
	MethodNotAllowedCode   = "METHOD_NOT_ALLOWED"
	NetworkErrorCode       = "NETWORK_ERROR"
	MalformedResponseCode  = "MALFORMED_RESPONSE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	// InvalidFilterErr is returned when a listing filter names an unknown
	// field or carries a value that does not parse to the column type.
	InvalidFilterErr = zerror.NewBadRequest(InvalidFilterCode, "invalid filter")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")

	EmailTakenErr         = zerror.NewConflict(EmailTakenCode, "email already registered")
	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid email or password")
	UnauthorizedErr       = zerror.NewUnauthorized(UnauthorizedCode, "authentication required")
	ForbiddenErr          = zerror.NewForbidden(ForbiddenCode, "access denied")

	RouteNotFoundErr    = zerror.NewNotFound(RouteNotFoundCode, "route not found")
	MethodNotAllowedErr = zerror.NewMethodNotAllowed(MethodNotAllowedCode, "method not allowed")

	// NetworkErr and MalformedResponseErr are raised by the API client.
	NetworkErr           = zerror.NewBadGateway(NetworkErrorCode, "could not reach the storefront API")
	MalformedResponseErr = zerror.NewBadGateway(MalformedResponseCode, "unexpected response from the storefront API")
)
