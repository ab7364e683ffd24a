package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Quote fetch error codes. Every adapter failure maps to exactly one of
// these five; the aggregator recovers all of them locally.
const (
	CodeFetchTimeout      Code = "FETCH_TIMEOUT"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	CodeSymbolNotListed   Code = "SYMBOL_NOT_LISTED"
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
	CodeTransportError    Code = "TRANSPORT_ERROR"
)

// Pipeline error codes
const (
	CodeInsufficientQuotes     Code = "INSUFFICIENT_QUOTES"
	CodeInvalidQuote           Code = "INVALID_QUOTE"
	CodePriceOutOfBounds       Code = "PRICE_OUT_OF_BOUNDS"
	CodeSpreadCalculationError Code = "SPREAD_CALCULATION_ERROR"
	CodeProfitCalculationError Code = "PROFIT_CALCULATION_ERROR"
)

// Circuit breaker errors
const (
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
