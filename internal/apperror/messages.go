package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceUnavailable:   "Service temporarily unavailable",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeFetchTimeout:      "Quote fetch timed out",
	CodeRateLimitExceeded: "Venue rate limit exceeded",
	CodeSymbolNotListed:   "Symbol not listed on venue",
	CodeMalformedResponse: "Malformed venue response",
	CodeTransportError:    "Transport error talking to venue",

	CodeInsufficientQuotes:     "Fewer than two valid quotes",
	CodeInvalidQuote:           "Invalid quote data",
	CodePriceOutOfBounds:       "Price failed sanity bounds",
	CodeSpreadCalculationError: "Spread calculation error",
	CodeProfitCalculationError: "Profit calculation error",

	CodeCircuitOpen: "Circuit breaker is open",
}
