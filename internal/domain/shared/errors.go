package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Ledger and posting errors
var (
	ErrPeriodClosed    = NewDomainError("PERIOD_CLOSED", "Posting date falls in a closed period")
	ErrUnbalancedEntry = NewDomainError("UNBALANCED_ENTRY", "Journal entry debits and credits do not balance")
	ErrZeroEntry       = NewDomainError("ZERO_ENTRY", "Journal entry has no non-zero lines")
	ErrDuplicateNumber = NewDomainError("DUPLICATE_NUMBER", "Account number already exists for this company")
	ErrDuplicateTag    = NewDomainError("DUPLICATE_SYSTEM_TAG", "System tag already assigned for this company")
	ErrAccountMissing  = NewDomainError("ACCOUNT_MISSING", "Required account is not configured")
	ErrWrongSide       = NewDomainError("WRONG_SIDE", "Line posts to the wrong side for this account type")
)

// Inventory errors
var (
	ErrInsufficientStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientBatch    = NewDomainError("INSUFFICIENT_BATCH", "Insufficient quantity in the selected batch")
	ErrFractionalQuantity   = NewDomainError("FRACTIONAL_NOT_ALLOWED", "Item does not allow fractional quantities")
	ErrCostingMethodMissing = NewDomainError("COSTING_METHOD_MISSING", "Item has no costing method configured")
)

// Transaction errors
var (
	ErrIncompatibleCategory     = NewDomainError("INCOMPATIBLE_CATEGORY", "Category is not allowed for this transaction type")
	ErrIncompatibleCounterparty = NewDomainError("INCOMPATIBLE_COUNTERPARTY", "Counterparty role does not match this transaction type")
	ErrOverpayment              = NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding balance")
)

// Asset errors
var (
	ErrAlreadyPosted  = NewDomainError("ALREADY_POSTED", "Depreciation already posted for this asset and date")
	ErrAtSalvage      = NewDomainError("AT_SALVAGE", "Asset book value has reached salvage value")
	ErrNotDepreciable = NewDomainError("NOT_DEPRECIABLE", "Asset has no depreciation method configured")
)

// Subscription errors
var (
	ErrSubscriptionExpired    = NewDomainError("SUBSCRIPTION_EXPIRED", "Subscription has expired")
	ErrSubscriptionCapReached = NewDomainError("SUBSCRIPTION_CAP_REACHED", "Subscription user limit reached")
	ErrFeatureNotIncluded     = NewDomainError("FEATURE_NOT_INCLUDED", "Current plan does not include this feature")
)
