package service

// Engine error kinds. Every mutating entry point folds its failure into an
// OperationResult carrying one of these instead of letting a store error
// escape the boundary.
const (
	ErrProjectNotFound       = "PROJECT_NOT_FOUND"
	ErrNoWarehouse           = "NO_WAREHOUSE"
	ErrInsufficientMaterials = "INSUFFICIENT_MATERIALS"
	ErrInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrNoReservedMaterials   = "NO_RESERVED_MATERIALS"
	ErrUnknown               = "UNKNOWN_ERROR"
)

// KindError is an internal error tagged with its taxonomy kind, used to
// carry typed failures out of a transaction closure.
type KindError struct {
	Kind    string
	Message string
}

func (e *KindError) Error() string {
	return e.Message
}

// OperationResult is the uniform shape returned to the workflow for every
// engine operation, so the caller can decide whether its own status change
// may proceed.
type OperationResult struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Error    string         `json:"error,omitempty"`
	Consumed []ConsumedLine `json:"consumed,omitempty"`
	Returned []ReturnedLine `json:"returned,omitempty"`
}

// ConsumedLine reports one stock decrement made by Consume.
type ConsumedLine struct {
	MaterialID     string `json:"material_id"`
	MaterialName   string `json:"material_name"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
}

// ReturnedLine reports one row closed out by Return.
type ReturnedLine struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
}

func failure(kind, message string) *OperationResult {
	return &OperationResult{Success: false, Message: message, Error: kind}
}

func success(message string) *OperationResult {
	return &OperationResult{Success: true, Message: message}
}
