package generic

// =============================================================================
// OPERATION RESULT - Explicit outcome handed to presentation
// =============================================================================

// OperationStatus is the state of a boundary operation as seen by a caller.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "success"
	StatusError   OperationStatus = "error"
	StatusPending OperationStatus = "pending"
)

// OperationResult carries a value together with its status, so callers never
// need shared state to know whether a fetch succeeded.
type OperationResult[T any] struct {
	Status  OperationStatus `json:"status"`
	Value   T               `json:"value,omitempty"`
	Message string          `json:"message,omitempty"`
}

func Succeeded[T any](v T) OperationResult[T] {
	return OperationResult[T]{Status: StatusSuccess, Value: v}
}

func Failed[T any](message string) OperationResult[T] {
	return OperationResult[T]{Status: StatusError, Message: message}
}

func Pending[T any]() OperationResult[T] {
	return OperationResult[T]{Status: StatusPending}
}

func (r OperationResult[T]) OK() bool { return r.Status == StatusSuccess }
