package api

// FailureReason classifies a failed action for callers that need to map it
// onto a transport status. It is not part of the serialized envelope.
type FailureReason string

// Failure reasons.
const (
	ReasonNone     FailureReason = ""
	ReasonNotFound FailureReason = "not_found"
	ReasonConflict FailureReason = "conflict"
	ReasonInvalid  FailureReason = "invalid"
	ReasonInternal FailureReason = "internal"
)

// ActionState is the uniform result every action returns.
// A failed state never carries Data.
type ActionState[T any] struct {
	IsSuccess bool          `json:"isSuccess"`
	Message   string        `json:"message"`
	Data      *T            `json:"data,omitempty"`
	Reason    FailureReason `json:"-"`
}

// Success builds a successful state carrying data.
func Success[T any](msg string, data T) ActionState[T] {
	d := data
	return ActionState[T]{IsSuccess: true, Message: msg, Data: &d}
}

// SuccessEmpty builds a successful state without a payload.
func SuccessEmpty[T any](msg string) ActionState[T] {
	return ActionState[T]{IsSuccess: true, Message: msg}
}

// Failure builds a failed state.
func Failure[T any](reason FailureReason, msg string) ActionState[T] {
	if reason == ReasonNone {
		reason = ReasonInternal
	}
	return ActionState[T]{Message: msg, Reason: reason}
}

// NoData is the payload type of actions that never return data.
type NoData struct{}
