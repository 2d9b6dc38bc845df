package tools

import "errors"

// Tool error taxonomy. The orchestration layer treats ErrInvalidInput as
// a programming-contract violation (it cannot occur when the router is
// correct) and ErrGenerationFailed as recoverable-with-fallback. There
// is no validation-failure sentinel: the pipeline absorbs validation
// failures into a fallback scene (add) or into keeping the existing
// code (edit), so tools never see one as an error.
var (
	// ErrInvalidInput marks a contract violation in the tool's input.
	ErrInvalidInput = errors.New("invalid tool input")

	// ErrGenerationFailed marks an upstream generation failure (LLM
	// error or timeout).
	ErrGenerationFailed = errors.New("generation failed")

	// ErrToolNotFound is returned when a tool is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrConflictingRegistration is returned when a name is re-registered
	// with a different implementation. Re-registering the identical tool
	// is a no-op, which keeps initialization idempotent under repeated
	// wiring.
	ErrConflictingRegistration = errors.New("tool already registered with a different implementation")

	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")
)
