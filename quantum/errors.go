package quantum

import "errors"

// Errors returned by the simulator. Callers match them with errors.Is; the
// returned errors usually wrap one of these with the offending values.
var (
	ErrInvalidQubitCount       = errors.New("invalid qubit count")
	ErrQubitIndexOutOfRange    = errors.New("qubit index out of range")
	ErrDuplicateQubitIndices   = errors.New("duplicate qubit indices")
	ErrZeroProbabilityCollapse = errors.New("collapse to zero-probability outcome")
	ErrInvalidOutcome          = errors.New("measurement outcome must be 0 or 1")
	ErrCbitOutOfRange          = errors.New("classical bit out of range")
	ErrUnnormalizedState       = errors.New("unnormalized state detected")
	ErrNonUnitary              = errors.New("matrix is not unitary")
	ErrUnsupportedQASM         = errors.New("unsupported qasm statement")
)
