package protocol

import (
	"fmt"
	"strconv"

	"qtermsim/quantum"
)

// SuperdenseResult is the decoded message and the circuit that carried it.
type SuperdenseResult struct {
	Message string
	Circuit *quantum.Circuit
}

// EncodeSuperdense shares a Φ+ pair on qubits 0 and 1 and encodes a two-bit
// message by acting on qubit 0 only: "00" nothing, "01" X, "10" Z, "11" X
// then Z.
func EncodeSuperdense(c *quantum.Circuit, message string) error {
	var steps []func() error
	switch message {
	case "00":
	case "01":
		steps = append(steps, func() error { return c.X(0) })
	case "10":
		steps = append(steps, func() error { return c.Z(0) })
	case "11":
		steps = append(steps,
			func() error { return c.X(0) },
			func() error { return c.Z(0) },
		)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMessage, message)
	}
	if c.NumQubits() < 2 {
		return fmt.Errorf("superdense: %w: need 2, have %d", ErrTooFewQubits, c.NumQubits())
	}

	if err := PreparePhiPlus(c, 0, 1); err != nil {
		return err
	}
	return run(steps...)
}

// DecodeSuperdense undoes the Bell pair and measures both qubits. The
// message lists qubit 0's bit first.
func DecodeSuperdense(c *quantum.Circuit) (string, error) {
	err := run(
		func() error { return c.CNOT(0, 1) },
		func() error { return c.H(0) },
	)
	if err != nil {
		return "", err
	}
	c.Run()

	bits, err := c.MeasureAll()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(bits[0]) + strconv.Itoa(bits[1]), nil
}

// SendTwoBits runs encode and decode on a fresh two-qubit circuit.
func SendTwoBits(message string, opts ...quantum.Option) (SuperdenseResult, error) {
	c, err := quantum.New(2, opts...)
	if err != nil {
		return SuperdenseResult{}, err
	}
	if err := EncodeSuperdense(c, message); err != nil {
		return SuperdenseResult{}, err
	}
	decoded, err := DecodeSuperdense(c)
	if err != nil {
		return SuperdenseResult{}, err
	}
	return SuperdenseResult{Message: decoded, Circuit: c}, nil
}
