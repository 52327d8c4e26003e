package protocol

import (
	"fmt"

	"qtermsim/quantum"
)

// Teleportation records the two classical bits sent from qubit 0 and 1.
type Teleportation struct {
	M0 int
	M1 int
}

// Teleport moves the state of qubit 0 onto qubit 2, using qubits 1 and 2 as
// the shared Bell pair. Qubits 1 and 2 must start in |0⟩. The Pauli
// correction on qubit 2 is chosen by the measured bits: X when M1 is 1, then
// Z when M0 is 1.
func Teleport(c *quantum.Circuit) (Teleportation, error) {
	var res Teleportation
	if c.NumQubits() < 3 {
		return res, fmt.Errorf("teleport: %w: need 3, have %d", ErrTooFewQubits, c.NumQubits())
	}

	if err := entangleAndMeasure(c, &res); err != nil {
		return res, err
	}
	if res.M1 == 1 {
		if err := c.X(2); err != nil {
			return res, err
		}
	}
	if res.M0 == 1 {
		if err := c.Z(2); err != nil {
			return res, err
		}
	}
	c.Run()
	return res, nil
}

// TeleportUnconditional runs the fixed gate sequence that applies CNOT(1,2)
// and CZ(0,2) regardless of the measured bits. It only reproduces the
// teleported state for basis-state inputs; Teleport is the general protocol.
func TeleportUnconditional(c *quantum.Circuit) (Teleportation, error) {
	var res Teleportation
	if c.NumQubits() < 3 {
		return res, fmt.Errorf("teleport: %w: need 3, have %d", ErrTooFewQubits, c.NumQubits())
	}

	if err := entangleAndMeasure(c, &res); err != nil {
		return res, err
	}
	if err := run(
		func() error { return c.CNOT(1, 2) },
		func() error { return c.CZ(0, 2) },
	); err != nil {
		return res, err
	}
	c.Run()
	return res, nil
}

func entangleAndMeasure(c *quantum.Circuit, res *Teleportation) error {
	err := run(
		func() error { return PreparePhiPlus(c, 1, 2) },
		func() error { return c.CNOT(0, 1) },
		func() error { return c.H(0) },
	)
	if err != nil {
		return err
	}

	if res.M0, err = c.Measure(0); err != nil {
		return err
	}
	res.M1, err = c.Measure(1)
	return err
}
