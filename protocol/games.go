package protocol

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"qtermsim/quantum"
)

var ErrInvalidRange = errors.New("invalid range")

// CoinOutcome is the measured coin: 0 means the machine wins.
type CoinOutcome int

const (
	MachineWins CoinOutcome = 0
	PlayerWins  CoinOutcome = 1
)

func (o CoinOutcome) String() string {
	if o == MachineWins {
		return "Quantum computer wins!"
	}
	return "You win!"
}

// CoinGame plays the quantum penny flip: the machine puts the coin into
// |+⟩, the player flips it or not, the machine applies H again and looks.
// X leaves |+⟩ unchanged, so the machine always wins.
func CoinGame(flip bool, opts ...quantum.Option) (CoinOutcome, error) {
	c, err := quantum.New(1, opts...)
	if err != nil {
		return 0, err
	}

	player := c.I
	if flip {
		player = c.X
	}
	if err := run(
		func() error { return c.H(0) },
		func() error { return player(0) },
		func() error { return c.H(0) },
	); err != nil {
		return 0, err
	}
	c.Run()

	out, err := c.Measure(0)
	return CoinOutcome(out), err
}

// RandomNumber returns a uniform integer in [0, limit]. It measures a
// uniform superposition over as many qubits as limit has bits, reading
// qubit 0 as the most significant bit, and retries when the draw exceeds
// limit.
func RandomNumber(limit int, opts ...quantum.Option) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit %d", ErrInvalidRange, limit)
	}
	width := bits.Len(uint(limit))
	if width == 0 {
		width = 1
	}

	for {
		c, err := quantum.New(width, opts...)
		if err != nil {
			return 0, err
		}
		for q := range width {
			if err := c.H(q); err != nil {
				return 0, err
			}
		}
		c.Run()

		measured, err := c.MeasureAll()
		if err != nil {
			return 0, err
		}
		value := 0
		for _, b := range measured {
			value = value<<1 | b
		}
		if value <= limit {
			return value, nil
		}
	}
}

// RandomInRange returns a uniform integer in [lo, hi].
func RandomInRange(lo, hi int, opts ...quantum.Option) (int, error) {
	if hi < lo {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, lo, hi)
	}
	n, err := RandomNumber(hi-lo, opts...)
	if err != nil {
		return 0, err
	}
	return n + lo, nil
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns length characters drawn from [A-Za-z0-9].
func RandomString(length int, opts ...quantum.Option) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: length %d", ErrInvalidRange, length)
	}
	var sb strings.Builder
	for range length {
		idx, err := RandomNumber(len(alphanumeric)-1, opts...)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphanumeric[idx])
	}
	return sb.String(), nil
}
