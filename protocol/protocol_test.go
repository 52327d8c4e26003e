package protocol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

const tol = 1e-9

func seeded(seed uint64) quantum.Option {
	return quantum.WithRand(quantum.NewSeededRand(seed))
}

func TestPrepareBell(t *testing.T) {
	tests := []struct {
		kind    BellState
		support [2]int
		sign    float64 // relative sign of the second support amplitude
	}{
		{PhiPlus, [2]int{0, 3}, 1},
		{PhiMinus, [2]int{0, 3}, -1},
		{PsiPlus, [2]int{1, 2}, 1},
		{PsiMinus, [2]int{1, 2}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c, err := quantum.New(2)
			require.NoError(t, err)
			require.NoError(t, PrepareBell(c, tt.kind, 0, 1))

			p := c.Probabilities()
			for i, prob := range p {
				if i == tt.support[0] || i == tt.support[1] {
					assert.InDelta(t, 0.5, prob, tol, "index %d", i)
				} else {
					assert.InDelta(t, 0, prob, tol, "index %d", i)
				}
			}

			amps := c.State().Amplitudes
			ratio := amps[tt.support[1]] / amps[tt.support[0]]
			assert.InDelta(t, tt.sign, real(ratio), tol)
			assert.InDelta(t, 0, imag(ratio), tol)
		})
	}
}

func TestPrepareBellOnOtherQubits(t *testing.T) {
	c, err := quantum.New(3)
	require.NoError(t, err)
	require.NoError(t, PreparePsiPlus(c, 2, 0))

	// Ψ+ on (a=2, b=0): |a=0,b=1⟩ is index 1, |a=1,b=0⟩ is index 4.
	p := c.Probabilities()
	assert.InDelta(t, 0.5, p[1], tol)
	assert.InDelta(t, 0.5, p[4], tol)
}

func TestPrepareBellRejectsBadQubits(t *testing.T) {
	c, err := quantum.New(2)
	require.NoError(t, err)

	assert.ErrorIs(t, PrepareBell(c, PhiPlus, 1, 1), quantum.ErrDuplicateQubitIndices)
	assert.ErrorIs(t, PrepareBell(c, PhiPlus, 0, 2), quantum.ErrQubitIndexOutOfRange)
	assert.ErrorIs(t, PrepareBell(c, BellState(9), 0, 1), ErrUnknownBellState)
	assert.Empty(t, c.Ops())
	assert.InDelta(t, 1, c.Probabilities()[0], tol)
}

func TestParseBellState(t *testing.T) {
	for input, want := range map[string]BellState{
		"phi+":      PhiPlus,
		"PhiMinus":  PhiMinus,
		"psi_plus":  PsiPlus,
		" psi- ":    PsiMinus,
		"psiminus":  PsiMinus,
		"phi_minus": PhiMinus,
	} {
		got, err := ParseBellState(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseBellState("omega")
	assert.ErrorIs(t, err, ErrUnknownBellState)
}

func TestTeleportBasisOne(t *testing.T) {
	for seed := range uint64(16) {
		for name, teleport := range map[string]func(*quantum.Circuit) (Teleportation, error){
			"conditional":   Teleport,
			"unconditional": TeleportUnconditional,
		} {
			c, err := quantum.New(3, seeded(seed))
			require.NoError(t, err)
			require.NoError(t, c.X(0))

			_, err = teleport(c)
			require.NoError(t, err, name)
			assert.True(t, c.Ready())

			got, err := c.Measure(2)
			require.NoError(t, err)
			assert.Equal(t, 1, got, "%s seed %d", name, seed)
		}
	}
}

func TestTeleportArbitraryState(t *testing.T) {
	// RY(θ) then RZ(φ) prepares a state with known Bloch angles.
	const theta, phi = 1.1, 0.6
	for seed := range uint64(16) {
		c, err := quantum.New(3, seeded(seed))
		require.NoError(t, err)
		require.NoError(t, c.RY(0, theta))
		require.NoError(t, c.RZ(0, phi))

		res, err := Teleport(c)
		require.NoError(t, err)

		// After measurement qubits 0 and 1 are in basis states, so the
		// reduced state of qubit 2 is exact.
		st, err := c.ReducedQubitState(2)
		require.NoError(t, err)
		assert.InDelta(t, theta, st.Spherical.Theta, 1e-7, "seed %d bits %+v", seed, res)
		assert.InDelta(t, phi, st.Spherical.Phi, 1e-7, "seed %d bits %+v", seed, res)

		reg := c.Register()
		assert.Equal(t, res.M0, reg[0])
		assert.Equal(t, res.M1, reg[1])
		assert.Equal(t, -1, reg[2])
	}
}

func TestTeleportNeedsThreeQubits(t *testing.T) {
	c, err := quantum.New(2)
	require.NoError(t, err)
	_, err = Teleport(c)
	assert.ErrorIs(t, err, ErrTooFewQubits)
	_, err = TeleportUnconditional(c)
	assert.ErrorIs(t, err, ErrTooFewQubits)
}

func TestSuperdenseRoundTrip(t *testing.T) {
	for _, msg := range []string{"00", "01", "10", "11"} {
		t.Run(msg, func(t *testing.T) {
			for seed := range uint64(8) {
				res, err := SendTwoBits(msg, seeded(seed))
				require.NoError(t, err)
				assert.Equal(t, msg, res.Message)
				assert.Equal(t, []int{int(msg[0] - '0'), int(msg[1] - '0')}, res.Circuit.Register())
			}
		})
	}
}

func TestSuperdenseRejectsMessage(t *testing.T) {
	for _, msg := range []string{"", "2", "012", "ab"} {
		_, err := SendTwoBits(msg)
		assert.ErrorIs(t, err, ErrInvalidMessage, msg)
	}

	c, err := quantum.New(1)
	require.NoError(t, err)
	assert.ErrorIs(t, EncodeSuperdense(c, "01"), ErrTooFewQubits)
}

func TestCoinGameMachineAlwaysWins(t *testing.T) {
	for seed := range uint64(10) {
		for _, flip := range []bool{false, true} {
			out, err := CoinGame(flip, seeded(seed))
			require.NoError(t, err)
			assert.Equal(t, MachineWins, out)
		}
	}
	assert.Equal(t, "You win!", PlayerWins.String())
}

func TestRandomNumber(t *testing.T) {
	rng := quantum.NewSeededRand(5)
	seen := make(map[int]bool)
	for range 300 {
		n, err := RandomNumber(10, quantum.WithRand(rng))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 10)
		seen[n] = true
	}
	assert.Len(t, seen, 11)

	n, err := RandomNumber(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = RandomNumber(-1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRandomInRange(t *testing.T) {
	rng := quantum.NewSeededRand(6)
	for range 100 {
		n, err := RandomInRange(10, 20, quantum.WithRand(rng))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 20)
	}

	_, err := RandomInRange(5, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(32, seeded(9))
	require.NoError(t, err)
	assert.Len(t, s, 32)
	for _, r := range s {
		assert.Contains(t, alphanumeric, string(r))
	}
}

func TestSuperdenseStateBeforeDecode(t *testing.T) {
	c, err := quantum.New(2)
	require.NoError(t, err)
	require.NoError(t, EncodeSuperdense(c, "11"))

	// X then Z on qubit 0 of Φ+ gives (|10⟩ - |01⟩)/√2 up to sign.
	p := c.Probabilities()
	assert.InDelta(t, 0.5, p[1], tol)
	assert.InDelta(t, 0.5, p[2], tol)
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(real(c.State().Amplitudes[1])), tol)
}
