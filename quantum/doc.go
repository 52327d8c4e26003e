// Package quantum is a statevector simulator for small circuits.
//
// A Circuit owns one StateVector of 2^N amplitudes and applies gates to it
// eagerly, in place. Qubit q is bit q of the basis-state index, so qubit 0
// is the least significant bit. Measurement draws from an injectable Rand
// and collapses the state. Circuits also keep an operation log that can be
// rendered as OpenQASM 2.0.
package quantum
