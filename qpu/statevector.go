package qpu

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-faster/errors"
	"github.com/superdense-team/superdense-engine/circuit"
)

// probabilityEpsilon is the probability below which a basis state is treated as unreachable.
const probabilityEpsilon = 1e-12

// StateVector holds the amplitudes of an n-qubit register.
// Basis index bit q is the value of qubit q.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Apply applies a unitary op. Measurements are not unitary and are rejected.
func (s *StateVector) Apply(op circuit.Op) error {
	for _, q := range op.Qubits {
		if q < 0 || q >= s.NumQubits {
			return errors.Errorf("qubit %d is out of range [0, %d)", q, s.NumQubits)
		}
	}
	switch op.Gate {
	case circuit.H:
		s.applyH(op.Qubits[0])
	case circuit.X:
		s.applyX(op.Qubits[0])
	case circuit.Z:
		s.applyZ(op.Qubits[0])
	case circuit.CX:
		s.applyCX(op.Qubits[0], op.Qubits[1])
	default:
		return errors.Errorf("gate %s is not supported by the statevector simulator", op.Gate)
	}
	return nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	cbit := 1 << control
	tbit := 1 << target
	for i := range s.Amplitudes {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Probabilities returns |amplitude|^2 per basis index. Values below
// probabilityEpsilon are set to zero and the rest renormalised.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	total := 0.0
	for i, a := range s.Amplitudes {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p < probabilityEpsilon {
			continue
		}
		probs[i] = p
		total += p
	}
	if total == 0 {
		return probs
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs
}

// Sample draws shots basis indices from the probability distribution.
func Sample(probs []float64, shots int, rng *rand.Rand) map[int]int {
	cumulative := make([]float64, len(probs))
	acc := 0.0
	for i, p := range probs {
		acc += p
		cumulative[i] = acc
	}
	samples := make(map[int]int)
	if acc == 0 {
		return samples
	}
	for n := 0; n < shots; n++ {
		r := rng.Float64() * acc
		i := sort.SearchFloat64s(cumulative, r)
		// skip zero-width bins that share the searched value
		for i < len(probs)-1 && probs[i] == 0 {
			i++
		}
		if i >= len(probs) {
			i = len(probs) - 1
		}
		samples[i]++
	}
	return samples
}
