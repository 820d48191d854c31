package superdense

import (
	"github.com/go-faster/errors"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/superdense-team/superdense-engine/core"
)

const (
	numQubits = 2
	numClbits = 2
)

// Encode builds the superdense coding circuit for one bit pair.
// An entangled pair is prepared on q0 and q1, q0 receives X for bit1 and Z
// for bit2, the pair is disentangled and q0, q1 are measured into c0, c1.
func Encode(bit1, bit2 core.Bit) (*circuit.Circuit, error) {
	c := circuit.New(numQubits, numClbits)
	steps := []func() error{
		func() error { return c.H(0) },
		func() error { return c.CX(0, 1) },
		func() error {
			if bit1 == core.One {
				return c.X(0)
			}
			return nil
		},
		func() error {
			if bit2 == core.One {
				return c.Z(0)
			}
			return nil
		},
		func() error { return c.CX(0, 1) },
		func() error { return c.H(0) },
		func() error { return c.MeasurePairs([]int{0, 1}, []int{0, 1}) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, errors.Wrap(err, "encode")
		}
	}
	return c, nil
}
