package circuit

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/mohae/deepcopy"
)

type GateType string

const (
	H       GateType = "h"
	X       GateType = "x"
	Z       GateType = "z"
	CX      GateType = "cx"
	Measure GateType = "measure"
)

func (g GateType) String() string {
	return string(g)
}

// IsSelfInverse reports whether applying g twice on the same operands is the identity.
func (g GateType) IsSelfInverse() bool {
	switch g {
	case H, X, Z, CX:
		return true
	default:
		return false
	}
}

func (g GateType) arity() int {
	switch g {
	case CX:
		return 2
	default:
		return 1
	}
}

// Op is one instruction of a circuit. For CX, Qubits is [control, target].
// Clbit is only meaningful for Measure and is -1 otherwise.
type Op struct {
	Gate   GateType
	Qubits []int
	Clbit  int
}

// Overlaps reports whether o and other act on a common qubit.
func (o Op) Overlaps(other Op) bool {
	for _, oq := range o.Qubits {
		for _, q := range other.Qubits {
			if oq == q {
				return true
			}
		}
	}
	return false
}

// SameAs reports whether other is the same gate on the same operands, in order.
func (o Op) SameAs(other Op) bool {
	if o.Gate != other.Gate || len(o.Qubits) != len(other.Qubits) || o.Clbit != other.Clbit {
		return false
	}
	for i := range o.Qubits {
		if o.Qubits[i] != other.Qubits[i] {
			return false
		}
	}
	return true
}

func (o Op) String() string {
	if o.Gate == Measure {
		return fmt.Sprintf("c[%d] = measure q[%d];", o.Clbit, o.Qubits[0])
	}
	operands := make([]string, 0, len(o.Qubits))
	for _, q := range o.Qubits {
		operands = append(operands, fmt.Sprintf("q[%d]", q))
	}
	return fmt.Sprintf("%s %s;", o.Gate, strings.Join(operands, ", "))
}

// Circuit is a flat, ordered list of ops over NumQubits qubits and NumClbits classical bits.
// Fields are exported so that Clone can copy them.
type Circuit struct {
	NumQubits int
	NumClbits int
	Ops       []Op
}

func New(numQubits, numClbits int) *Circuit {
	return &Circuit{
		NumQubits: numQubits,
		NumClbits: numClbits,
		Ops:       []Op{},
	}
}

func (c *Circuit) H(q int) error {
	return c.Append(Op{Gate: H, Qubits: []int{q}, Clbit: -1})
}

func (c *Circuit) X(q int) error {
	return c.Append(Op{Gate: X, Qubits: []int{q}, Clbit: -1})
}

func (c *Circuit) Z(q int) error {
	return c.Append(Op{Gate: Z, Qubits: []int{q}, Clbit: -1})
}

func (c *Circuit) CX(control, target int) error {
	return c.Append(Op{Gate: CX, Qubits: []int{control, target}, Clbit: -1})
}

func (c *Circuit) Measure(q, clbit int) error {
	return c.Append(Op{Gate: Measure, Qubits: []int{q}, Clbit: clbit})
}

// MeasurePairs measures qubits[i] into clbits[i].
func (c *Circuit) MeasurePairs(qubits, clbits []int) error {
	if len(qubits) != len(clbits) {
		return errors.Errorf("%d qubits cannot be measured into %d clbits", len(qubits), len(clbits))
	}
	for i := range qubits {
		if err := c.Measure(qubits[i], clbits[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) Append(op Op) error {
	if err := c.check(op); err != nil {
		return errors.Wrapf(err, "append %s", op.Gate)
	}
	c.Ops = append(c.Ops, op)
	return nil
}

func (c *Circuit) check(op Op) error {
	if len(op.Qubits) != op.Gate.arity() {
		return errors.Errorf("%s takes %d qubit(s), got %d", op.Gate, op.Gate.arity(), len(op.Qubits))
	}
	for i, q := range op.Qubits {
		if q < 0 || q >= c.NumQubits {
			return errors.Errorf("qubit %d is out of range [0, %d)", q, c.NumQubits)
		}
		for _, p := range op.Qubits[:i] {
			if p == q {
				return errors.Errorf("qubit %d is used twice", q)
			}
		}
	}
	if op.Gate == Measure {
		if op.Clbit < 0 || op.Clbit >= c.NumClbits {
			return errors.Errorf("clbit %d is out of range [0, %d)", op.Clbit, c.NumClbits)
		}
	}
	return nil
}

func (c *Circuit) Clone() *Circuit {
	return deepcopy.Copy(c).(*Circuit)
}

// GateCounts counts ops per gate type, measurements included.
func (c *Circuit) GateCounts() map[GateType]int {
	counts := make(map[GateType]int)
	for _, op := range c.Ops {
		counts[op.Gate]++
	}
	return counts
}

// Depth is the length of the longest chain of ops sharing a qubit.
func (c *Circuit) Depth() int {
	layer := make([]int, c.NumQubits)
	depth := 0
	for _, op := range c.Ops {
		l := 0
		for _, q := range op.Qubits {
			if layer[q] > l {
				l = layer[q]
			}
		}
		l++
		for _, q := range op.Qubits {
			layer[q] = l
		}
		if l > depth {
			depth = l
		}
	}
	return depth
}

// ToQASM renders the circuit as OpenQASM 3.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	fmt.Fprintf(&sb, "qubit[%d] q;\n", c.NumQubits)
	fmt.Fprintf(&sb, "bit[%d] c;\n\n", c.NumClbits)
	for _, op := range c.Ops {
		sb.WriteString(op.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
