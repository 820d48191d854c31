package transpiler

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const (
	SettingName          = "transpiler"
	LocalTranspilerLib   = core.DefaultTranspilerLib
	maxOptimizationLevel = 3
)

type LocalTranspilerSetting struct {
	OptimizationLevel int      `toml:"optimization_level"`
	BasisGates        []string `toml:"basis_gates"`
}

func NewLocalTranspilerSetting() *LocalTranspilerSetting {
	return &LocalTranspilerSetting{
		OptimizationLevel: 1,
		BasisGates:        []string{"h", "x", "z", "cx"},
	}
}

// LocalTranspiler rewrites circuits in process. At optimization level 1 and
// above it removes adjacent pairs of identical self-inverse gates.
type LocalTranspiler struct {
	setting *LocalTranspilerSetting
}

func (t *LocalTranspiler) IsAcceptableTranspilerLib(lib string) bool {
	return lib == LocalTranspilerLib
}

func (t *LocalTranspiler) Setup(_ *core.Conf) error {
	t.setting = NewLocalTranspilerSetting()
	s, ok := core.GetComponentSetting(SettingName)
	if ok {
		if ls, ok := s.(*LocalTranspilerSetting); ok {
			t.setting = ls
		}
	}
	if err := checkOptimizationLevel(t.setting.OptimizationLevel); err != nil {
		zap.L().Error(fmt.Sprintf("invalid transpiler setting/reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("local transpiler setting:%+v", *t.setting))
	return nil
}

func (t *LocalTranspiler) GetHealth() error {
	if t.setting == nil {
		return fmt.Errorf("local transpiler is not set up")
	}
	return nil
}

func (t *LocalTranspiler) Transpile(j core.Job) error {
	jd := j.JobData()
	if err := t.GetHealth(); err != nil {
		return err
	}
	if jd.Circuit == nil {
		return fmt.Errorf("circuit is empty")
	}
	opts, err := jd.Transpiler.Options()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read transpiler options/JobID:%s/reason:%s", jd.ID, err))
		return err
	}
	level := t.setting.OptimizationLevel
	if opts.OptimizationLevel != nil {
		level = *opts.OptimizationLevel
	}
	if err := checkOptimizationLevel(level); err != nil {
		return err
	}
	for _, op := range jd.Circuit.Ops {
		if op.Gate == circuit.Measure {
			continue
		}
		if !common.ContainsGateName(string(op.Gate), t.setting.BasisGates) {
			return errors.Errorf("gate %s is not in the transpiler basis %v", op.Gate, t.setting.BasisGates)
		}
	}

	out := jd.Circuit.Clone()
	if level >= 1 {
		out.Ops = cancelSelfInversePairs(out.Ops)
	}
	jd.TranspiledCircuit = out
	jd.Result.TranspilerInfo.Stats = encodeStats(level, jd.Circuit, out)
	jd.Result.TranspilerInfo.VirtualPhysicalMapping = identityMapping(out.NumQubits)
	zap.L().Debug(fmt.Sprintf("transpiled/JobID:%s/level:%d/ops:%d->%d/stats:%s",
		jd.ID, level, len(jd.Circuit.Ops), len(out.Ops), string(jd.Result.TranspilerInfo.Stats)))
	return nil
}

func (t *LocalTranspiler) TearDown() error {
	return nil
}

func checkOptimizationLevel(level int) error {
	if level < 0 || level > maxOptimizationLevel {
		return fmt.Errorf("optimization_level(%d) must be in [0, %d]", level, maxOptimizationLevel)
	}
	return nil
}

// cancelSelfInversePairs repeats single cancellation passes until nothing changes.
func cancelSelfInversePairs(ops []circuit.Op) []circuit.Op {
	for {
		next, changed := cancelOnce(ops)
		if !changed {
			return next
		}
		ops = next
	}
}

func cancelOnce(ops []circuit.Op) ([]circuit.Op, bool) {
	for i, op := range ops {
		if !op.Gate.IsSelfInverse() {
			continue
		}
		for k := i + 1; k < len(ops); k++ {
			if !op.Overlaps(ops[k]) {
				continue
			}
			if op.SameAs(ops[k]) {
				out := make([]circuit.Op, 0, len(ops)-2)
				out = append(out, ops[:i]...)
				out = append(out, ops[i+1:k]...)
				out = append(out, ops[k+1:]...)
				return out, true
			}
			break
		}
	}
	return ops, false
}

func identityMapping(n int) core.VirtualPhysicalMapping {
	m := make(core.VirtualPhysicalMapping, n)
	for i := 0; i < n; i++ {
		m[uint32(i)] = uint32(i)
	}
	return m
}

func encodeStats(level int, before, after *circuit.Circuit) json.RawMessage {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ObjStart()
	e.FieldStart("optimization_level")
	e.Int(level)
	e.FieldStart("before")
	encodeCircuitStats(e, before)
	e.FieldStart("after")
	encodeCircuitStats(e, after)
	e.ObjEnd()

	return json.RawMessage(append([]byte(nil), e.Bytes()...))
}

func encodeCircuitStats(e *jx.Encoder, c *circuit.Circuit) {
	counts := c.GateCounts()
	gates := make([]string, 0, len(counts))
	for g := range counts {
		gates = append(gates, string(g))
	}
	sort.Strings(gates)

	e.ObjStart()
	e.FieldStart("n_ops")
	e.Int(len(c.Ops))
	e.FieldStart("depth")
	e.Int(c.Depth())
	e.FieldStart("gates")
	e.ObjStart()
	for _, g := range gates {
		e.FieldStart(g)
		e.Int(counts[circuit.GateType(g)])
	}
	e.ObjEnd()
	e.ObjEnd()
}
