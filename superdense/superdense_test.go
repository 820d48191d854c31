//go:build unit
// +build unit

package superdense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"github.com/superdense-team/superdense-engine/qpu"
	"github.com/superdense-team/superdense-engine/transpiler"
)

func TestEncodeQASM(t *testing.T) {
	tests := []struct {
		name  string
		bit1  core.Bit
		bit2  core.Bit
		asset string
	}{
		{name: "00", bit1: core.Zero, bit2: core.Zero, asset: "superdense_00.qasm"},
		{name: "11", bit1: core.One, bit2: core.One, asset: "superdense_11.qasm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := common.GetAsset(tt.asset)
			require.NoError(t, err)
			c, err := Encode(tt.bit1, tt.bit2)
			require.NoError(t, err)
			assert.Equal(t, want, c.ToQASM())
		})
	}
}

func TestEncodeGateSequence(t *testing.T) {
	c, err := Encode(core.One, core.Zero)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumQubits)
	assert.Equal(t, 2, c.NumClbits)
	gates := make([]circuit.GateType, 0, len(c.Ops))
	for _, op := range c.Ops {
		gates = append(gates, op.Gate)
	}
	assert.Equal(t, []circuit.GateType{
		circuit.H, circuit.CX, circuit.X, circuit.CX, circuit.H, circuit.Measure, circuit.Measure,
	}, gates)
	assert.Equal(t, map[circuit.GateType]int{circuit.H: 2, circuit.CX: 2, circuit.X: 1, circuit.Measure: 2},
		c.GateCounts())
}

func newJob(t *testing.T, bit1, bit2 string, tc *core.TranspilerConfig) core.Job {
	t.Helper()
	jm, err := core.NewJobManager(&SuperdenseJob{})
	require.NoError(t, err)
	j, err := jm.NewJobWithValidation(&core.JobParam{
		JobID:      "superdense_test",
		Input:      core.BitPair{Bit1: bit1, Bit2: bit2},
		Shots:      core.DefaultShots,
		Transpiler: tc,
	})
	require.NoError(t, err)
	return j
}

func TestSuperdenseJobOnSimulator(t *testing.T) {
	tests := []struct {
		name         string
		bit1         string
		bit2         string
		wantOriginal string
		wantMeasured string
	}{
		{name: "00", bit1: "0", bit2: "0", wantOriginal: "00", wantMeasured: "00"},
		{name: "01", bit1: "0", bit2: "1", wantOriginal: "01", wantMeasured: "01"},
		{name: "10", bit1: "1", bit2: "0", wantOriginal: "10", wantMeasured: "10"},
		{name: "11", bit1: "1", bit2: "1", wantOriginal: "11", wantMeasured: "11"},
		{name: "non-binary treated as zero", bit1: "x", bit2: "1", wantOriginal: "x1", wantMeasured: "01"},
		{name: "empty treated as zero", bit1: "1", bit2: "", wantOriginal: "1", wantMeasured: "10"},
	}
	transpilers := map[string]*core.TranspilerConfig{
		"local":         core.DEFAULT_TRANSPILER_CONFIG(),
		"no transpiler": core.NoTranspilerConfig(),
	}
	core.ResetSetting()
	s := core.SCWithQPUAndTranspiler(&qpu.StatevectorQPU{}, &transpiler.LocalTranspiler{})
	defer s.TearDown()
	for tname, tc := range transpilers {
		for _, tt := range tests {
			t.Run(tname+"/"+tt.name, func(t *testing.T) {
				for i := 0; i < 3; i++ {
					j := newJob(t, tt.bit1, tt.bit2, tc)
					require.NoError(t, s.HandleJob(j))
					jd := j.JobData()
					assert.Equal(t, core.SUCCEEDED, jd.Status)
					assert.Equal(t, tt.wantOriginal, jd.Input.Original())
					assert.Equal(t, tt.wantMeasured, jd.Result.MeasuredBits)
					assert.Equal(t, core.Counts{tt.wantMeasured: uint32(core.DefaultShots)}, jd.Result.Counts)
					assert.True(t, j.IsFinished())
				}
			})
		}
	}
}

func TestSuperdenseJobTranspiledCircuit(t *testing.T) {
	core.ResetSetting()
	s := core.SCWithQPUAndTranspiler(&qpu.StatevectorQPU{}, &transpiler.LocalTranspiler{})
	defer s.TearDown()

	j := newJob(t, "0", "0", core.DEFAULT_TRANSPILER_CONFIG())
	require.NoError(t, s.HandleJob(j))
	jd := j.JobData()
	assert.Len(t, jd.Circuit.Ops, 6)
	assert.Len(t, jd.TranspiledCircuit.Ops, 2)
	assert.NotEmpty(t, jd.Result.TranspilerInfo.Stats)
	assert.Contains(t, jd.QASM, "cx q[0], q[1];")
}

func TestSuperdenseJobValidateFailure(t *testing.T) {
	s := core.SCWithValidateErrorContainer()
	defer s.TearDown()

	j := newJob(t, "1", "0", core.DEFAULT_TRANSPILER_CONFIG())
	require.NoError(t, s.HandleJob(j))
	jd := j.JobData()
	assert.Equal(t, core.FAILED, jd.Status)
	assert.Equal(t, "validate: circuit is not executable on the mock device", jd.Result.Message)
	assert.Equal(t, "", jd.Result.MeasuredBits)
}

type emptyQPU struct {
	core.UnimplementedQPU
}

func (emptyQPU) Send(j core.Job) error {
	core.SetSuccessToJobData(j.JobData())
	return nil
}

type brokenQPU struct {
	core.UnimplementedQPU
}

func (brokenQPU) Send(core.Job) error {
	return assert.AnError
}

func TestSuperdenseJobSimulationFailure(t *testing.T) {
	tests := []struct {
		name        string
		qpu         core.QPUManager
		wantMessage string
	}{
		{name: "no counts", qpu: &emptyQPU{}, wantMessage: ErrNoOutcome.Error()},
		{name: "send error", qpu: &brokenQPU{}, wantMessage: assert.AnError.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.SCWithQPU(tt.qpu)
			defer s.TearDown()
			j := newJob(t, "1", "1", core.NoTranspilerConfig())
			j.JobData().Result.Counts = core.Counts{}
			require.NoError(t, s.HandleJob(j))
			assert.Equal(t, core.FAILED, j.JobData().Status)
			assert.Equal(t, tt.wantMessage, j.JobData().Result.Message)
			assert.True(t, j.IsFinished())
		})
	}
}

func TestSuperdenseJobType(t *testing.T) {
	j := (&SuperdenseJob{}).New(core.NewJobData())
	assert.Equal(t, SUPERDENSE_JOB, j.JobType())
	assert.False(t, j.IsFinished())
}
