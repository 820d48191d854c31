//go:build unit
// +build unit

package qpu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/superdense-team/superdense-engine/core"
)

func encodedCircuit(t *testing.T, flip, phase bool) *circuit.Circuit {
	t.Helper()
	c := circuit.New(2, 2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CX(0, 1))
	if flip {
		require.NoError(t, c.X(0))
	}
	if phase {
		require.NoError(t, c.Z(0))
	}
	require.NoError(t, c.CX(0, 1))
	require.NoError(t, c.H(0))
	require.NoError(t, c.MeasurePairs([]int{0, 1}, []int{0, 1}))
	return c
}

func setupQPU(t *testing.T, seed int64) *StatevectorQPU {
	t.Helper()
	core.ResetSetting()
	ds := NewDefaultDeviceSetting()
	ds.Seed = seed
	core.RegisterSetting(SettingName, ds)
	q := &StatevectorQPU{}
	require.NoError(t, q.Setup(&core.Conf{}))
	return q
}

func newJob(c *circuit.Circuit, shots int) core.Job {
	jd := core.NewJobData()
	jd.ID = "qpu_test"
	jd.Shots = shots
	jd.Circuit = c
	return (&core.UnimplementedJob{}).New(jd)
}

func TestStatevectorQPUSendEncodedBits(t *testing.T) {
	tests := []struct {
		name  string
		flip  bool
		phase bool
		want  string
	}{
		{name: "00", want: "00"},
		{name: "10", flip: true, want: "10"},
		{name: "01", phase: true, want: "01"},
		{name: "11", flip: true, phase: true, want: "11"},
	}
	q := setupQPU(t, 7)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newJob(encodedCircuit(t, tt.flip, tt.phase), core.DefaultShots)
			assert.Nil(t, q.Send(j))
			jd := j.JobData()
			assert.Equal(t, core.SUCCEEDED, jd.Status)
			assert.Equal(t, core.Counts{tt.want: uint32(core.DefaultShots)}, jd.Result.Counts)
			assert.True(t, jd.Result.ExecutionTime >= 0)
		})
	}
}

func TestStatevectorQPUSendBellPair(t *testing.T) {
	q := setupQPU(t, 11)
	c := circuit.New(2, 2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CX(0, 1))
	require.NoError(t, c.MeasurePairs([]int{0, 1}, []int{0, 1}))

	j := newJob(c, 2000)
	assert.Nil(t, q.Send(j))
	counts := j.JobData().Result.Counts
	assert.Len(t, counts, 2)
	assert.Equal(t, uint32(2000), counts.Shots())
	assert.Contains(t, counts, "00")
	assert.Contains(t, counts, "11")
}

func TestStatevectorQPUSendSeedIsReproducible(t *testing.T) {
	c := circuit.New(1, 1)
	require.NoError(t, c.H(0))
	require.NoError(t, c.Measure(0, 0))

	first := newJob(c, 100)
	assert.Nil(t, setupQPU(t, 99).Send(first))
	second := newJob(c, 100)
	assert.Nil(t, setupQPU(t, 99).Send(second))
	assert.Equal(t, first.JobData().Result.Counts, second.JobData().Result.Counts)
}

func TestStatevectorQPUSendFailure(t *testing.T) {
	q := setupQPU(t, 1)

	j := newJob(encodedCircuit(t, false, false), 0)
	assert.EqualError(t, q.Send(j), "simulate: shots(0) must be greater than 0")
	assert.Equal(t, core.FAILED, j.JobData().Status)
	assert.Equal(t, "simulate: shots(0) must be greater than 0", j.JobData().Result.Message)

	j = newJob(nil, 10)
	assert.EqualError(t, q.Send(j), "simulate: circuit is empty")
	assert.Equal(t, core.FAILED, j.JobData().Status)
}

func TestStatevectorQPUSendPrefersTranspiledCircuit(t *testing.T) {
	q := setupQPU(t, 3)
	jd := core.NewJobData()
	jd.Shots = 10
	jd.Circuit = encodedCircuit(t, false, false)
	jd.TranspiledCircuit = encodedCircuit(t, true, true)
	j := (&core.UnimplementedJob{}).New(jd)
	assert.Nil(t, q.Send(j))
	assert.Equal(t, core.Counts{"11": 10}, jd.Result.Counts)
}

func TestStatevectorQPUValidate(t *testing.T) {
	q := setupQPU(t, 1)

	wide := circuit.New(DefaultMaxQubits+1, 1)

	midMeasure := circuit.New(2, 2)
	require.NoError(t, midMeasure.Measure(0, 0))
	require.NoError(t, midMeasure.X(0))

	tests := []struct {
		name    string
		circuit *circuit.Circuit
		wantErr string
	}{
		{name: "encoded", circuit: encodedCircuit(t, true, false)},
		{name: "nil", circuit: nil, wantErr: "circuit is empty"},
		{
			name:    "too many qubits",
			circuit: wide,
			wantErr: "circuit uses 17 qubits, StatevectorSimulator supports at most 16",
		},
		{
			name:    "mid-circuit measurement",
			circuit: midMeasure,
			wantErr: "mid-circuit measurement is not supported (qubit 0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := q.Validate(tt.circuit)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestStatevectorQPUValidateBasisGates(t *testing.T) {
	core.ResetSetting()
	ds := NewDefaultDeviceSetting()
	ds.BasisGates = []string{"H", "CX"}
	core.RegisterSetting(SettingName, ds)
	q := &StatevectorQPU{}
	require.NoError(t, q.Setup(&core.Conf{}))

	c := circuit.New(2, 2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CX(0, 1))
	assert.Nil(t, q.Validate(c))

	require.NoError(t, c.Z(0))
	assert.EqualError(t, q.Validate(c), "gate z is not in the basis gates of StatevectorSimulator")
}

func TestStatevectorQPUGetDeviceInfo(t *testing.T) {
	q := setupQPU(t, 1)
	di := q.GetDeviceInfo()
	assert.Equal(t, DefaultDeviceName, di.DeviceName)
	assert.Equal(t, DefaultProviderName, di.ProviderName)
	assert.Equal(t, "simulator", di.Type)
	assert.Equal(t, core.Available, di.Status)
	assert.Equal(t, DefaultMaxQubits, di.MaxQubits)
	assert.Equal(t, DefaultMaxShots, di.MaxShots)
	assert.Equal(t, []string{"h", "x", "z", "cx"}, di.BasisGates)
}

func TestStatevectorQPUSetupFromSettingFile(t *testing.T) {
	core.ResetSetting()
	ds := NewDefaultDeviceSetting()
	core.RegisterSetting(SettingName, ds)
	path := filepath.Join(t.TempDir(), "setting.toml")
	require.NoError(t, os.WriteFile(path, []byte(heredoc.Doc(`
		[com.statevector]
		device_name = "tiny"
		max_qubits = 2
		max_shots = 500
		seed = 5
	`)), 0o600))
	require.NoError(t, core.ParseSettingFromPath(path))

	q := &StatevectorQPU{}
	require.NoError(t, q.Setup(&core.Conf{}))
	di := q.GetDeviceInfo()
	assert.Equal(t, "tiny", di.DeviceName)
	assert.Equal(t, 2, di.MaxQubits)
	assert.Equal(t, 500, di.MaxShots)
	assert.Equal(t, DefaultProviderName, di.ProviderName)
}

func TestStatevectorQPUSetupInvalidSetting(t *testing.T) {
	core.ResetSetting()
	ds := NewDefaultDeviceSetting()
	ds.MaxShots = 0
	ds.BasisGates = nil
	core.RegisterSetting(SettingName, ds)
	q := &StatevectorQPU{}
	assert.EqualError(t, q.Setup(&core.Conf{}),
		"max shots(0) must be greater than 0; basis gates must not be empty")
}

func TestBitString(t *testing.T) {
	source := map[int]int{0: 0, 1: 1}
	assert.Equal(t, "00", bitString(0, 2, source))
	assert.Equal(t, "01", bitString(1, 2, source))
	assert.Equal(t, "10", bitString(2, 2, source))
	assert.Equal(t, "11", bitString(3, 2, source))

	swapped := map[int]int{0: 1, 1: 0}
	assert.Equal(t, "01", bitString(2, 2, swapped))
	assert.Equal(t, "000", bitString(7, 3, map[int]int{}))
}
