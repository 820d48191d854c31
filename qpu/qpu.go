package qpu

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const deviceType = "simulator"

// StatevectorQPU is a noiseless simulator. A single instance is shared by
// all jobs; only the random source is mutable, and it is locked.
type StatevectorQPU struct {
	deviceSetting *DeviceSetting

	mu  sync.Mutex
	rng *rand.Rand
}

func (q *StatevectorQPU) Setup(conf *core.Conf) error {
	zap.L().Debug("setting up statevector QPU")
	ds := loadDeviceSetting()
	if err := ds.Validate(); err != nil {
		zap.L().Error(fmt.Sprintf("invalid device setting/reason:%s", err))
		return err
	}
	seed := ds.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	q.deviceSetting = ds
	q.rng = rand.New(rand.NewSource(seed))
	zap.L().Info(fmt.Sprintf("statevector QPU is ready/device:%s/max_qubits:%d/max_shots:%d",
		ds.DeviceName, ds.MaxQubits, ds.MaxShots))
	return nil
}

func (q *StatevectorQPU) Validate(c *circuit.Circuit) error {
	if c == nil {
		return fmt.Errorf("circuit is empty")
	}
	ds := q.setting()
	if c.NumQubits > ds.MaxQubits {
		return fmt.Errorf("circuit uses %d qubits, %s supports at most %d",
			c.NumQubits, ds.DeviceName, ds.MaxQubits)
	}
	measured := make(map[int]bool)
	for _, op := range c.Ops {
		for _, qb := range op.Qubits {
			if measured[qb] {
				return fmt.Errorf("mid-circuit measurement is not supported (qubit %d)", qb)
			}
		}
		if op.Gate == circuit.Measure {
			measured[op.Qubits[0]] = true
			continue
		}
		if !common.ContainsGateName(string(op.Gate), ds.BasisGates) {
			return fmt.Errorf("gate %s is not in the basis gates of %s", op.Gate, ds.DeviceName)
		}
	}
	return nil
}

func (q *StatevectorQPU) Send(j core.Job) error {
	jd := j.JobData()
	zap.L().Debug(fmt.Sprintf("starting statevector execution/JobID:%s", jd.ID))
	start := time.Now()
	counts, err := q.run(jd.ExecutableCircuit(), jd.Shots)
	if err != nil {
		err = errors.Wrap(err, "simulate")
		msg := core.SetFailureWithError(j, err)
		zap.L().Info(fmt.Sprintf("failed to simulate/JobID:%s/reason:%s", jd.ID, msg))
		return err
	}
	jd.Result.Counts = counts
	jd.Result.ExecutionTime = time.Since(start)
	core.SetSuccessToJobData(jd)
	zap.L().Debug(fmt.Sprintf("finished statevector execution/JobID:%s/counts:%s", jd.ID, counts))
	return nil
}

func (q *StatevectorQPU) run(c *circuit.Circuit, shots int) (core.Counts, error) {
	if c == nil {
		return nil, fmt.Errorf("circuit is empty")
	}
	if shots <= 0 {
		return nil, fmt.Errorf("shots(%d) must be greater than 0", shots)
	}
	if err := q.Validate(c); err != nil {
		return nil, err
	}
	sv := NewStateVector(c.NumQubits)
	// clbit index -> measured qubit
	clbitSource := make(map[int]int)
	for _, op := range c.Ops {
		if op.Gate == circuit.Measure {
			clbitSource[op.Clbit] = op.Qubits[0]
			continue
		}
		if err := sv.Apply(op); err != nil {
			return nil, err
		}
	}
	probs := sv.Probabilities()

	q.mu.Lock()
	if q.rng == nil {
		q.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	samples := Sample(probs, shots, q.rng)
	q.mu.Unlock()

	counts := make(core.Counts)
	for index, n := range samples {
		counts[bitString(index, c.NumClbits, clbitSource)] += uint32(n)
	}
	return counts, nil
}

// bitString renders a sampled basis index as c[n-1]...c[0].
// Unmeasured clbits read 0.
func bitString(index, numClbits int, clbitSource map[int]int) string {
	var sb strings.Builder
	for cl := numClbits - 1; cl >= 0; cl-- {
		qb, ok := clbitSource[cl]
		if ok && index&(1<<qb) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (q *StatevectorQPU) GetDeviceInfo() *core.DeviceInfo {
	ds := q.setting()
	return &core.DeviceInfo{
		DeviceName:   ds.DeviceName,
		ProviderName: ds.ProviderName,
		Type:         deviceType,
		Status:       core.Available,
		MaxQubits:    ds.MaxQubits,
		MaxShots:     ds.MaxShots,
		BasisGates:   append([]string(nil), ds.BasisGates...),
	}
}

func (q *StatevectorQPU) setting() *DeviceSetting {
	if q.deviceSetting == nil {
		return NewDefaultDeviceSetting()
	}
	return q.deviceSetting
}
