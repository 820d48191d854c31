package core

import (
	"fmt"

	"github.com/superdense-team/superdense-engine/circuit"
	"go.uber.org/dig"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

type DeviceInfo struct {
	DeviceName   string       `json:"device_name"`
	ProviderName string       `json:"provider_name"`
	Type         string       `json:"type"`
	Status       DeviceStatus `json:"status"`
	MaxQubits    int          `json:"max_qubits"`
	MaxShots     int          `json:"max_shots"`
	BasisGates   []string     `json:"basis_gates"`
}

type DeviceStatus int

const (
	Available DeviceStatus = iota
	Unavailable
)

func (ds DeviceStatus) String() string {
	switch ds {
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

//go:generate mockgen -destination=mock_core/mock_qpu.go -package=mock_core . QPUManager

// QPUManager executes circuits. One instance serves the whole process.
type QPUManager interface {
	Setup(*Conf) error
	Send(Job) error
	Validate(*circuit.Circuit) error
	GetDeviceInfo() *DeviceInfo
}

type Transpiler interface {
	IsAcceptableTranspilerLib(string) bool
	Setup(*Conf) error
	GetHealth() error
	Transpile(Job) error
	TearDown() error
}

type Scheduler interface {
	Setup(*Conf) error
	Start() error
	// HandleJob runs the job to completion and returns when it is finished.
	HandleJob(Job)
	GetCurrentQueueSize() int
	GetStats() SchedulerStats
	TearDown() error
}

type SchedulerStats struct {
	Succeeded uint64
	Failed    uint64
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{
		con,
	}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	zap.L().Debug("Setting up QPU")
	err := s.Invoke(func(q QPUManager) error {
		return q.Setup(conf)
	})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up transpiler")
	err = s.Invoke(
		func(t Transpiler) error {
			return t.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up scheduler")
	err = s.Invoke(
		func(s Scheduler) error {
			return s.Setup(conf)
		})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) TearDown() error {
	var err error
	invokeErr := s.Invoke(
		func(sc Scheduler) {
			err = multierr.Append(err, sc.TearDown())
		})
	err = multierr.Append(err, invokeErr)
	invokeErr = s.Invoke(
		func(t Transpiler) {
			err = multierr.Append(err, t.TearDown())
		})
	err = multierr.Append(err, invokeErr)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to tear down system components/reason:%s", err))
	}
	return err
}

func (s *SystemComponents) StartContainer() error {
	return s.Container.Invoke(
		func(s Scheduler) error {
			return s.Start()
		})
}

func (s *SystemComponents) GetDeviceInfo() *DeviceInfo {
	var deviceInfo *DeviceInfo
	s.Invoke(
		func(q QPUManager) {
			deviceInfo = q.GetDeviceInfo()
		})
	return deviceInfo
}

func (s *SystemComponents) GetCurrentQueueSize() int {
	var size int
	s.Invoke(
		func(sc Scheduler) {
			size = sc.GetCurrentQueueSize()
		})
	return size
}

func (s *SystemComponents) GetSchedulerStats() SchedulerStats {
	var stats SchedulerStats
	s.Invoke(
		func(sc Scheduler) {
			stats = sc.GetStats()
		})
	return stats
}

// HandleJob passes the job to the scheduler and waits for it to finish.
func (s *SystemComponents) HandleJob(j Job) error {
	return s.Invoke(
		func(sc Scheduler) {
			sc.HandleJob(j)
		})
}
