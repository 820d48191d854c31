package core

import (
	"fmt"

	"github.com/superdense-team/superdense-engine/circuit"
	"go.uber.org/dig"
)

const MockMaxQubits int = 10
const MockMaxShots int = 10000
const validateErrorMessage string = "circuit is not executable on the mock device"

type UnimplementedJob struct {
	jobData *JobData
}

func (j *UnimplementedJob) New(jd *JobData) Job {
	return &UnimplementedJob{
		jobData: jd,
	}
}

func (j *UnimplementedJob) PreProcess() {}

func (j *UnimplementedJob) Process() {}

func (j *UnimplementedJob) PostProcess() {}

func (j *UnimplementedJob) IsFinished() bool {
	return j.JobData().Status == SUCCEEDED || j.JobData().Status == FAILED
}

func (j *UnimplementedJob) JobData() *JobData {
	return j.jobData
}

func (j *UnimplementedJob) JobType() string {
	return "unimplemented"
}

// UnimplementedQPU reports every shot as the all-zero outcome.
type UnimplementedQPU struct{}

func (u *UnimplementedQPU) Setup(*Conf) error {
	return nil
}

func (u *UnimplementedQPU) Send(j Job) error {
	jd := j.JobData()
	jd.Result.Counts = Counts{"00": uint32(jd.Shots)}
	SetSuccessToJobData(jd)
	return nil
}

func (u *UnimplementedQPU) Validate(*circuit.Circuit) error {
	return nil
}

func (u *UnimplementedQPU) GetDeviceInfo() *DeviceInfo {
	return &DeviceInfo{
		DeviceName: "unimplementedQPU",
		Status:     Available,
		MaxQubits:  MockMaxQubits,
		MaxShots:   MockMaxShots,
		BasisGates: []string{"h", "x", "z", "cx"},
	}
}

type validateErrorQPUForTest struct {
	UnimplementedQPU
}

func (validateErrorQPUForTest) Validate(*circuit.Circuit) error {
	return fmt.Errorf(validateErrorMessage)
}

type successTranspilerForTest struct{}

func (successTranspilerForTest) IsAcceptableTranspilerLib(lib string) bool {
	return lib == DefaultTranspilerLib
}

func (successTranspilerForTest) Setup(*Conf) error   { return nil }
func (successTranspilerForTest) GetHealth() error    { return nil }
func (successTranspilerForTest) Transpile(Job) error { return nil }
func (successTranspilerForTest) TearDown() error     { return nil }

// inlineScheduler runs every stage of a job on the caller's goroutine.
type inlineScheduler struct {
	stats SchedulerStats
}

func (u *inlineScheduler) Setup(*Conf) error        { return nil }
func (u *inlineScheduler) Start() error             { return nil }
func (u *inlineScheduler) GetCurrentQueueSize() int { return 0 }
func (u *inlineScheduler) GetStats() SchedulerStats { return u.stats }
func (u *inlineScheduler) TearDown() error          { return nil }

func (u *inlineScheduler) HandleJob(j Job) {
	defer func() {
		if j.JobData().Status == FAILED {
			u.stats.Failed++
		} else {
			u.stats.Succeeded++
		}
	}()
	j.PreProcess()
	if j.IsFinished() {
		return
	}
	j.JobData().Status = RUNNING
	j.Process()
	if j.IsFinished() {
		return
	}
	j.PostProcess()
}

func scWith(q QPUManager, t Transpiler, sc Scheduler) *SystemComponents {
	c := dig.New()
	c.Provide(func() QPUManager { return q })
	c.Provide(func() Transpiler { return t })
	c.Provide(func() Scheduler { return sc })
	s := NewSystemComponents(c)
	s.Setup(&Conf{QueueMaxSize: 1000})
	return s
}

func SCWithUnimplementedContainer() *SystemComponents {
	return scWith(&UnimplementedQPU{}, &successTranspilerForTest{}, &inlineScheduler{})
}

func SCWithValidateErrorContainer() *SystemComponents {
	return scWith(&validateErrorQPUForTest{}, &successTranspilerForTest{}, &inlineScheduler{})
}

func SCWithQPU(q QPUManager) *SystemComponents {
	return scWith(q, &successTranspilerForTest{}, &inlineScheduler{})
}

func SCWithQPUAndTranspiler(q QPUManager, t Transpiler) *SystemComponents {
	return scWith(q, t, &inlineScheduler{})
}

func SCWithScheduler(sc Scheduler) *SystemComponents {
	return scWith(&UnimplementedQPU{}, &successTranspilerForTest{}, sc)
}
