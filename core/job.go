package core

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"
)

var jobManager *JobManager

// DefaultShots matches the default shot count of common simulator backends.
const DefaultShots = 1024

type Job interface {
	// Job Control
	New(*JobData) Job
	PreProcess()
	Process()
	PostProcess()
	IsFinished() bool

	// Data Access
	JobData() *JobData // Get mutable JobData
	JobType() string
}

type JobParam struct {
	JobID      string
	Input      BitPair
	Shots      int
	Transpiler *TranspilerConfig
	JobType    string
}

// factory pattern
type JobManager struct {
	defaultJobType string
	acceptableJobs []Job //empty jobs
}

func (j *JobManager) RegisterJob(jobs ...Job) error {
	for _, job := range jobs {
		for _, t := range j.acceptableJobs {
			if reflect.TypeOf(t) == reflect.TypeOf(job) {
				return fmt.Errorf("job:%s is already registered", job.JobType())
			}
		}
		zap.L().Debug(fmt.Sprintf("registering job type %s", job.JobType()))
		j.acceptableJobs = append(j.acceptableJobs, job)
		if j.defaultJobType == "" {
			j.defaultJobType = job.JobType()
		}
	}
	return nil
}

func (j *JobManager) AcceptableJobTypes() []string {
	types := []string{}
	for _, job := range j.acceptableJobs {
		types = append(types, job.JobType())
	}
	return types
}

func (j *JobManager) NewJobWithValidation(param *JobParam) (Job, error) {
	if param.JobType == "" {
		param.JobType = j.defaultJobType
	}
	if err := validateJobParam(param); err != nil {
		zap.L().Info(fmt.Sprintf("failed to validate job param. Reason:%s", err.Error()))
		return nil, err
	}
	return j.NewJob(param)
}

func (j *JobManager) NewJob(param *JobParam) (Job, error) {
	jd := NewJobData()
	jd.ID = param.JobID
	jd.Input = param.Input
	jd.Shots = param.Shots
	jd.Transpiler = param.Transpiler
	jd.JobType = param.JobType
	return j.NewJobFromJobData(jd)
}

func (j *JobManager) NewJobFromJobData(jd *JobData) (Job, error) {
	if jd.JobType == "" {
		jd.JobType = j.defaultJobType
	}
	zap.L().Debug(fmt.Sprintf("creating a job from job data. Job ID:%s, Job Type:%s", jd.ID, jd.JobType))
	for _, aj := range j.acceptableJobs {
		if aj.JobType() == jd.JobType {
			t := reflect.TypeOf(aj)
			var newInstance Job
			if t.Kind() == reflect.Ptr {
				newInstance = reflect.New(t.Elem()).Interface().(Job)
			} else {
				newInstance = reflect.New(t).Elem().Interface().(Job)
			}
			return newInstance.New(jd), nil
		}
	}
	return nil, fmt.Errorf("job type %s is not registered", jd.JobType)
}

func validateJobParam(p *JobParam) error {
	if p.JobID == "" {
		return fmt.Errorf("jobID is empty")
	}
	if p.Shots <= 0 {
		msg := fmt.Sprintf("shots(%d) must be greater than 0", p.Shots)
		zap.L().Info(msg + fmt.Sprintf("/jobID:%s", p.JobID))
		return errors.New(msg)
	}
	sc := GetSystemComponents()
	if sc == nil {
		return fmt.Errorf("system components is not initialized")
	}
	maxShots := sc.GetDeviceInfo().MaxShots
	if p.Shots > maxShots {
		msg := fmt.Sprintf("shots(%d) is over the limit(%d)", p.Shots, maxShots)
		zap.L().Info(msg + fmt.Sprintf("/jobID:%s", p.JobID))
		return errors.New(msg)
	}
	if !p.Transpiler.NeedTranspiling() {
		return nil
	}
	err := sc.Invoke(
		func(t Transpiler) error {
			if t.IsAcceptableTranspilerLib(*p.Transpiler.TranspilerLib) {
				return nil
			}
			return fmt.Errorf("transpiler lib %s is not acceptable", *p.Transpiler.TranspilerLib)
		})
	if err != nil {
		zap.L().Info(fmt.Sprintf("failed to validate transpiler lib/JobID:%s/reason:%s", p.JobID, err.Error()))
		return err
	}
	return nil
}

func NewJobManager(jobs ...Job) (*JobManager, error) {
	jm := &JobManager{}
	if err := jm.RegisterJob(jobs...); err != nil {
		return nil, err
	}
	jobManager = jm
	return jm, nil
}

func GetJobManager() *JobManager {
	return jobManager
}

func SetFailureWithError(j Job, err error) (msg string) {
	return SetFailureWithErrorToJobData(j.JobData(), err)
}

func SetFailureWithErrorToJobData(jd *JobData, err error) (msg string) {
	msg = err.Error()
	jd.Result.Message = msg
	jd.Status = FAILED
	jd.Ended = strfmt.DateTime(time.Now())
	return msg
}

func SetSuccessToJobData(jd *JobData) {
	jd.Status = SUCCEEDED
	jd.Ended = strfmt.DateTime(time.Now())
}
