package superdense

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const SUPERDENSE_JOB = "superdense"

var ErrNoOutcome = errors.New("simulation returned no measurement outcome")

// SuperdenseJob encodes two classical bits into an entangled pair, runs the
// circuit and decodes the most frequent outcome.
type SuperdenseJob struct {
	jobData       *core.JobData
	postProcessed bool
}

func (j *SuperdenseJob) New(jd *core.JobData) core.Job {
	return &SuperdenseJob{
		jobData: jd,
	}
}

func (j *SuperdenseJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to pre-process a job(%s). Reason:%s",
			j.JobData().ID, err.Error()))
		core.SetFailureWithError(j, err)
	}
}

func (j *SuperdenseJob) preProcessImpl() error {
	jd := j.JobData()
	for _, b := range []string{jd.Input.Bit1, jd.Input.Bit2} {
		if !core.IsCanonicalBit(b) {
			zap.L().Info(fmt.Sprintf("non-binary input %q is treated as 0/JobID:%s", b, jd.ID))
		}
	}
	c, err := Encode(core.ParseBit(jd.Input.Bit1), core.ParseBit(jd.Input.Bit2))
	if err != nil {
		return err
	}
	jd.Circuit = c
	jd.QASM = c.ToQASM()
	zap.L().Debug(fmt.Sprintf("encoded circuit/JobID:%s/qasm:%s", jd.ID, jd.QASM))

	container := core.GetSystemComponents().Container
	err = container.Invoke(
		func(q core.QPUManager) error {
			return q.Validate(c)
		})
	if err != nil {
		return errors.Wrap(err, "validate")
	}

	if jd.NeedTranspiling() {
		err = container.Invoke(
			func(t core.Transpiler) error {
				return t.Transpile(j)
			})
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to transpile a job(%s). Reason:%s", jd.ID, err.Error()))
			return errors.Wrap(err, "transpile")
		}
	} else {
		zap.L().Debug(fmt.Sprintf("skip transpiling a job(%s)/Transpiler:%v",
			jd.ID, jd.Transpiler))
	}
	return nil
}

func (j *SuperdenseJob) Process() {
	c := core.GetSystemComponents().Container
	err := c.Invoke(
		func(q core.QPUManager) error {
			return q.Send(j)
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to send a job(%s) to QPU. Reason:%s", j.JobData().ID, err.Error()))
		if j.JobData().Status != core.FAILED {
			core.SetFailureWithError(j, err)
		}
	}
	zap.L().Debug(fmt.Sprintf("finished to process a job(%s)/status:%s", j.JobData().ID, j.JobData().Status))
}

func (j *SuperdenseJob) PostProcess() {
	jd := j.JobData()
	measured, ok := jd.Result.Counts.Mode()
	if !ok {
		core.SetFailureWithError(j, ErrNoOutcome)
		return
	}
	jd.Result.MeasuredBits = measured
	j.postProcessed = true
	if jd.Status != core.SUCCEEDED {
		core.SetSuccessToJobData(jd)
	}
	zap.L().Debug(fmt.Sprintf("decoded job(%s)/original:%s/measured:%s/counts:%s",
		jd.ID, jd.Input.Original(), measured, jd.Result.Counts))
}

// IsFinished is false between a successful simulation and decoding.
func (j *SuperdenseJob) IsFinished() bool {
	return j.JobData().Status == core.FAILED || j.postProcessed
}

func (j *SuperdenseJob) JobData() *core.JobData {
	return j.jobData
}

func (j *SuperdenseJob) JobType() string {
	return SUPERDENSE_JOB
}
