package transpiler

import (
	"fmt"

	"github.com/superdense-team/superdense-engine/core"
)

const PassTranspilerLib = "pass"

// PassTranspiler hands the circuit to the simulator unchanged.
type PassTranspiler struct{}

func (t *PassTranspiler) IsAcceptableTranspilerLib(lib string) bool {
	return lib == PassTranspilerLib || lib == LocalTranspilerLib
}

func (t *PassTranspiler) Setup(_ *core.Conf) error {
	return nil
}

func (t *PassTranspiler) GetHealth() error {
	return nil
}

func (t *PassTranspiler) Transpile(j core.Job) error {
	jd := j.JobData()
	if jd.Circuit == nil {
		return fmt.Errorf("circuit is empty")
	}
	jd.TranspiledCircuit = jd.Circuit.Clone()
	jd.Result.TranspilerInfo.VirtualPhysicalMapping = identityMapping(jd.Circuit.NumQubits)
	return nil
}

func (t *PassTranspiler) TearDown() error {
	return nil
}
