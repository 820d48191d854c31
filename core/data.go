package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/superdense-team/superdense-engine/circuit"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Status int // Status of a simulation job
type VirtualPhysicalMapping map[uint32]uint32
type Counts map[string]uint32

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	READY     Status = iota // Accepted, not yet executed.
	RUNNING                 // Being executed on the simulator.
	SUCCEEDED               // Finished successfully.
	FAILED                  // Finished with failure.
)

func (s Status) String() string {
	switch s {
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	default:
		return "unknown"
	}
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

// Bit is a classical input bit. Only the literal "1" parses to One;
// every other string, "0" included, parses to Zero.
type Bit uint8

const (
	Zero Bit = iota
	One
)

func ParseBit(s string) Bit {
	if s == "1" {
		return One
	}
	return Zero
}

// IsCanonicalBit reports whether s is exactly "0" or "1".
func IsCanonicalBit(s string) bool {
	return s == "0" || s == "1"
}

func (b Bit) String() string {
	if b == One {
		return "1"
	}
	return "0"
}

// BitPair is the raw request input, kept verbatim.
type BitPair struct {
	Bit1 string `json:"bit1"`
	Bit2 string `json:"bit2"`
}

func (p BitPair) Original() string {
	return p.Bit1 + p.Bit2
}

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

func (c Counts) Shots() uint32 {
	var total uint32
	for _, v := range c {
		total += v
	}
	return total
}

// Mode returns the bit string observed most often.
// Ties are broken by the lexicographically smallest bit string.
// It returns false when there are no counts.
func (c Counts) Mode() (string, bool) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if c[k] > c[best] {
			best = k
		}
	}
	return best, true
}

func (v VirtualPhysicalMapping) String() string {
	st, err := jsonIter.Marshal(v)
	if err != nil {
		zap.L().Error("Failed to marshal core.VirtualPhysicalMapping")
		return ""
	}
	return string(st)
}

type Result struct {
	Counts         Counts          `json:"counts"`
	MeasuredBits   string          `json:"measured_bits"`
	TranspilerInfo *TranspilerInfo `json:"transpiler_info"`
	Message        string          `json:"message"`
	ExecutionTime  time.Duration   `json:"execution_time"`
}

type TranspilerInfo struct {
	Stats                  json.RawMessage        `json:"stats"`
	VirtualPhysicalMapping VirtualPhysicalMapping `json:"virtual_physical_mapping"`
}

func NewResult() *Result {
	return &Result{
		Counts: make(Counts),
		TranspilerInfo: &TranspilerInfo{
			VirtualPhysicalMapping: make(VirtualPhysicalMapping),
		},
	}
}

func (r *Result) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.Result")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}

type TranspilerConfig struct {
	TranspilerLib     *string         `json:"transpiler_lib"` // nil means no transpiler
	TranspilerOptions json.RawMessage `json:"transpiler_options"`
}

func (c *TranspilerConfig) NeedTranspiling() bool {
	return c != nil && c.TranspilerLib != nil
}

type TranspilerOptions struct {
	OptimizationLevel *int `json:"optimization_level,omitempty"`
}

func (c *TranspilerConfig) Options() (TranspilerOptions, error) {
	var o TranspilerOptions
	if c == nil || len(c.TranspilerOptions) == 0 {
		return o, nil
	}
	if err := jsonIter.Unmarshal(c.TranspilerOptions, &o); err != nil {
		return o, fmt.Errorf("invalid transpiler options %s: %w", string(c.TranspilerOptions), err)
	}
	return o, nil
}

const DefaultTranspilerLib = "local"

func DEFAULT_TRANSPILER_CONFIG() *TranspilerConfig {
	lib := DefaultTranspilerLib
	return &TranspilerConfig{
		TranspilerLib:     &lib,
		TranspilerOptions: json.RawMessage(`{}`),
	}
}

func NoTranspilerConfig() *TranspilerConfig {
	return &TranspilerConfig{}
}

type JobData struct {
	ID                string
	Status            Status
	Shots             int
	Transpiler        *TranspilerConfig
	Input             BitPair
	Circuit           *circuit.Circuit
	QASM              string
	TranspiledCircuit *circuit.Circuit
	Result            *Result
	JobType           string
	Created           strfmt.DateTime
	Ended             strfmt.DateTime
}

func (jd *JobData) NeedTranspiling() bool {
	return jd.Transpiler.NeedTranspiling()
}

// ExecutableCircuit is the circuit the simulator should run.
func (jd *JobData) ExecutableCircuit() *circuit.Circuit {
	if jd.TranspiledCircuit != nil {
		return jd.TranspiledCircuit
	}
	return jd.Circuit
}

func NewJobData() *JobData {
	return &JobData{
		Status:  READY,
		Result:  NewResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}
