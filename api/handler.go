package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/superdense-team/superdense-engine/api"

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errMissingBit   = errors.New("bit1 and bit2 are required")
	errNonStringBit = errors.New("bit1 and bit2 must be strings")
	errJobFailed    = errors.New("simulation job failed")
)

type simulateRequest struct {
	Bit1 jsoniter.RawMessage `json:"bit1"`
	Bit2 jsoniter.RawMessage `json:"bit2"`
}

func (r *simulateRequest) bitPair() (core.BitPair, error) {
	bit1, err := rawBit(r.Bit1)
	if err != nil {
		return core.BitPair{}, err
	}
	bit2, err := rawBit(r.Bit2)
	if err != nil {
		return core.BitPair{}, err
	}
	return core.BitPair{Bit1: bit1, Bit2: bit2}, nil
}

func rawBit(raw jsoniter.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errMissingBit
	}
	var bit string
	if err := jsonIter.Unmarshal(raw, &bit); err != nil {
		return "", errors.Wrap(errNonStringBit, string(raw))
	}
	return bit, nil
}

type simulateResponse struct {
	OriginalBits string `json:"original_bits"`
	MeasuredBits string `json:"measured_bits"`
}

type simulateHandler struct {
	jm *core.JobManager
	sc *core.SystemComponents

	tracer      trace.Tracer
	simulations metric.Int64Counter
}

func newSimulateHandler(jm *core.JobManager, sc *core.SystemComponents) (*simulateHandler, error) {
	if jm == nil {
		return nil, fmt.Errorf("job manager is not initialized")
	}
	if sc == nil {
		return nil, fmt.Errorf("system components is not initialized")
	}
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"sdc.simulations",
		metric.WithDescription("Number of handled simulation requests"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create simulation counter")
	}
	return &simulateHandler{
		jm:          jm,
		sc:          sc,
		tracer:      otel.Tracer(instrumentationName),
		simulations: counter,
	}, nil
}

func (h *simulateHandler) simulate(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "simulate")
	defer span.End()

	raw, err := readSimulateBody(c.Request.Body)
	if err != nil {
		zap.L().Info(fmt.Sprintf("[API]invalid request/reason:%s", err))
		h.fail(ctx, span, c, http.StatusBadRequest, err)
		return
	}
	input, err := parseBitPair(raw)
	if err != nil {
		zap.L().Info(fmt.Sprintf("[API]invalid bits/reason:%s", err))
		h.fail(ctx, span, c, http.StatusInternalServerError, err)
		return
	}

	jobID := uuid.NewString()
	span.SetAttributes(attribute.String("job.id", jobID))
	j, err := h.jm.NewJobWithValidation(&core.JobParam{
		JobID:      jobID,
		Input:      input,
		Shots:      core.DefaultShots,
		Transpiler: core.DEFAULT_TRANSPILER_CONFIG(),
	})
	if err != nil {
		zap.L().Error(fmt.Sprintf("[API]failed to create a job(%s)/reason:%s", jobID, err))
		h.fail(ctx, span, c, http.StatusInternalServerError, err)
		return
	}
	if err := h.sc.HandleJob(j); err != nil {
		zap.L().Error(fmt.Sprintf("[API]failed to handle a job(%s)/reason:%s", jobID, err))
		h.fail(ctx, span, c, http.StatusInternalServerError, err)
		return
	}
	jd := j.JobData()
	if jd.Status != core.SUCCEEDED {
		zap.L().Error(fmt.Sprintf("[API]job(%s) finished with status:%s/message:%s",
			jobID, jd.Status, jd.Result.Message))
		h.fail(ctx, span, c, http.StatusInternalServerError, errors.Wrap(errJobFailed, jd.Result.Message))
		return
	}

	zap.L().Debug(fmt.Sprintf("[API]job(%s) result:%s", jobID, jd.Result.ToString()))
	h.simulations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "succeeded")))
	c.JSON(http.StatusOK, simulateResponse{
		OriginalBits: input.Original(),
		MeasuredBits: jd.Result.MeasuredBits,
	})
}

func (h *simulateHandler) fail(ctx context.Context, span trace.Span, c *gin.Context, status int, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.simulations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failed")))
	c.String(status, http.StatusText(status))
}

// readSimulateBody fails only when the body is not JSON at all.
func readSimulateBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, fmt.Errorf("request body is empty")
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	zap.L().Debug(fmt.Sprintf("[API]request body:%s", common.PlainJsonString(string(raw))))
	if !jsonIter.Valid(raw) {
		return nil, errors.New("request body is not valid JSON")
	}
	return raw, nil
}

// parseBitPair rejects JSON that is not an object with two string bits.
func parseBitPair(raw []byte) (core.BitPair, error) {
	if string(raw) == "null" {
		return core.BitPair{}, errMissingBit
	}
	req := &simulateRequest{}
	if err := jsonIter.Unmarshal(raw, req); err != nil {
		return core.BitPair{}, errors.Wrap(err, "decode request body")
	}
	return req.bitPair()
}
