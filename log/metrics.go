package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const MetricsLogTaskName = "metrics_log"

const (
	queueLengthKeyInMetrics   = "queue_length"
	succeededJobsKeyInMetrics = "succeeded_jobs"
	failedJobsKeyInMetrics    = "failed_jobs"
	defaultMetricsDir         = "./shares/metrics"
)

type MetricsLogParams struct {
	FileDir string `toml:"file_dir"`
}

// MetricsLogTaskImpl appends one JSON line per period to metrics-<date>.log.
type MetricsLogTaskImpl struct {
	params *MetricsLogParams

	dl     *dailyLogger
	logger *slog.Logger
	sc     *core.SystemComponents

	core.DefaultTaskImpl
}

func (m *MetricsLogTaskImpl) GetEmptyParams() interface{} {
	return &MetricsLogParams{FileDir: defaultMetricsDir}
}

func (m *MetricsLogTaskImpl) SetParams(p interface{}) error {
	params, ok := p.(*MetricsLogParams)
	if !ok {
		err := fmt.Errorf("failed to set params for metrics log task/params: %v", p)
		zap.L().Error(err.Error())
		return err
	}
	m.params = params
	return nil
}

func (m *MetricsLogTaskImpl) Setup() error {
	if m.params == nil {
		m.params = m.GetEmptyParams().(*MetricsLogParams)
	}
	if err := common.IsDirWritable(m.params.FileDir); err != nil {
		zap.L().Error("failed to set up metrics log task", zap.Error(err))
		return fmt.Errorf("failed to write to %s: %w", m.params.FileDir, err)
	}
	sc := core.GetSystemComponents()
	if sc == nil {
		return fmt.Errorf("system components is not initialized")
	}
	m.dl = newDailyLogger(m.params.FileDir)
	m.logger = slog.New(slog.NewJSONHandler(m.dl, nil))
	m.sc = sc
	return nil
}

func (m *MetricsLogTaskImpl) Task() {
	stats := m.sc.GetSchedulerStats()
	m.logger.Info(
		"Metrics",
		slog.Int(queueLengthKeyInMetrics, m.sc.GetCurrentQueueSize()),
		slog.Uint64(succeededJobsKeyInMetrics, stats.Succeeded),
		slog.Uint64(failedJobsKeyInMetrics, stats.Failed),
	)
}

func (m *MetricsLogTaskImpl) Cleanup() {
	if m.dl == nil {
		return
	}
	if err := m.dl.Close(); err != nil {
		zap.L().Error("failed to close metrics log", zap.Error(err))
	}
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
	now             func() time.Time
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
		now:     time.Now,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", dl.now().Format("2006-01-02"))
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file == nil {
		return nil
	}
	err := dl.file.Close()
	dl.file = nil
	return err
}
