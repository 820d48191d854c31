package core

import (
	"fmt"

	"go.uber.org/multierr"
)

type Conf struct {
	Version            string `long:"version" description:"version of the simulation server" env:"SDC_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"SDC_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"SDC_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"SDC_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"SDC_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"SDC_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"SDC_LOG_ROTATION_MAX_DAYS"`
	QueueMaxSize       int    `long:"queue-max-size" description:"max number of jobs waiting for the simulator" default:"100" env:"SDC_QUEUE_MAX_SIZE"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"SDC_SETTING_PATH"`
}

// Validate reports every invalid field at once.
func (c *Conf) Validate() error {
	var err error
	if c.QueueMaxSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("queue max size(%d) must be greater than 0", c.QueueMaxSize))
	}
	if c.LogRotationMaxDays <= 0 {
		err = multierr.Append(err, fmt.Errorf("log rotation max days(%d) must be greater than 0", c.LogRotationMaxDays))
	}
	if c.EnableFileLog && c.LogDir == "" {
		err = multierr.Append(err, fmt.Errorf("log dir must be set when file log is enabled"))
	}
	if c.DisableStdoutLog && !c.EnableFileLog {
		err = multierr.Append(err, fmt.Errorf("at least one of stdout log and file log must be enabled"))
	}
	return err
}
