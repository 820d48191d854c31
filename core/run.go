package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oklog/run"
	"github.com/superdense-team/superdense-engine/common"
	"go.uber.org/zap"
)

var runContext *RunContext

const (
	PERIODIC_TASKS = "periodic_tasks"
	API_SERVERS    = "api_servers"
)

type PeriodicTaskImplMap map[string]PeriodicTaskImpl
type APIServerImplMap map[string]APIServerImpl

type PeriodicTaskMap map[string]*PeriodicTask
type APIServerMap map[string]*APIServer

type ImplMaps struct {
	PeriodicTaskImplMap PeriodicTaskImplMap
	APIServerImplMap    APIServerImplMap
}

// RunnerImpl is the part shared by every runner of the run group.
// GetEmptyParams returns a pointer the [run_group.<group>.<name>.params] table is decoded into,
// which is then handed to SetParams.
type RunnerImpl interface {
	GetEmptyParams() interface{}
	SetParams(interface{}) error
	Setup() error
}

type RunContext struct {
	*run.Group
	context.Context

	settingsPath string

	PeriodicTasks PeriodicTaskMap
	APIServers    APIServerMap
}

type runnerEntry struct {
	Period time.Duration  `toml:"period"`
	Params toml.Primitive `toml:"params"`
}

type runGroupFile struct {
	RunGroup map[string]map[string]runnerEntry `toml:"run_group"`
}

func NewRunContext() *RunContext {
	return &RunContext{
		Group:         &run.Group{},
		Context:       context.Background(),
		PeriodicTasks: make(PeriodicTaskMap),
		APIServers:    make(APIServerMap),
	}
}

func NewRunContextWithSettingPath(settingsPath string, im *ImplMaps) (*RunContext, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/reason:%s", err))
		return nil, err
	}
	rc, err := newRunContextFromString(tomlString, im)
	if err != nil {
		return nil, err
	}
	rc.settingsPath = settingsPath
	return rc, nil
}

func newRunContextFromString(tomlString string, im *ImplMaps) (*RunContext, error) {
	f := &runGroupFile{}
	md, err := toml.Decode(tomlString, f)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s", err))
		return nil, err
	}
	rc := NewRunContext()
	for group, entries := range f.RunGroup {
		switch group {
		case PERIODIC_TASKS:
			for name, entry := range entries {
				impl, ok := im.PeriodicTaskImplMap[name]
				if !ok {
					return nil, unknownRunnerError(group, name)
				}
				if entry.Period <= 0 {
					msg := fmt.Sprintf("period of periodic task %s must be positive, got %v", name, entry.Period)
					zap.L().Error(msg)
					return nil, errors.New(msg)
				}
				if err := setupRunner(md, group, name, entry, impl); err != nil {
					return nil, err
				}
				t := &PeriodicTask{Period: entry.Period, PeriodicTaskImpl: impl}
				if err := rc.AddPeriodicTask(t, name); err != nil {
					return nil, err
				}
			}
		case API_SERVERS:
			for name, entry := range entries {
				impl, ok := im.APIServerImplMap[name]
				if !ok {
					return nil, unknownRunnerError(group, name)
				}
				if err := setupRunner(md, group, name, entry, impl); err != nil {
					return nil, err
				}
				if err := rc.AddAPIServer(&APIServer{APIServerImpl: impl}, name); err != nil {
					return nil, err
				}
			}
		default:
			msg := fmt.Sprintf("Unknown run group type. Group:%s", group)
			zap.L().Error(msg)
			return nil, errors.New(msg)
		}
	}
	zap.L().Info("Successfully initialized RunContext.",
		zap.Int("periodic_tasks", len(rc.PeriodicTasks)),
		zap.Int("api_servers", len(rc.APIServers)))
	return rc, nil
}

func unknownRunnerError(group, name string) error {
	msg := fmt.Sprintf("failed to find %s implementation in %s", name, group)
	zap.L().Error(msg)
	return errors.New(msg)
}

func setupRunner(md toml.MetaData, group, name string, entry runnerEntry, impl RunnerImpl) error {
	params := impl.GetEmptyParams()
	if md.IsDefined("run_group", group, name, "params") {
		if err := md.PrimitiveDecode(entry.Params, params); err != nil {
			zap.L().Error(fmt.Sprintf("failed to decode params/name:%s/reason:%s", name, err))
			return fmt.Errorf("failed to decode params of %s: %w", name, err)
		}
	}
	if err := impl.SetParams(params); err != nil {
		zap.L().Error(fmt.Sprintf("failed to set params/name:%s/reason:%s", name, err))
		return err
	}
	if err := impl.Setup(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", name, err))
		return err
	}
	return nil
}

func GetRunContext() *RunContext {
	return runContext
}

func SetRunContext(rc *RunContext) {
	runContext = rc
}

type PeriodicTask struct {
	Period time.Duration
	PeriodicTaskImpl
}

type PeriodicTaskImpl interface {
	RunnerImpl
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) GetEmptyParams() interface{} {
	return &struct{}{}
}

func (v *DefaultTaskImpl) SetParams(p interface{}) error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	if _, ok := rc.PeriodicTasks[taskName]; ok {
		return fmt.Errorf("periodic task %s is already added", taskName)
	}
	rc.PeriodicTasks[taskName] = t
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod > 0 && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
		},
	)
	return nil
}

type APIServer struct {
	APIServerImpl
}

type APIServerImpl interface {
	RunnerImpl
	Serve() error
	Shutdown()
}

func (rc *RunContext) AddAPIServer(s *APIServer, serverName string) error {
	if _, ok := rc.APIServers[serverName]; ok {
		return fmt.Errorf("api server %s is already added", serverName)
	}
	rc.APIServers[serverName] = s
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[APIServer/%s/Start]", serverName))
			if err := s.Serve(); err != nil {
				zap.L().Error(fmt.Sprintf("[APIServer/%s/Error]failed to serve/reason:%s",
					serverName, err.Error()))
				return err
			}
			return nil
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[APIServer/%s/TearDown]shutting down api server", serverName))
			s.Shutdown()
			zap.L().Info(fmt.Sprintf("[APIServer/%s/TearDown]shut down api server", serverName))
		},
	)
	return nil
}
