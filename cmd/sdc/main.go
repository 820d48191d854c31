package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/gin-gonic/gin"
	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/superdense-team/superdense-engine/api"
	"github.com/superdense-team/superdense-engine/core"
	"github.com/superdense-team/superdense-engine/log"
	"github.com/superdense-team/superdense-engine/qpu"
	"github.com/superdense-team/superdense-engine/scheduler"
	"github.com/superdense-team/superdense-engine/superdense"
	"github.com/superdense-team/superdense-engine/transpiler"
)

var versionByBuildFlag string
var parser *flags.Parser
var sdc *SDC

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	sdc = &SDC{}
	setParser(sdc)
}

type SDC struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Transpiler string `long:"transpiler" description:"transpiler-type" default:"local" choice:"local" choice:"pass" env:"SDC_TRANSPILER_TYPE"`
	QPU        string `long:"qpu" description:"qpu-type" default:"statevector" choice:"statevector" env:"SDC_QPU_TYPE"`
	Scheduler  string `long:"scheduler" description:"scheduler-type" default:"normal" choice:"normal" env:"SDC_SCHEDULER_TYPE"`
}

func setParser(s *SDC) {
	parser = flags.NewParser(s, flags.Default)
	parser.ShortDescription = "superdense coding simulator"
	parser.LongDescription = "an HTTP service that sends two classical bits through a simulated entangled qubit pair."
	parser.AddCommand("serve", "start the API server", "start serving POST /simulate", newServeCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (s *SDC) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	err := c.Provide(func() (core.QPUManager, error) {
		switch s.DIContainerParameters.QPU {
		case "statevector":
			return &qpu.StatevectorQPU{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown QPU", s.DIContainerParameters.QPU)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.Transpiler, error) {
		switch s.DIContainerParameters.Transpiler {
		case "local":
			return &transpiler.LocalTranspiler{}, nil
		case "pass":
			return &transpiler.PassTranspiler{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown Transpiler", s.DIContainerParameters.Transpiler)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.Scheduler, error) {
		switch s.DIContainerParameters.Scheduler {
		case "normal":
			return &scheduler.NormalScheduler{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown Scheduler", s.DIContainerParameters.Scheduler)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	parse()
}

type serveCmd struct{}

func newServeCmd() *serveCmd {
	return &serveCmd{}
}

func (c *serveCmd) Execute(args []string) error {
	if err := sdc.Conf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:%v\n", err)
		return err
	}
	logger, err := setZap(sdc.Conf)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if !sdc.Conf.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	core.ResetSetting()
	registerSetting()
	zap.L().Debug("Registered setting")
	if err := core.ParseSettingFromPath(sdc.Conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	s, err := setupSystemComponents(sdc.Conf)
	if err != nil {
		return err
	}
	defer s.TearDown()

	if err := startCore(s); err != nil {
		zap.L().Error(fmt.Sprintf("failed to start core/reason:%s", err))
		return err
	}

	rc, err := core.NewRunContextWithSettingPath(sdc.Conf.SettingPath, implMaps())
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup run context/reason:%s", err.Error()))
		return err
	}
	if len(rc.APIServers) == 0 {
		zap.L().Warn(fmt.Sprintf("no API server is configured; add [run_group.api_servers.%s]",
			api.SimulateAPIServerName))
	}
	setupRunGroup(rc)

	if err := rc.Run(); err != nil {
		var sig run.SignalError
		if errors.As(err, &sig) {
			zap.L().Info(fmt.Sprintf("stopped by %s", sig.Signal))
			return nil
		}
		zap.L().Error(fmt.Sprintf("execution error/reason:%s", err))
		return err
	}
	return nil
}

func implMaps() *core.ImplMaps {
	return &core.ImplMaps{
		PeriodicTaskImplMap: core.PeriodicTaskImplMap{
			log.VersionLogTaskName: &log.VersionLogTaskImpl{},
			log.MetricsLogTaskName: &log.MetricsLogTaskImpl{},
		},
		APIServerImplMap: core.APIServerImplMap{
			api.SimulateAPIServerName: &api.SimulateAPIServer{},
		},
	}
}

func setupRunGroup(rc *core.RunContext) {
	rc.Add(run.SignalHandler(rc.Context, os.Interrupt, syscall.SIGTERM))
	core.SetRunContext(rc)
}

func startCore(s *core.SystemComponents) error {
	if _, err := core.NewJobManager(&superdense.SuperdenseJob{}); err != nil {
		return err
	}
	return s.StartContainer()
}

func setupSystemComponents(conf *core.Conf) (*core.SystemComponents, error) {
	core.SetVersion(conf, versionByBuildFlag)
	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", *sdc.DIContainerParameters))

	container, err := sdc.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, err
	}
	return s, nil
}

func registerSetting() {
	core.RegisterSetting(qpu.SettingName, qpu.NewDefaultDeviceSetting())
	core.RegisterSetting(transpiler.SettingName, transpiler.NewLocalTranspilerSetting())
}
