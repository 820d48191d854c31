package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/superdense-team/superdense-engine/common"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const SimulateAPIServerName = "simulate_api"

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 5000
	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

type SimulateAPIParams struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// SimulateAPIServer serves POST /simulate inside the run group.
type SimulateAPIServer struct {
	params *SimulateAPIParams
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

func (s *SimulateAPIServer) GetEmptyParams() interface{} {
	return &SimulateAPIParams{
		Host:            defaultHost,
		Port:            defaultPort,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func (s *SimulateAPIServer) SetParams(p interface{}) error {
	params, ok := p.(*SimulateAPIParams)
	if !ok {
		err := fmt.Errorf("failed to set params for %s/params:%v", SimulateAPIServerName, p)
		zap.L().Error(err.Error())
		return err
	}
	s.params = params
	return nil
}

func (s *SimulateAPIServer) Setup() error {
	if s.params == nil {
		s.params = s.GetEmptyParams().(*SimulateAPIParams)
	}
	address, err := common.ValidAddress(s.params.Host, strconv.Itoa(s.params.Port))
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to validate address/host:%s port:%d/reason:%s",
			s.params.Host, s.params.Port, err))
		return err
	}
	router, err := NewRouter(core.GetJobManager(), core.GetSystemComponents())
	if err != nil {
		return errors.Wrap(err, "build router")
	}
	s.server = &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	zap.L().Debug(fmt.Sprintf("%s is ready to listen on %s", SimulateAPIServerName, address))
	return nil
}

func (s *SimulateAPIServer) Serve() error {
	if s.server == nil {
		return fmt.Errorf("%s is not set up", SimulateAPIServerName)
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	zap.L().Info(fmt.Sprintf("%s is listening on %s", SimulateAPIServerName, ln.Addr()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr is the bound address once Serve is listening.
func (s *SimulateAPIServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *SimulateAPIServer) Shutdown() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.params.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		zap.L().Error(fmt.Sprintf("failed to shut down %s gracefully/reason:%s", SimulateAPIServerName, err))
	}
}
