//go:build unit
// +build unit

package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdense-team/superdense-engine/core"
	"github.com/superdense-team/superdense-engine/qpu"
	"github.com/superdense-team/superdense-engine/superdense"
	"github.com/superdense-team/superdense-engine/transpiler"
)

func setupGlobals(t *testing.T) {
	t.Helper()
	core.ResetSetting()
	sc := core.SCWithQPUAndTranspiler(&qpu.StatevectorQPU{}, &transpiler.LocalTranspiler{})
	t.Cleanup(func() { sc.TearDown() })
	_, err := core.NewJobManager(&superdense.SuperdenseJob{})
	require.NoError(t, err)
}

func TestSimulateAPIServerServe(t *testing.T) {
	setupGlobals(t)
	s := &SimulateAPIServer{}
	require.NoError(t, s.SetParams(&SimulateAPIParams{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}))
	require.NoError(t, s.Setup())

	served := make(chan error, 1)
	go func() { served <- s.Serve() }()
	require.Eventually(t, func() bool { return s.Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	res, err := http.Post("http://"+s.Addr().String()+SimulatePath, "application/json",
		strings.NewReader(`{"bit1":"1","bit2":"1"}`))
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `{"original_bits":"11","measured_bits":"11"}`, string(body))

	s.Shutdown()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSimulateAPIServerSetupErrors(t *testing.T) {
	setupGlobals(t)

	s := &SimulateAPIServer{}
	assert.EqualError(t, s.SetParams("port=5000"), "failed to set params for simulate_api/params:port=5000")

	require.NoError(t, s.SetParams(&SimulateAPIParams{Host: "bad host!", Port: 5000}))
	assert.EqualError(t, s.Setup(), "bad host! is an invalid host name")

	require.NoError(t, s.SetParams(&SimulateAPIParams{Host: "localhost", Port: 70000}))
	assert.EqualError(t, s.Setup(), "70000 is not a port number within the allowed range")

	assert.EqualError(t, (&SimulateAPIServer{}).Serve(), "simulate_api is not set up")
}

func TestSimulateAPIServerDefaultParams(t *testing.T) {
	s := &SimulateAPIServer{}
	p := s.GetEmptyParams().(*SimulateAPIParams)
	assert.Equal(t, "0.0.0.0", p.Host)
	assert.Equal(t, 5000, p.Port)
	assert.Equal(t, 5*time.Second, p.ShutdownTimeout)
}

func TestSimulateAPIServerFromSettingFile(t *testing.T) {
	setupGlobals(t)
	path := filepath.Join(t.TempDir(), "setting.toml")
	require.NoError(t, os.WriteFile(path, []byte(heredoc.Doc(`
		[run_group.api_servers.simulate_api.params]
		host = "127.0.0.1"
		port = 18080
		shutdown_timeout = "2s"
	`)), 0o600))

	s := &SimulateAPIServer{}
	rc, err := core.NewRunContextWithSettingPath(path, &core.ImplMaps{
		APIServerImplMap: core.APIServerImplMap{SimulateAPIServerName: s},
	})
	require.NoError(t, err)
	assert.Len(t, rc.APIServers, 1)
	assert.Equal(t, &SimulateAPIParams{Host: "127.0.0.1", Port: 18080, ShutdownTimeout: 2 * time.Second}, s.params)
	assert.Equal(t, "127.0.0.1:18080", s.server.Addr)
}
