package qpu

import (
	"fmt"

	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const SettingName = "statevector"

const (
	DefaultDeviceName   = "StatevectorSimulator"
	DefaultProviderName = "local"
	DefaultMaxQubits    = 16
	DefaultMaxShots     = 100000
)

// DeviceSetting is decoded from the [com.statevector] table.
// Seed 0 seeds the random source from the clock.
type DeviceSetting struct {
	DeviceName   string   `toml:"device_name"`
	ProviderName string   `toml:"provider_name"`
	MaxQubits    int      `toml:"max_qubits"`
	MaxShots     int      `toml:"max_shots"`
	Seed         int64    `toml:"seed"`
	BasisGates   []string `toml:"basis_gates"`
}

func NewDefaultDeviceSetting() *DeviceSetting {
	return &DeviceSetting{
		DeviceName:   DefaultDeviceName,
		ProviderName: DefaultProviderName,
		MaxQubits:    DefaultMaxQubits,
		MaxShots:     DefaultMaxShots,
		BasisGates:   []string{"h", "x", "z", "cx"},
	}
}

func (ds *DeviceSetting) Validate() error {
	var err error
	if ds.MaxQubits <= 0 || ds.MaxQubits > 24 {
		err = multierr.Append(err, fmt.Errorf("max qubits(%d) must be in [1, 24]", ds.MaxQubits))
	}
	if ds.MaxShots <= 0 {
		err = multierr.Append(err, fmt.Errorf("max shots(%d) must be greater than 0", ds.MaxShots))
	}
	if len(ds.BasisGates) == 0 {
		err = multierr.Append(err, fmt.Errorf("basis gates must not be empty"))
	}
	return err
}

// loadDeviceSetting returns the registered setting, or the defaults when
// nothing has been registered.
func loadDeviceSetting() *DeviceSetting {
	val, ok := core.GetComponentSetting(SettingName)
	if !ok {
		zap.L().Info(fmt.Sprintf("no %s setting is registered, using defaults", SettingName))
		return NewDefaultDeviceSetting()
	}
	ds, ok := val.(*DeviceSetting)
	if !ok {
		zap.L().Warn(fmt.Sprintf("unexpected %s setting type %T, using defaults", SettingName, val))
		return NewDefaultDeviceSetting()
	}
	return ds
}
