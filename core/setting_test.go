//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

type testSettingDevice struct {
	MaxQubits int    `toml:"max_qubits"`
	Name      string `toml:"name"`
}

type testSettingTranspiler struct {
	BasisGates []string `toml:"basis_gates"`
}

func registeredSettings() *Setting {
	ns := newSetting()
	ns.registerSetting("device", &testSettingDevice{
		MaxQubits: 2,
		Name:      "default",
	})
	ns.registerSetting("transpiler", &testSettingTranspiler{
		BasisGates: []string{"h"},
	})
	return ns
}

func TestRegisterSettings(t *testing.T) {
	s := registeredSettings()
	assert.Equal(t, 2, len(s.ComponentSetting))
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name           string
		in             string
		wantError      bool
		wantDevice     *testSettingDevice
		wantTranspiler *testSettingTranspiler
	}{
		{
			name:           "empty keeps defaults",
			in:             "",
			wantDevice:     &testSettingDevice{MaxQubits: 2, Name: "default"},
			wantTranspiler: &testSettingTranspiler{BasisGates: []string{"h"}},
		},
		{
			name: "partial override",
			in: heredoc.Doc(`
				[com.device]
				max_qubits = 8
			`),
			wantDevice:     &testSettingDevice{MaxQubits: 8, Name: "default"},
			wantTranspiler: &testSettingTranspiler{BasisGates: []string{"h"}},
		},
		{
			name: "unregistered setting is ignored",
			in: heredoc.Doc(`
				[com.unknown]
				foo = "bar"

				[com.transpiler]
				basis_gates = ["h", "cx"]
			`),
			wantDevice:     &testSettingDevice{MaxQubits: 2, Name: "default"},
			wantTranspiler: &testSettingTranspiler{BasisGates: []string{"h", "cx"}},
		},
		{
			name: "type mismatch",
			in: heredoc.Doc(`
				[com.device]
				max_qubits = "many"
			`),
			wantError: true,
		},
		{
			name:      "broken toml",
			in:        "[com.device",
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := registeredSettings()
			err := s.parseSetting(tt.in)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tt.wantDevice, s.ComponentSetting["device"])
			assert.Equal(t, tt.wantTranspiler, s.ComponentSetting["transpiler"])
		})
	}
}

func TestGetComponentSetting(t *testing.T) {
	ResetSetting()
	RegisterSetting("device", &testSettingDevice{MaxQubits: 3})
	v, ok := GetComponentSetting("device")
	assert.True(t, ok)
	assert.Equal(t, 3, v.(*testSettingDevice).MaxQubits)
	_, ok = GetComponentSetting("missing")
	assert.False(t, ok)
}
