package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/superdense-team/superdense-engine/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

// Setting holds the component settings registered at start up.
// Each value is a pointer to a struct with defaults, decoded in place
// from the [com.<name>] table of the setting file.
type Setting struct {
	ComponentSetting map[string]interface{}
}

type componentSettingFile struct {
	Com map[string]toml.Primitive `toml:"com,omitempty"`
}

func ResetSetting() {
	globalSetting = newSetting()
}

func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.registerSetting(settingName, settingVal)
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("Setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]interface{}),
	}
}

func (s *Setting) registerSetting(settingName string, settingVal interface{}) {
	s.ComponentSetting[settingName] = settingVal
}

func (s *Setting) parseSetting(tomlString string) error {
	f := &componentSettingFile{}
	md, err := toml.Decode(tomlString, f)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	for name, prim := range f.Com {
		val, ok := s.ComponentSetting[name]
		if !ok {
			zap.L().Info(fmt.Sprintf("ignored unregistered setting:%s", name))
			continue
		}
		if err := md.PrimitiveDecode(prim, val); err != nil {
			zap.L().Error(fmt.Sprintf("failed to decode setting:%s/reason:%s", name, err))
			return fmt.Errorf("failed to decode setting %s: %w", name, err)
		}
	}
	zap.L().Debug(fmt.Sprintf("Setting is %v", s.ComponentSetting))
	return nil
}
