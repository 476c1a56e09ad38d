package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"

	"github.com/qpvk/qpvk/core"
)

func TestConfigurationFromEnv(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		envy.Set(core.EnvDebug, "true")
		envy.Set(core.EnvDevice, "0x1002")
		envy.Set(core.EnvAppName, "probe")

		cfg := core.ConfigurationFromEnv()
		c.Assert(cfg.Instance.DebugMode, qt.Equals, true)
		c.Assert(cfg.Instance.Selector, qt.Equals, "0x1002")
		c.Assert(cfg.Instance.AppName, qt.Equals, "probe")
	})
}

func TestConfigurationFromEnvDefaults(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		envy.Set(core.EnvDebug, "")
		envy.Set(core.EnvDevice, "")
		envy.Set(core.EnvAppName, "")

		cfg := core.ConfigurationFromEnv()
		c.Assert(cfg.Instance.DebugMode, qt.Equals, false)
		c.Assert(cfg.Instance.Selector, qt.Equals, "")
		c.Assert(cfg.Instance.AppName, qt.Equals, "qpvk")
	})
}

func TestConfigurationFromEnvBadBool(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		envy.Set(core.EnvDebug, "maybe")

		cfg := core.ConfigurationFromEnv()
		c.Assert(cfg.Instance.DebugMode, qt.Equals, false)
	})
}
