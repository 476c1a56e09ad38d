package core

import (
	"strconv"

	"github.com/gobuffalo/envy"
)

// Environment keys honored by ConfigurationFromEnv.
const (
	EnvDebug   = "QPVK_DEBUG"
	EnvDevice  = "QPVK_DEVICE"
	EnvAppName = "QPVK_APP_NAME"
)

// Configuration defines a global bootstrap configuration setting
type Configuration struct {
	Instance InstanceConfiguration
}

// InstanceConfiguration is used to configure the Vulkan instance
type InstanceConfiguration struct {
	// AppName is reported to the implementation in the application info
	AppName string

	// DebugMode loads validation layers and attaches the debug messenger
	DebugMode bool

	// Selector picks the physical device: exact name, name fragment,
	// or a 0x-prefixed hexadecimal device ID
	Selector string

	// Layers and Extensions are enabled in addition to the negotiated set
	Layers     []string
	Extensions []string
}

// ConfigurationFromEnv builds the default configuration from the process
// environment. Command line flags override these values in the binaries.
func ConfigurationFromEnv() Configuration {
	debug, err := strconv.ParseBool(envy.Get(EnvDebug, "false"))
	if err != nil {
		debug = false
	}
	appName := envy.Get(EnvAppName, "qpvk")
	if appName == "" {
		appName = "qpvk"
	}
	return Configuration{
		Instance: InstanceConfiguration{
			AppName:   appName,
			DebugMode: debug,
			Selector:  envy.Get(EnvDevice, ""),
		},
	}
}
