package main

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/qpvk/qpvk/core"
)

// qpvkcli probes the available physical devices without a window and dumps
// their properties as JSON. Validation output goes to the logger on stderr,
// stdout stays clean JSON.
func main() {
	_ = godotenv.Load()
	cfg := core.ConfigurationFromEnv().Instance
	cfg.DebugMode = true

	coreInstance, err := core.NewVulkanInstance(core.ApplicationInfo(cfg.AppName), nil, cfg)
	if err != nil {
		log.Fatalf("core.NewVulkanInstance(): %s", err)
	}

	bytes, err := json.Marshal(coreInstance.PhysicalDevicesInfo())
	if err != nil {
		coreInstance.Destroy()
		log.Fatalf("json.Marshal(): %s", err)
	}
	fmt.Printf("%s\n", bytes)

	coreInstance.Destroy()
}
