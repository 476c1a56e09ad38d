package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/qpvk/qpvk/core"
	"github.com/qpvk/qpvk/device"
)

func init() {
	runtime.LockOSThread()
}

// Exit codes, one per operator facing failure condition.
const (
	exitOK         = 0
	exitSDLInit    = 1
	exitVulkanLoad = 2
	exitBootstrap  = 3
	exitNoDevices  = 4
)

var (
	verbose        = flag.Bool("verbose", false, "enable debugging")
	listDevices    = flag.Bool("list-devices", false, "list available devices")
	deviceSelector = flag.String("device", "", "select device by name, name fragment or 0x-prefixed hex ID")
)

func main() {
	os.Exit(run())
}

// run keeps teardown on the defer chain so it executes on every exit path,
// including the list-devices early exit and the fatal ones.
func run() int {
	_ = godotenv.Load()
	cfg := core.ConfigurationFromEnv().Instance

	flag.Parse()
	if *verbose {
		cfg.DebugMode = true
	}
	if *deviceSelector != "" {
		cfg.Selector = *deviceSelector
	}

	if cfg.DebugMode {
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("debug", cfg.DebugMode).Info("Starting bootstrap")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Errorf("sdl.Init(): %s", err)
		return exitSDLInit
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Errorf("sdl.VulkanLoadLibrary(): %s", err)
		return exitVulkanLoad
	}
	defer sdl.VulkanUnloadLibrary()

	procAddr := sdl.VulkanGetVkGetInstanceProcAddr()
	if procAddr == nil {
		log.Error("sdl.VulkanGetVkGetInstanceProcAddr(): no loader symbol")
		return exitVulkanLoad
	}

	vkInstance, err := core.NewVulkanInstance(core.ApplicationInfo(cfg.AppName), procAddr, cfg)
	if err != nil {
		log.Errorf("core.NewVulkanInstance(): %s", err)
		if errors.Is(err, core.ErrNoDevices) {
			return exitNoDevices
		}
		return exitBootstrap
	}
	defer vkInstance.Destroy()

	infos := vkInstance.PhysicalDevicesInfo()

	// The listing report is human readable output on stdout,
	// a separate channel from the structured logs.
	if *listDevices {
		printDeviceReport(infos)
		return exitOK
	}

	idx := device.Select(infos, cfg.Selector)
	selected := infos[idx]
	log.WithFields(log.Fields{
		"name": selected.Name,
		"id":   fmt.Sprintf("0x%08X", selected.ID),
	}).Info("Selected device")

	ctx := core.NewContext(vkInstance, vkInstance.AvailableDevices()[idx])
	defer ctx.Destroy()

	// Device and swapchain creation continue from the context.

	return exitOK
}

func printDeviceReport(infos []device.PhysicalDeviceInfo) {
	fmt.Printf("Available physical devices: Count = %d\n", len(infos))
	for i, info := range infos {
		fmt.Printf("Device %d:\n", i)
		fmt.Printf("    Name: %s\n", info.Name)
		fmt.Printf("    ID: 0x%08X\n", info.ID)
	}
}
