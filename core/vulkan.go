package core

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/qpvk/qpvk/device"
)

// DefaultVulkanApplicationInfo application info describes a Vulkan application
var DefaultVulkanApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 1, 0),
	ApplicationVersion: vk.MakeVersion(0, 1, 0),
	EngineVersion:      vk.MakeVersion(0, 1, 0),
	PApplicationName:   safeString("qpvk"),
	PEngineName:        safeString("qpvk"),
}

// ApplicationInfo returns the default application info with the application
// name replaced.
func ApplicationInfo(appName string) *vk.ApplicationInfo {
	info := *DefaultVulkanApplicationInfo
	info.PApplicationName = safeString(appName)
	return &info
}

// Device enumeration failure kinds. An API level failure and an empty
// enumeration are different operator facing conditions.
var (
	ErrEnumerationFailed = errors.New("vulkan physical device enumeration failed")
	ErrNoDevices         = errors.New("no available physical device found")
)

// NewVulkanInstance creates a Vulkan instance. procAddr is the loader symbol
// obtained from the windowing library; pass nil to use the default loader.
// Instance scoped entry points are bound before this returns, and with
// DebugMode set the debug messenger is attached as well.
func NewVulkanInstance(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg InstanceConfiguration) (Instance, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.SetDefaultGetInstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	caps, err := Negotiate(vulkanCapabilitySource{}, cfg.DebugMode, PlatformSurfaceExtensions(runtime.GOOS))
	if err != nil {
		return nil, err
	}

	layers := mergeUnique(caps.Layers, cfg.Layers)
	extensions := mergeUnique(caps.Extensions, cfg.Extensions)

	log.WithFields(log.Fields{
		"layers":     layers,
		"extensions": extensions,
	}).Debug("Negotiated instance capabilities")

	/* Create instance */
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	v := &VulkanInstance{
		configuration: cfg,
		capabilities:  *caps,
		instance:      instance,
	}

	/* Attach debug callback */
	if cfg.DebugMode && caps.DebugReport {
		if err := v.attachDebugCallback(); err != nil {
			vk.DestroyInstance(instance, nil)
			return nil, errors.New("vk.CreateDebugReportCallback(): " + err.Error())
		}
	}

	/* Enumerate devices */
	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		v.Destroy()
		return nil, err
	}
	v.availableDevices = physicalDevices

	return v, nil
}

// VulkanInstance describes a Vulkan API Instance
type VulkanInstance struct {
	configuration InstanceConfiguration
	capabilities  CapabilitySet

	availableDevices []vk.PhysicalDevice
	surface          vk.Surface
	instance         vk.Instance
	debugCallback    vk.DebugReportCallback
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnumerationFailed, err)
	}
	if deviceCount == 0 {
		return nil, ErrNoDevices
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnumerationFailed, err)
	}
	return availableDevices, nil
}

func (v *VulkanInstance) attachDebugCallback() error {
	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportInformationBit |
			vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit |
			vk.DebugReportErrorBit),
		PfnCallback: debugReportCallback,
	}

	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(v.instance, &createInfo, nil, &callback)); err != nil {
		return err
	}
	v.debugCallback = callback
	return nil
}

// debugReportCallback forwards API diagnostics to the structured logger.
// It always reports the message as handled, the triggering call is never
// asked to abort.
func debugReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {

	entry := log.WithField("layer", layerPrefix)
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		entry.Errorf("[vk] %s", message)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		entry.Warnf("[vk] %s", message)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		entry.Warnf("[vk] performance: %s", message)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		entry.Debugf("[vk] %s", message)
	default:
		entry.Infof("[vk] %s", message)
	}
	return vk.Bool32(vk.False)
}

// PhysicalDevicesInfo implements interface
func (v *VulkanInstance) PhysicalDevicesInfo() []device.PhysicalDeviceInfo {
	pdi := make([]device.PhysicalDeviceInfo, len(v.availableDevices))
	for i := 0; i < len(v.availableDevices); i++ {
		// Get extension info
		var numDeviceExtensions uint32
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(v.availableDevices[i], "", &numDeviceExtensions, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(v.availableDevices[i], "", &numDeviceExtensions, deviceExt)); err != nil {
			pdi[i].Invalid = true
		}
		for _, ext := range deviceExt {
			ext.Deref()
			pdi[i].Extensions = append(pdi[i].Extensions, vk.ToString(ext.ExtensionName[:]))
		}

		// Get layers info
		var numDeviceLayers uint32
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(v.availableDevices[i], &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(v.availableDevices[i], &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(v.availableDevices[i], &memoryProperties)
		memoryProperties.Deref()
		for iMem := (uint32)(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory = pdi[i].Memory + uint64(memoryProperties.MemoryHeaps[iMem].Size)
		}

		// Get general device info
		var physicalDeviceProperties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(v.availableDevices[i], &physicalDeviceProperties)
		physicalDeviceProperties.Deref()
		pdi[i].ID = uint32(physicalDeviceProperties.DeviceID)
		pdi[i].VendorID = uint32(physicalDeviceProperties.VendorID)
		pdi[i].Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
		pdi[i].DriverVersion = uint32(physicalDeviceProperties.DriverVersion)
		pdi[i].APIVersion = uint32(physicalDeviceProperties.ApiVersion)
		pdi[i].Type = deviceTypeString(physicalDeviceProperties.DeviceType)
	}
	return pdi
}

func deviceTypeString(deviceType vk.PhysicalDeviceType) string {
	switch deviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

// Capabilities implements interface
func (v *VulkanInstance) Capabilities() CapabilitySet {
	return v.capabilities
}

// SetSurface implements interface
func (v *VulkanInstance) SetSurface(pSurface unsafe.Pointer) {
	v.surface = vk.SurfaceFromPointer(uintptr(pSurface))
}

// Surface implements interface. Unset yields vk.NullSurface.
func (v *VulkanInstance) Surface() vk.Surface {
	return v.surface
}

// Inner returns internal vk.Instance
func (v *VulkanInstance) Inner() interface{} {
	return v.instance
}

// AvailableDevices implements interface
func (v *VulkanInstance) AvailableDevices() []vk.PhysicalDevice {
	return v.availableDevices
}

// Destroy implements interface. The debug messenger never outlives the
// instance that owns it.
func (v *VulkanInstance) Destroy() {
	if v.instance == nil {
		return
	}
	if v.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(v.instance, v.debugCallback, nil)
		v.debugCallback = vk.NullDebugReportCallback
	}
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}

// vulkanCapabilitySource queries layers and extensions through the loader.
// The loader must be bound with vk.Init() before use.
type vulkanCapabilitySource struct{}

// Layers implements CapabilitySource
func (vulkanCapabilitySource) Layers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}
	properties := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, properties)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}
	names := make([]string, 0, count)
	for _, props := range properties {
		props.Deref()
		names = append(names, vk.ToString(props.LayerName[:]))
	}
	return names, nil
}

// LayerExtensions implements CapabilitySource
func (vulkanCapabilitySource) LayerExtensions(layer string) ([]string, error) {
	return instanceExtensionNames(safeString(layer))
}

// Extensions implements CapabilitySource
func (vulkanCapabilitySource) Extensions() ([]string, error) {
	return instanceExtensionNames("")
}

func instanceExtensionNames(layer string) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties(layer, &count, nil)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceExtensionProperties(): " + err.Error())
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties(layer, &count, properties)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceExtensionProperties(): " + err.Error())
	}
	names := make([]string, 0, count)
	for _, props := range properties {
		props.Deref()
		names = append(names, vk.ToString(props.ExtensionName[:]))
	}
	return names, nil
}
