package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/qpvk/qpvk/device"
)

// Destroyable releases whatever API resources its owner holds.
// Destroying twice must be safe.
type Destroyable interface {
	Destroy()
}

// Instance describes a Vulkan instance and supporting methods.
// Once created it is ready to use.
type Instance interface {
	// PhysicalDevicesInfo returns a struct for each Physical Device
	// along with info about those devices
	PhysicalDevicesInfo() []device.PhysicalDeviceInfo

	// AvailableDevices returns handles of Physical Devices
	// from the Vulkan API
	AvailableDevices() []vk.PhysicalDevice

	// Capabilities returns the layer and extension set negotiated
	// when the instance was created
	Capabilities() CapabilitySet

	// SetSurface sets the window surface for rendering
	SetSurface(unsafe.Pointer)

	// Surface returns the window surface, if it's not set
	// it should return a valid but empty surface
	Surface() vk.Surface

	// Inner returns the inner handle of the underlying API
	Inner() interface{}

	// Destroy destroys internal members
	Destroy()
}
