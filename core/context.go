package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Context owns the per-device handles acquired after instance bootstrap.
// Every field is optional; the zero value destroys nothing.
type Context struct {
	PhysicalDevice vk.PhysicalDevice
	Device         vk.Device
	Allocator      Destroyable
	Surface        vk.Surface
	Swapchain      vk.Swapchain

	// SwapchainImages is a snapshot of the swapchain image list,
	// not a set of independently owned handles.
	SwapchainImages []vk.Image

	GraphicsQueueFamily uint32
	PresentQueueFamily  uint32

	instance vk.Instance
}

// NewContext binds a selected physical device to the instance it was
// enumerated from. Device and swapchain creation fill in the rest later.
func NewContext(instance Instance, physicalDevice vk.PhysicalDevice) *Context {
	ctx := &Context{
		PhysicalDevice: physicalDevice,
		Surface:        instance.Surface(),
	}
	if inner, ok := instance.Inner().(vk.Instance); ok {
		ctx.instance = inner
	}
	return ctx
}

// Destroy releases owned handles in reverse acquisition order. Handles that
// were never created are skipped without touching the API, so a partially
// initialised context tears down cleanly on every exit path.
func (c *Context) Destroy() {
	if c.Allocator != nil {
		c.Allocator.Destroy()
		c.Allocator = nil
	}

	c.SwapchainImages = nil

	if c.Swapchain != vk.NullSwapchain && c.Device != nil {
		vk.DestroySwapchain(c.Device, c.Swapchain, nil)
		c.Swapchain = vk.NullSwapchain
	}

	if c.Device != nil {
		vk.DestroyDevice(c.Device, nil)
		c.Device = nil
	}

	if c.Surface != vk.NullSurface && c.instance != nil {
		vk.DestroySurface(c.instance, c.Surface, nil)
		c.Surface = vk.NullSurface
	}

	c.PhysicalDevice = nil
}
