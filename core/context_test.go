package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"

	"github.com/qpvk/qpvk/core"
)

type fakeAllocator struct {
	destroyed int
}

func (f *fakeAllocator) Destroy() {
	f.destroyed++
}

// No Vulkan library is loaded in the test binary, so any stray API call
// against a never-created handle would crash these tests.

func TestContextDestroyEmpty(t *testing.T) {
	ctx := &core.Context{}
	ctx.Destroy()
}

func TestContextDestroyAllocatorOnly(t *testing.T) {
	c := qt.New(t)

	allocator := &fakeAllocator{}
	ctx := &core.Context{
		Allocator:       allocator,
		SwapchainImages: nil,
	}
	ctx.Destroy()

	c.Assert(allocator.destroyed, qt.Equals, 1)
	c.Assert(ctx.Allocator, qt.IsNil)
}

func TestContextDestroyReleasesImageSnapshot(t *testing.T) {
	c := qt.New(t)

	ctx := &core.Context{
		SwapchainImages: make([]vk.Image, 2),
	}
	ctx.Destroy()

	c.Assert(ctx.SwapchainImages, qt.IsNil)
}

func TestContextDestroyTwice(t *testing.T) {
	c := qt.New(t)

	allocator := &fakeAllocator{}
	ctx := &core.Context{Allocator: allocator}
	ctx.Destroy()
	ctx.Destroy()

	c.Assert(allocator.destroyed, qt.Equals, 1)
}
