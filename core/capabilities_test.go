package core

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

// fakeSource feeds Negotiate a scripted loader.
type fakeSource struct {
	layers    []string
	layerExts map[string][]string
	exts      []string

	layersErr    error
	layerExtsErr error
	extsErr      error
}

func (f fakeSource) Layers() ([]string, error) {
	return f.layers, f.layersErr
}

func (f fakeSource) LayerExtensions(layer string) ([]string, error) {
	return f.layerExts[layer], f.layerExtsErr
}

func (f fakeSource) Extensions() ([]string, error) {
	return f.exts, f.extsErr
}

func TestNegotiateWithoutDebug(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{
		layers: []string{"VK_LAYER_KHRONOS_validation"},
		layerExts: map[string][]string{
			"VK_LAYER_KHRONOS_validation": {ExtDebugUtils, ExtDebugReport},
		},
		exts: []string{ExtSurface, ExtDisplay},
	}

	caps, err := Negotiate(src, false, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(caps.Layers, qt.HasLen, 0)
	c.Assert(caps.DebugUtils, qt.Equals, false)
	c.Assert(caps.DebugReport, qt.Equals, false)
	c.Assert(contains(caps.Extensions, ExtDebugUtils), qt.Equals, false)
	c.Assert(contains(caps.Extensions, ExtDebugReport), qt.Equals, false)
	c.Assert(caps.Surface, qt.Equals, true)
	c.Assert(caps.Display, qt.Equals, true)
}

func TestNegotiatePicksOneValidationLayer(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{
		layers: []string{
			"VK_LAYER_LUNARG_standard_validation",
			"VK_LAYER_KHRONOS_validation",
		},
		layerExts: map[string][]string{
			"VK_LAYER_KHRONOS_validation":         {ExtDebugUtils, ExtDebugReport},
			"VK_LAYER_LUNARG_standard_validation": {ExtDebugUtils},
		},
	}

	caps, err := Negotiate(src, true, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(caps.Layers, qt.DeepEquals, []string{"VK_LAYER_KHRONOS_validation"})
	c.Assert(caps.DebugUtils, qt.Equals, true)
	c.Assert(caps.DebugReport, qt.Equals, true)
}

func TestNegotiateFallbackValidationLayer(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{
		layers: []string{"VK_LAYER_LUNARG_standard_validation"},
		layerExts: map[string][]string{
			"VK_LAYER_LUNARG_standard_validation": {ExtDebugReport},
		},
	}

	caps, err := Negotiate(src, true, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(caps.Layers, qt.DeepEquals, []string{"VK_LAYER_LUNARG_standard_validation"})
	c.Assert(caps.DebugUtils, qt.Equals, false)
	c.Assert(caps.DebugReport, qt.Equals, true)
}

func TestNegotiateNoValidationLayerAvailable(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{exts: []string{ExtSurface}}

	// A missing validation layer is a configuration miss, not an error.
	caps, err := Negotiate(src, true, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(caps.Layers, qt.HasLen, 0)
	c.Assert(caps.DebugUtils, qt.Equals, false)
	c.Assert(caps.Surface, qt.Equals, true)
}

func TestNegotiateDebugExtensionDeduplicated(t *testing.T) {
	c := qt.New(t)

	caps := &CapabilitySet{}
	caps.addExtension(ExtDebugUtils)
	caps.addExtension(ExtDebugUtils)
	caps.addExtension(ExtDebugReport)
	caps.addExtension(ExtDebugUtils)

	c.Assert(caps.Extensions, qt.DeepEquals, []string{ExtDebugUtils, ExtDebugReport})
}

func TestNegotiatePlatformExtensionsProbed(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{
		exts: []string{ExtSurface, "VK_KHR_xcb_surface"},
	}

	caps, err := Negotiate(src, false, PlatformSurfaceExtensions("linux"))
	c.Assert(err, qt.IsNil)
	// Only the platform extensions the loader actually offers get enabled.
	c.Assert(contains(caps.Extensions, "VK_KHR_xcb_surface"), qt.Equals, true)
	c.Assert(contains(caps.Extensions, "VK_KHR_wayland_surface"), qt.Equals, false)
	c.Assert(contains(caps.Extensions, "VK_KHR_xlib_surface"), qt.Equals, false)
}

func TestPlatformSurfaceExtensionsTable(t *testing.T) {
	c := qt.New(t)
	c.Assert(PlatformSurfaceExtensions("windows"), qt.DeepEquals, []string{"VK_KHR_win32_surface"})
	c.Assert(PlatformSurfaceExtensions("darwin"), qt.IsNil)
	c.Assert(PlatformSurfaceExtensions("plan9"), qt.IsNil)
}

func TestNegotiateLayerEnumerationError(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{layersErr: errors.New("boom")}

	caps, err := Negotiate(src, true, nil)
	c.Assert(caps, qt.IsNil)
	c.Assert(errors.Is(err, ErrLayerEnumeration), qt.Equals, true)
}

func TestNegotiateExtensionEnumerationError(t *testing.T) {
	c := qt.New(t)
	src := fakeSource{extsErr: errors.New("boom")}

	caps, err := Negotiate(src, false, nil)
	c.Assert(caps, qt.IsNil)
	c.Assert(errors.Is(err, ErrExtensionEnumeration), qt.Equals, true)
}
