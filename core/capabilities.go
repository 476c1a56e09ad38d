package core

import (
	"errors"
	"fmt"
)

// Instance extension names negotiated during bootstrap.
const (
	ExtDebugUtils  = "VK_EXT_debug_utils"
	ExtDebugReport = "VK_EXT_debug_report"
	ExtSurface     = "VK_KHR_surface"
	ExtDisplay     = "VK_KHR_display"
)

// validationLayers in preference order. The first one available is enabled;
// overlapping validation layers are never stacked.
var validationLayers = []string{
	"VK_LAYER_KHRONOS_validation",
	"VK_LAYER_LUNARG_standard_validation",
}

// platformSurfaceExtensions keys candidate window system extensions by
// target platform. There is no darwin entry: no macOS surface probe is
// defined, so unknown targets simply get no platform extensions.
var platformSurfaceExtensions = map[string][]string{
	"linux": {
		"VK_KHR_wayland_surface",
		"VK_KHR_xcb_surface",
		"VK_KHR_xlib_surface",
	},
	"windows": {
		"VK_KHR_win32_surface",
	},
}

// Negotiation failure kinds. The capability set is a precondition for every
// later call, so callers treat these as fatal.
var (
	ErrLayerEnumeration     = errors.New("instance layer enumeration failed")
	ErrExtensionEnumeration = errors.New("instance extension enumeration failed")
)

// CapabilitySource lists the layers and extensions the loader knows about.
type CapabilitySource interface {
	// Layers returns the names of all available instance layers
	Layers() ([]string, error)

	// LayerExtensions returns the extension names provided by a layer
	LayerExtensions(layer string) ([]string, error)

	// Extensions returns the names of the global instance extensions
	Extensions() ([]string, error)
}

// CapabilitySet is the outcome of capability negotiation. The availability
// flags are written once here and never mutated afterward.
type CapabilitySet struct {
	Layers     []string
	Extensions []string

	DebugUtils  bool
	DebugReport bool
	Surface     bool
	Display     bool
}

// PlatformSurfaceExtensions returns the candidate surface extensions for the
// given target platform, usually runtime.GOOS.
func PlatformSurfaceExtensions(goos string) []string {
	return platformSurfaceExtensions[goos]
}

// Negotiate decides which layers and extensions to enable given what the
// loader offers. With debug set it picks at most one validation layer and
// probes it for the debug messenger extensions; the surface, display and
// platform specific extensions are enabled whenever available. A validation
// layer being absent is a recoverable configuration miss, not an error.
func Negotiate(src CapabilitySource, debug bool, platformExts []string) (*CapabilitySet, error) {
	caps := &CapabilitySet{}

	if debug {
		available, err := src.Layers()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrLayerEnumeration, err)
		}
		for _, want := range validationLayers {
			if contains(available, want) {
				caps.Layers = append(caps.Layers, want)
				break
			}
		}

		for _, layer := range caps.Layers {
			exts, err := src.LayerExtensions(layer)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrExtensionEnumeration, err)
			}
			if contains(exts, ExtDebugUtils) {
				caps.DebugUtils = true
				caps.addExtension(ExtDebugUtils)
			}
			if contains(exts, ExtDebugReport) {
				caps.DebugReport = true
				caps.addExtension(ExtDebugReport)
			}
		}
	}

	global, err := src.Extensions()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtensionEnumeration, err)
	}
	for _, ext := range global {
		switch ext {
		case ExtSurface:
			caps.Surface = true
			caps.addExtension(ext)
		case ExtDisplay:
			caps.Display = true
			caps.addExtension(ext)
		}
	}
	for _, ext := range platformExts {
		if contains(global, ext) {
			caps.addExtension(ext)
		}
	}

	return caps, nil
}

// addExtension enables an extension unless it already is enabled. An
// extension discoverable under several layers must still appear only once.
func (c *CapabilitySet) addExtension(name string) {
	if !contains(c.Extensions, name) {
		c.Extensions = append(c.Extensions, name)
	}
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
