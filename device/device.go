package device

// PhysicalDeviceInfo describes the properties of a single rendering device
// visible to the instance. It is a read-only snapshot taken at enumeration
// time, used only for listing and selection.
type PhysicalDeviceInfo struct {
	ID            uint32
	VendorID      uint32
	DriverVersion uint32
	APIVersion    uint32
	Name          string
	Type          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        uint64
}
