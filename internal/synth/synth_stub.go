//go:build !linux

package synth

import "fmt"

// Stub implementation for platforms without uinput.

// Device is a stub synthesis device.
type Device struct{}

// NewDevice reports that synthesis is unavailable on this platform.
func NewDevice(opts Options) (*Device, error) {
	return nil, fmt.Errorf("pointer synthesis not supported on this platform")
}

// Close is a no-op on this platform.
func (d *Device) Close() error { return nil }

// BeginDragAt is unsupported on this platform.
func (d *Device) BeginDragAt(x, y float64) error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// UpdateDrag is unsupported on this platform.
func (d *Device) UpdateDrag(dx, dy float64) error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// EndDrag is unsupported on this platform.
func (d *Device) EndDrag() error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// CancelDrag is unsupported on this platform.
func (d *Device) CancelDrag() error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// Click is unsupported on this platform.
func (d *Device) Click() error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// InjectMove is unsupported on this platform.
func (d *Device) InjectMove(dx, dy int32) error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// InjectButton is unsupported on this platform.
func (d *Device) InjectButton(button int, pressed bool) error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// InjectScroll is unsupported on this platform.
func (d *Device) InjectScroll(dx, dy int32) error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}

// ForceRelease is unsupported on this platform.
func (d *Device) ForceRelease() error {
	return fmt.Errorf("pointer synthesis not supported on this platform")
}
