//go:build linux

package synth

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux implementation of pointer synthesis using /dev/uinput.

// uinput ioctls and event codes, from <linux/uinput.h> and
// <linux/input-event-codes.h>.
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiDevSetup   = 0x405c5503
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	synReport = 0
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Device synthesizes pointer events through a uinput virtual device.
type Device struct {
	mu      sync.Mutex
	fd      int
	opts    Options
	pressed bool
}

// NewDevice opens /dev/uinput and registers a relative pointer device.
func NewDevice(opts Options) (*Device, error) {
	if opts.DeviceName == "" {
		opts = DefaultOptions()
	}

	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev/uinput: %w", err)
	}

	for _, bit := range []struct{ req, val int }{
		{uiSetEvBit, evKey},
		{uiSetEvBit, evRel},
		{uiSetEvBit, evSyn},
		{uiSetKeyBit, btnLeft},
		{uiSetKeyBit, btnRight},
		{uiSetKeyBit, btnMiddle},
		{uiSetRelBit, relX},
		{uiSetRelBit, relY},
		{uiSetRelBit, relHWheel},
		{uiSetRelBit, relWheel},
	} {
		if err := unix.IoctlSetInt(fd, uint(bit.req), bit.val); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("uinput ioctl 0x%x failed: %w", bit.req, err)
		}
	}

	var setup uinputSetup
	setup.ID = inputID{Bustype: 0x03, Vendor: 0x1d6b, Product: 0x0104, Version: 1}
	copy(setup.Name[:], opts.DeviceName)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevSetup, uintptr(unsafe.Pointer(&setup))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("uinput device setup failed: %w", errno)
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevCreate, 0); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("uinput device create failed: %w", errno)
	}

	return &Device{fd: fd, opts: opts}, nil
}

// Close destroys the virtual device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uiDevDestroy, 0)
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *Device) emit(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]
	if _, err := unix.Write(d.fd, buf); err != nil {
		return fmt.Errorf("uinput write failed: %w", err)
	}
	return nil
}

func (d *Device) sync() error {
	return d.emit(evSyn, synReport, 0)
}

// BeginDragAt presses the synthesized drag button. The origin point is
// informational; a relative device cannot warp the cursor there.
func (d *Device) BeginDragAt(x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.emit(evKey, btnMiddle, 1); err != nil {
		return err
	}
	d.pressed = true
	return d.sync()
}

// UpdateDrag moves the pointer by a normalized delta.
func (d *Device) UpdateDrag(dx, dy float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	px := int32(dx * d.opts.PixelRange)
	py := int32(dy * d.opts.PixelRange)
	if px == 0 && py == 0 {
		return nil
	}
	if err := d.emit(evRel, relX, px); err != nil {
		return err
	}
	if err := d.emit(evRel, relY, py); err != nil {
		return err
	}
	return d.sync()
}

// EndDrag releases the drag button.
func (d *Device) EndDrag() error {
	return d.release()
}

// CancelDrag releases the drag button without completing the drop.
func (d *Device) CancelDrag() error {
	return d.release()
}

func (d *Device) release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pressed {
		return nil
	}
	if err := d.emit(evKey, btnMiddle, 0); err != nil {
		return err
	}
	d.pressed = false
	return d.sync()
}

// Click synthesizes a complete middle click.
func (d *Device) Click() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.emit(evKey, btnMiddle, 1); err != nil {
		return err
	}
	if err := d.sync(); err != nil {
		return err
	}
	if err := d.emit(evKey, btnMiddle, 0); err != nil {
		return err
	}
	return d.sync()
}

// InjectMove re-posts a passed-through relative move. While the physical
// device is grabbed the host only sees what this device emits.
func (d *Device) InjectMove(dx, dy int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dx != 0 {
		if err := d.emit(evRel, relX, dx); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := d.emit(evRel, relY, dy); err != nil {
			return err
		}
	}
	return d.sync()
}

// InjectButton re-posts a passed-through button event. button is 1=left,
// 2=right, 3=middle, matching the interception layer's numbering.
func (d *Device) InjectButton(button int, pressed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var code uint16
	switch button {
	case 1:
		code = btnLeft
	case 2:
		code = btnRight
	case 3:
		code = btnMiddle
	default:
		return fmt.Errorf("unknown button %d", button)
	}
	var value int32
	if pressed {
		value = 1
	}
	if err := d.emit(evKey, code, value); err != nil {
		return err
	}
	return d.sync()
}

// InjectScroll re-posts a passed-through wheel event.
func (d *Device) InjectScroll(dx, dy int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dx != 0 {
		if err := d.emit(evRel, relHWheel, dx); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := d.emit(evRel, relWheel, dy); err != nil {
			return err
		}
	}
	return d.sync()
}

// ForceRelease releases every button the device may be holding. Used when
// the engine is disabled mid-drag.
func (d *Device) ForceRelease() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, btn := range []uint16{btnLeft, btnRight, btnMiddle} {
		if err := d.emit(evKey, btn, 0); err != nil {
			return err
		}
	}
	d.pressed = false
	return d.sync()
}
