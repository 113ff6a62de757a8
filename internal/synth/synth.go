// Package synth provides drag and click synthesis onto the host environment.
package synth

// Options configures a synthesis device.
type Options struct {
	// DeviceName is the virtual device name advertised to the host. The
	// interception layer skips devices with this name so synthesized events
	// are never re-captured.
	DeviceName string

	// PixelRange converts normalized drag deltas into pixels.
	PixelRange float64
}

// DefaultOptions returns options suitable for a desktop session.
func DefaultOptions() Options {
	return Options{
		DeviceName: "tridrag virtual pointer",
		PixelRange: 1000,
	}
}
