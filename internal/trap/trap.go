// Package trap provides pointer-device interception for the event arbiter:
// it grabs the physical pointer device so every event can be arbitrated
// before the host environment sees it.
package trap
