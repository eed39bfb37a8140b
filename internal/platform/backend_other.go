//go:build !linux && !windows

package platform

// No backend registers on this platform; NewBackend returns ErrUnsupported.
