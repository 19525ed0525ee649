//go:build !linux

package config

// getAvailableMemoryMB has no portable source outside Linux; assume 4GB.
func getAvailableMemoryMB() int64 {
	return 4096
}
