//go:build linux

package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// getAvailableMemoryMB returns memory available to new allocations in MB on Linux,
// falling back to MemTotal on kernels without MemAvailable.
func getAvailableMemoryMB() int64 {
	file, err := os.Open("/proc/meminfo")
	if err != nil {
		return 4096 // Default 4GB if can't read
	}
	defer file.Close()

	var totalKB, availableKB int64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = kb
		case "MemAvailable:":
			availableKB = kb
		}
	}
	switch {
	case availableKB > 0:
		return availableKB / 1024
	case totalKB > 0:
		return totalKB / 1024
	default:
		return 4096 // Default 4GB
	}
}
