package sched

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MemoryStats reports how much memory the host can spare.
type MemoryStats struct {
	AvailableBytes uint64
}

// ProbeFunc reports current memory availability. Injectable for tests
// and for platforms without /proc.
type ProbeFunc func() (MemoryStats, error)

// ReadMemoryStats reads MemAvailable from /proc/meminfo.
func ReadMemoryStats() (MemoryStats, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return MemoryStats{}, fmt.Errorf("open meminfo: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return MemoryStats{}, fmt.Errorf("parse MemAvailable: %w", err)
		}
		return MemoryStats{AvailableBytes: kb * 1024}, nil
	}
	if err := scanner.Err(); err != nil {
		return MemoryStats{}, fmt.Errorf("read meminfo: %w", err)
	}
	return MemoryStats{}, fmt.Errorf("meminfo: MemAvailable not found")
}
