// Package sysinfo reports host characteristics. The run command derives its
// default parallelism from the logical core count and prints the rest in
// verbose mode.
package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Info describes the host the harness runs on.
type Info struct {
	CPUModel   string
	CPUThreads int
	RAMBytes   uint64
	OS         string
	Arch       string
}

// Detect collects host information. Detection failures degrade to
// placeholder values instead of erroring; nothing here is load-bearing.
func Detect() Info {
	info := Info{
		CPUModel:   "Unknown",
		CPUThreads: LogicalCores(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 && cpus[0].ModelName != "" {
		info.CPUModel = cpus[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.RAMBytes = vm.Total
	}

	return info
}

// LogicalCores returns the logical CPU count.
func LogicalCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// FormatRAM formats RAM bytes to a human-readable string.
func FormatRAM(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	return fmt.Sprintf("%.1f GB", gb)
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%d threads), %s RAM, %s/%s",
		i.CPUModel, i.CPUThreads, FormatRAM(i.RAMBytes), i.OS, i.Arch)
}
