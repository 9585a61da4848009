// ABOUTME: Process memory probe used to select the embedding mode
// ABOUTME: Samples RSS via gopsutil, falling back to runtime stats on error
package embed

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
)

// ProbeFunc reports current process memory usage in MB.
// Injected into Adaptive so tests can substitute a fake probe.
type ProbeFunc func() (float64, error)

// ProcessMemoryMB samples the resident set size of the current process
func ProcessMemoryMB() (float64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mi, merr := p.MemoryInfo(); merr == nil && mi != nil {
			return float64(mi.RSS) / (1 << 20), nil
		}
	}

	// gopsutil unavailable on this platform; use the Go runtime's view
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys) / (1 << 20), nil
}
