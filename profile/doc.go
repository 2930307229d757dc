// Package profile provides optional runtime profiling for nml.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Path: "/tmp/nml"}.Start()
//	defer stop.Stop()
//
// The nml command exposes the same settings as --pprof-mode and --pprof-dir;
// profiles are written to the pprof directory under the user cache directory
// by default. Analyze them with:
//
//	go tool pprof -http=: /tmp/nml/cpu.pprof
package profile
