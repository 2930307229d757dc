//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Modes returns the sorted names of the supported profiling modes.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(modes))
	},
)

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option appends pkg/profile settings derived from one Profiler field.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func start(p Profiler) Stopper {
	fn, ok := modes[p.Mode]
	if !ok {
		return ignore{}
	}

	set := []func(*profile.Profile){fn, profile.NoShutdownHook}
	for _, opt := range []option{withPath(p.Path), withQuiet(p.Quiet)} {
		set = opt(set)
	}

	return profile.Start(set...)
}

func withPath(path string) option {
	return func(set []func(*profile.Profile)) []func(*profile.Profile) {
		if path == "" {
			return set
		}

		return append(set, profile.ProfilePath(path))
	}
}

func withQuiet(quiet bool) option {
	return func(set []func(*profile.Profile)) []func(*profile.Profile) {
		if !quiet {
			return set
		}

		return append(set, profile.Quiet)
	}
}
