// Package prof wraps the runtime profilers behind file paths so commands can
// expose them as flags. Only one CPU profile and one runtime trace can be
// active per process.
package prof

import (
	"errors"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spf13/afero"
)

var (
	cpuFile   afero.File
	traceFile afero.File
)

// StartCPU enables CPU profiling and writes samples to path on fs.
func StartCPU(fs afero.Fs, path string) error {
	if cpuFile != nil {
		return errors.New("cpu profile already running")
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	cpuFile = f
	return nil
}

// StopCPU stops an active CPU profile and closes the underlying file.
func StopCPU() {
	pprof.StopCPUProfile()
	if cpuFile != nil {
		_ = cpuFile.Close()
		cpuFile = nil
	}
}

// WriteMem captures a heap profile to path on fs.
func WriteMem(fs afero.Fs, path string) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// StartTrace writes runtime trace data to path on fs.
func StartTrace(fs afero.Fs, path string) error {
	if traceFile != nil {
		return errors.New("runtime trace already running")
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return err
	}
	traceFile = f
	return nil
}

// StopTrace ends an active runtime trace and closes the file.
func StopTrace() {
	trace.Stop()
	if traceFile != nil {
		_ = traceFile.Close()
		traceFile = nil
	}
}
