// Package buildpipeline orchestrates the compilation of a datapack.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mcfc/internal/datapack"
)

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	OutputDir string
	// Clean removes the previous functions of the namespace first.
	Clean bool
}

// BuildResult captures the compiled units and where they were written.
type BuildResult struct {
	*CompileResult
	OutputDir string
	Files     int
}

// Build compiles every entry and writes the merged datapack to disk.
// Nothing is written when any entry fails.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, errors.New("missing build request")
	}
	if req.OutputDir == "" {
		return result, errors.New("missing output directory")
	}
	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.CompileResult = compileRes
	result.OutputDir = req.OutputDir
	if err != nil {
		return result, err
	}

	start := time.Now()
	emit(req.Progress, Event{Stage: StageWrite, Status: StatusWorking})
	if req.Clean {
		fnDir := filepath.Join(req.OutputDir, "data", req.Config.Base, "function")
		if err := os.RemoveAll(fnDir); err != nil {
			err = fmt.Errorf("failed to clean %q: %w", fnDir, err)
			emit(req.Progress, Event{Stage: StageWrite, Status: StatusError, Err: err})
			return result, err
		}
	}
	n, err := writePack(compileRes.Pack, datapack.DirSink{Root: req.OutputDir})
	result.Files = n
	elapsed := time.Since(start)
	compileRes.Timings.Add(StageWrite, elapsed)
	if err != nil {
		emit(req.Progress, Event{Stage: StageWrite, Status: StatusError, Err: err, Elapsed: elapsed})
		return result, err
	}
	emit(req.Progress, Event{Stage: StageWrite, Status: StatusDone, Elapsed: elapsed})
	for _, u := range compileRes.Units {
		emit(req.Progress, Event{File: u.Entry, Stage: StageWrite, Status: StatusDone})
	}
	return result, nil
}

func writePack(pack *datapack.MemSink, dst datapack.Sink) (int, error) {
	names := pack.Files()
	for _, name := range names {
		data, _ := pack.Read(name)
		if err := datapack.WriteFile(dst, name, string(data)); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return len(names), nil
}
