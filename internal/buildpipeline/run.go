package buildpipeline

import (
	"context"
	"errors"
	"time"

	"mcfc/internal/mcvm"
)

// RunRequest compiles one entry and executes it in the emulator.
type RunRequest struct {
	CompileRequest
	// Function to call after the bootstrap; defaults to the entry module.
	Function string
	Options  mcvm.Options
}

// RunResult is the machine after the run, for inspecting scores and chat.
type RunResult struct {
	*CompileResult
	Machine *mcvm.Machine
	Stats   mcvm.Stats
}

// Run compiles req.Entries (exactly one) and runs it.
func Run(ctx context.Context, req *RunRequest) (RunResult, error) {
	var result RunResult
	if req == nil {
		return result, errors.New("missing run request")
	}
	if len(req.Entries) != 1 {
		return result, errors.New("run takes exactly one entry")
	}
	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.CompileResult = compileRes
	if err != nil {
		return result, err
	}
	entry := req.Entries[0]
	u := compileRes.Units[0]

	start := time.Now()
	emit(req.Progress, Event{File: entry, Stage: StageRun, Status: StatusWorking})
	fail := func(err error) (RunResult, error) {
		emit(req.Progress, Event{File: entry, Stage: StageRun, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return result, err
	}
	m, err := mcvm.New(compileRes.Pack.Functions(), req.Options)
	if err != nil {
		return fail(err)
	}
	result.Machine = m
	rt := u.State.Config.Runtime()
	if _, err := m.Run(rt.InitFunction()); err != nil {
		return fail(err)
	}
	fn := req.Function
	if fn == "" {
		fn = EntryFunction(rt.Base, entry)
	}
	stats, err := m.Run(fn)
	result.Stats = stats
	if err != nil {
		return fail(err)
	}
	elapsed := time.Since(start)
	compileRes.Timings.Add(StageRun, elapsed)
	emit(req.Progress, Event{File: entry, Stage: StageRun, Status: StatusDone, Elapsed: elapsed})
	return result, nil
}

// EntryFunction is the function id running the body of a module. Dotted
// names keep their dots: each module is one folder.
func EntryFunction(base, module string) string {
	return base + ":" + module + "/module"
}
