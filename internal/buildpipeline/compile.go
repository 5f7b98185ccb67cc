package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"mcfc/internal/codegen"
	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/driver"
	"mcfc/internal/source"
	"mcfc/internal/trace"
)

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	Entries        []string // dotted module names
	SourceDir      string
	Source         fs.FS
	TemplateDir    string
	Config         codegen.Config
	MaxDiagnostics int
	// Jobs bounds the entries compiled at once; zero means no limit.
	Jobs     int
	Progress ProgressSink
}

// CompileResult holds every unit, in entry order, and the merged pack.
type CompileResult struct {
	Units   []*driver.Unit
	Pack    *datapack.MemSink
	Timings Timings
}

var stageOfPhase = map[string]Stage{
	driver.PhaseParse:    StageParse,
	driver.PhaseGenerate: StageGenerate,
	driver.PhaseWrite:    StageWrite,
}

// Compile builds every entry in parallel, each with its own compile state,
// and merges their output. Failed entries are reported together.
func Compile(ctx context.Context, req *CompileRequest) (*CompileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, errors.New("missing compile request")
	}
	if len(req.Entries) == 0 {
		return nil, errors.New("no entries to compile")
	}
	res := &CompileResult{Units: make([]*driver.Unit, len(req.Entries)), Pack: datapack.NewMemSink()}
	for _, entry := range req.Entries {
		emit(req.Progress, Event{File: entry, Stage: StageParse, Status: StatusQueued})
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile", trace.Parent(ctx))
	span.WithExtra("entries", fmt.Sprint(len(req.Entries)))
	defer span.End("")
	ctx = trace.WithParent(ctx, span)

	g, gctx := errgroup.WithContext(ctx)
	if req.Jobs > 0 {
		g.SetLimit(req.Jobs)
	}
	for i, entry := range req.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := driver.CompileUnit(gctx, driver.Request{
				Entry:          entry,
				SourceDir:      req.SourceDir,
				Source:         req.Source,
				TemplateDir:    req.TemplateDir,
				Config:         entryConfig(req.Config, i, len(req.Entries)),
				MaxDiagnostics: req.MaxDiagnostics,
				Observer:       observer(req.Progress, entry, &res.Timings),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", entry, err)
			}
			res.Units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var merr *multierror.Error
	for _, u := range res.Units {
		if u.Failed() {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", u.Entry, unitError(u)))
			continue
		}
		if err := merge(res.Pack, u); err != nil {
			emit(req.Progress, Event{File: u.Entry, Stage: StageWrite, Status: StatusError, Err: err})
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", u.Entry, err))
			continue
		}
		emit(req.Progress, Event{File: u.Entry, Stage: StageWrite, Status: StatusDone, Elapsed: u.Timer.Wall()})
	}
	return res, merr.ErrorOrNil()
}

// entryConfig gives each entry of a multi-entry pack its own register code
// prefix ("e1.", "e2.", ...) so their scores never share a holder.
func entryConfig(cfg codegen.Config, i, n int) codegen.Config {
	if n > 1 && cfg.CodePrefix == "" {
		cfg.CodePrefix = fmt.Sprintf("e%d.", i+1)
	}
	return cfg
}

func observer(sink ProgressSink, entry string, t *Timings) driver.PhaseObserver {
	return func(ev driver.PhaseEvent) {
		stage, ok := stageOfPhase[ev.Name]
		if !ok {
			return
		}
		switch {
		case ev.Status == driver.PhaseStart:
			emit(sink, Event{File: entry, Stage: stage, Status: StatusWorking})
		case ev.Err != nil:
			t.Add(stage, ev.Elapsed)
			emit(sink, Event{File: entry, Stage: stage, Status: StatusError, Err: ev.Err, Elapsed: ev.Elapsed})
		default:
			t.Add(stage, ev.Elapsed)
		}
	}
}

func unitError(u *driver.Unit) error {
	if u.Err != nil {
		return u.Err
	}
	return errors.New("diagnostics reported errors")
}

// merge copies the files of u into pack. Two entries may share a file only
// when they generated the same bytes for it.
func merge(pack *datapack.MemSink, u *driver.Unit) error {
	mem, ok := u.Sink.(*datapack.MemSink)
	if !ok {
		return fmt.Errorf("unit %s did not write into memory", u.Entry)
	}
	names := mem.Files()
	for _, name := range names {
		data, _ := mem.Read(name)
		if prev, ok := pack.Read(name); ok && !bytes.Equal(prev, data) {
			err := fmt.Errorf("%s is generated differently by another entry", name)
			diag.ReportError(diag.BagReporter{Bag: u.Bag}, diag.IOOutputConflict, source.Span{}, err.Error()).
				WithHelp("a module imported by several entries must be reached from a single entry").Emit()
			return err
		}
	}
	for _, name := range names {
		if _, ok := pack.Read(name); ok {
			continue
		}
		data, _ := mem.Read(name)
		if err := datapack.WriteFile(pack, name, string(data)); err != nil {
			return err
		}
	}
	return nil
}
