package breakpoint

import (
	"fmt"
	"strings"

	"mcfc/internal/filens"
)

// Protocol drives splitting and raising for one compile unit.
type Protocol struct {
	Files    *filens.Table
	Registry *Registry
	// OnUnknown is called for records whose tag has no processor.
	OnUnknown func(rec filens.Record)
}

// Pending removes and returns the records of the block node at path, then
// adds the records of the functions called since the last continuation
// point. Function records stay on the function node for its other callers.
func (p *Protocol) Pending(path string) ([]filens.Record, error) {
	recs, err := p.Files.Take(path)
	if err != nil {
		return nil, err
	}
	links, err := p.Files.DrainLinks(path)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		linked, err := p.Files.Records(l.Target)
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", l.Name, err)
		}
		recs = append(recs, linked...)
	}
	return recs, nil
}

// Dispatch renders the jump into the continuation function cont and
// returns the records that had a processor. With no such record the code
// is empty and the caller keeps writing into the current file.
func (p *Protocol) Dispatch(ctx Context, records []filens.Record, cont string) (string, []filens.Record, error) {
	var (
		sb     strings.Builder
		guards []string
		kept   []filens.Record
		manual bool
	)
	for _, rec := range records {
		proc, found := p.Registry.Lookup(rec.Tag)
		if !found {
			p.unknown(rec)
			continue
		}
		s, err := proc.Split(ctx, rec, cont)
		if err != nil {
			return "", nil, fmt.Errorf("breakpoint %s#%d: %w", rec.Tag, rec.ID, err)
		}
		kept = append(kept, rec)
		sb.WriteString(s.Code)
		if s.Manual {
			manual = true
		}
		if s.Guard != "" {
			guards = append(guards, s.Guard)
		}
	}
	if len(kept) == 0 {
		return "", nil, nil
	}
	if !manual {
		sb.WriteString("execute ")
		for _, g := range guards {
			sb.WriteString(g)
			sb.WriteString(" ")
		}
		sb.WriteString("run function ")
		sb.WriteString(cont)
		sb.WriteString("\n")
	}
	return sb.String(), kept, nil
}

// Finalize runs the raise phase for records of a block at level. Records
// the processors keep are raised on parent; with an empty parent they are
// dropped. A block calls it once per file that dispatched, so the same
// record may come twice; Files.Raise keeps one.
func (p *Protocol) Finalize(ctx Context, records []filens.Record, level filens.Level, parent string) (string, error) {
	ctx.Level = level
	var sb strings.Builder
	for _, rec := range records {
		proc, found := p.Registry.Lookup(rec.Tag)
		if !found {
			p.unknown(rec)
			continue
		}
		code, keep, err := proc.Raise(ctx, rec)
		if err != nil {
			return "", fmt.Errorf("breakpoint %s#%d: %w", rec.Tag, rec.ID, err)
		}
		sb.WriteString(code)
		if keep && parent != "" {
			if err := p.Files.Raise(parent, rec); err != nil {
				return "", err
			}
		}
	}
	return sb.String(), nil
}

func (p *Protocol) unknown(rec filens.Record) {
	if p.OnUnknown != nil {
		p.OnUnknown(rec)
	}
}
