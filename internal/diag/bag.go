package diag

import "slices"

// Bag collects diagnostics up to a limit; the rest are counted as dropped.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max, 64)), max: max}
}

// Add добавляет диагностику, учитывая лимит.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

// Dropped is the number of diagnostics refused because the bag was full.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) count(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

// HasErrors: есть ли хотя бы одна ошибка.
func (b *Bag) HasErrors() bool { return b.count(SevError) }

// HasWarnings: есть ли предупреждение или ошибка.
func (b *Bag) HasWarnings() bool { return b.count(SevWarning) }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; do not modify.
func (b *Bag) Items() []Diagnostic { return b.items }

// Filter returns a new bag holding the diagnostics at or above sev.
func (b *Bag) Filter(sev Severity) *Bag {
	out := NewBag(b.max)
	for _, d := range b.items {
		if d.Severity >= sev {
			out.items = append(out.items, d)
		}
	}
	return out
}

// Sort orders by file, start, end, then severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case x.Primary.File != y.Primary.File:
			return int(x.Primary.File) - int(y.Primary.File)
		case x.Primary.Start != y.Primary.Start:
			return cmpU32(x.Primary.Start, y.Primary.Start)
		case x.Primary.End != y.Primary.End:
			return cmpU32(x.Primary.End, y.Primary.End)
		case x.Severity != y.Severity:
			return int(y.Severity) - int(x.Severity)
		}
		return int(x.Code) - int(y.Code)
	})
}

func cmpU32(a, b uint32) int {
	if a < b {
		return -1
	}
	return 1
}

// Dedup keeps the first diagnostic per code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		sp   [3]uint32
	}
	seen := make(map[key]bool, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}}
		if seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
}
