package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics of one compile. It keeps at most max entries
// but remembers whether an error was dropped, so HasErrors stays truthful
// after the limit is reached.
type Bag struct {
	items         []Diagnostic
	max           uint16
	dropped       int
	droppedErrors bool
}

func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	if max > 0xFFFF {
		max = 0xFFFF
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   uint16(max),
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		if d.Severity >= SevError {
			b.droppedErrors = true
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// Dropped returns how many diagnostics did not fit into the bag.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	if b.droppedErrors {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount counts stored errors.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) && newTotal <= 0xFFFF {
		b.max = uint16(newTotal)
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
	b.droppedErrors = b.droppedErrors || other.droppedErrors
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
