package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates violations up to a cap.
type Bag struct {
	items []Violation
	max   int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	prealloc := max
	if prealloc > 64 {
		prealloc = 64
	}
	return &Bag{
		items: make([]Violation, 0, prealloc),
		max:   max,
	}
}

// Add добавляет нарушение, учитывая лимит.
// Возвращает false, если нарушение не добавлено (достигнут лимит).
func (b *Bag) Add(v Violation) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, v)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice нарушений.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Violation {
	return b.items
}

// HasAutofixable returns true if at least one violation has a safe rewrite.
func (b *Bag) HasAutofixable() bool {
	for i := range b.items {
		if b.items[i].Autofixable() {
			return true
		}
	}
	return false
}

// HasManual returns true if at least one violation needs a manual fix.
func (b *Bag) HasManual() bool {
	for i := range b.items {
		if !b.items[i].Autofixable() {
			return true
		}
	}
	return false
}

// Sort сортирует нарушения по (line, code ID, col) для стабильного и
// детерминированного порядка вывода независимо от порядка правил.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		vi, vj := b.items[i], b.items[j]
		if vi.Line != vj.Line {
			return vi.Line < vj.Line
		}
		if vi.Code != vj.Code {
			return vi.Code.ID() < vj.Code.ID()
		}
		return vi.Col < vj.Col
	})
}

// простая дедупликация (по Code+Line+Col)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Violation, 0, len(b.items))
	for _, v := range b.items {
		key := fmt.Sprintf("%s:%d:%d", v.Code.ID(), v.Line, v.Col)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, v)
	}
	b.items = newitems
}
