package diag

// Reporter — минимальный контракт получения нарушений от правил.
type Reporter interface {
	Report(v Violation)
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(v Violation) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(v)
}
