package testkit

// Recorder is a field listener that keeps every callback in order.
type Recorder[T any] struct {
	Added   []T
	Removed []T
	Ignored []T
	Events  []string
}

func (r *Recorder[T]) OnTokenAdded(tok T) {
	r.Added = append(r.Added, tok)
	r.Events = append(r.Events, "added")
}

func (r *Recorder[T]) OnTokenRemoved(tok T) {
	r.Removed = append(r.Removed, tok)
	r.Events = append(r.Events, "removed")
}

func (r *Recorder[T]) OnTokenIgnored(tok T) {
	r.Ignored = append(r.Ignored, tok)
	r.Events = append(r.Events, "ignored")
}

// Reset forgets every recorded callback.
func (r *Recorder[T]) Reset() {
	*r = Recorder[T]{}
}
