// Package suggest provides the candidate list the field completes against.
package suggest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Adapter is a read-only list of completion candidates.
type Adapter[T any] interface {
	Count() int
	ItemAt(i int) T
}

// Filterer narrows an adapter to candidates matching the composing text.
type Filterer interface {
	Filter(mask string)
}

// KeepFunc decides whether item matches mask.
type KeepFunc[T any] func(item T, mask string) bool

// Filtered is an Adapter over a fixed item set narrowed by a KeepFunc.
type Filtered[T any] struct {
	items []T
	keep  KeepFunc[T]
	view  []T
	mask  string
}

// NewFiltered returns an adapter showing every item until Filter is called.
func NewFiltered[T any](items []T, keep KeepFunc[T]) *Filtered[T] {
	f := &Filtered[T]{items: append([]T(nil), items...), keep: keep}
	f.view = f.items
	return f
}

func (f *Filtered[T]) Count() int { return len(f.view) }

func (f *Filtered[T]) ItemAt(i int) T {
	return f.view[i]
}

// Mask returns the last filter mask.
func (f *Filtered[T]) Mask() string { return f.mask }

// Filter keeps items accepted by the KeepFunc. An empty mask shows nothing.
func (f *Filtered[T]) Filter(mask string) {
	f.mask = mask
	f.view = nil
	if mask == "" || f.keep == nil {
		return
	}
	for _, it := range f.items {
		if f.keep(it, mask) {
			f.view = append(f.view, it)
		}
	}
}

// Items returns the current view.
func (f *Filtered[T]) Items() []T {
	return append([]T(nil), f.view...)
}

// SetItems replaces the item set and re-applies the last mask.
func (f *Filtered[T]) SetItems(items []T) {
	f.items = append([]T(nil), items...)
	if f.mask == "" {
		f.view = f.items
		return
	}
	f.Filter(f.mask)
}

var folder = cases.Fold()

// Fold returns s case-folded in NFC form.
func Fold(s string) string {
	return folder.String(norm.NFC.String(s))
}

// HasPrefixFold reports whether s starts with prefix ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}
