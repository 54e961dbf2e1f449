// Package field implements the token field: an editable rune buffer in which
// committed tokens live as atomic chips next to free text.
//
// A Field owns the buffer, a span registry over it and the ordered token list.
// Every edit goes through one pipeline: input filter, splice, detach of
// damaged tokens, orphan sentinel cleanup, hint update and caret clamping.
// The registry reports attach and detach to the list, except while the field
// holds its guard to move spans around itself (collapse, expand, restore).
//
// Programmatic changes (AddObject, RemoveObject, Clear) are posted to a task
// queue and take effect when the host calls Drain.
//
// A Field is not safe for concurrent use.
package field
