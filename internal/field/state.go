package field

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"tokenfield/internal/diag"
	"tokenfield/internal/state"
	"tokenfield/internal/tokenizer"
	"tokenfield/internal/trace"
)

const stateSource = "field"

// SaveState captures configuration, tokens and the base editor state. Tokens
// that cannot be persisted are reported in the bag and left out.
func (f *Field[T]) SaveState() (*state.Snapshot, *diag.Bag, error) {
	release := f.guard.hold()
	defer release()

	f.trace.NextOp()
	sp := f.trace.Begin(trace.ScopeField, "save")
	defer sp.End("")

	limit, err := safecast.Conv[int32](f.cfg.TokenLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("token limit: %w", err)
	}
	caret, err := safecast.Conv[int32](f.caret)
	if err != nil {
		return nil, nil, fmt.Errorf("caret: %w", err)
	}

	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	snap := &state.Snapshot{
		Schema:          state.SchemaVersion,
		Prefix:          f.cfg.Prefix,
		AllowCollapse:   f.cfg.AllowCollapse,
		AllowDuplicates: f.cfg.AllowDuplicates,
		BestGuess:       f.cfg.BestGuess,
		TokenLimit:      limit,
		ClickStyle:      uint8(f.cfg.ClickStyle),
		DeletionStyle:   uint8(f.cfg.DeletionStyle),
	}
	snap.SetRunes(f.tok.Splits())

	marks := f.reg.Tokens()
	for i, tok := range f.list.All() {
		loc := diag.Location{Source: stateSource}
		if i < len(marks) {
			loc.Start, loc.End = marks[i].Start, marks[i].End
		}
		p, ok := any(tok).(state.Persistable)
		if !ok {
			diag.ReportWarning(rep, diag.StaTokenNotPersistable, loc,
				fmt.Sprintf("token %d (%v) does not implement MarshalToken; skipped", i, tok)).Emit()
			continue
		}
		data, err := p.MarshalToken()
		if err != nil {
			diag.ReportWarning(rep, diag.StaTokenEncode, loc,
				fmt.Sprintf("token %d (%v): %v", i, tok, err)).Emit()
			continue
		}
		snap.Tokens = append(snap.Tokens, data)
	}

	base, err := state.MarshalBase(state.Base{Text: f.Text(), Caret: caret, Focus: f.focused})
	if err != nil {
		return nil, bag, err
	}
	snap.Base = base
	sp.WithExtra("tokens", itoa(len(snap.Tokens)))
	return snap, bag, nil
}

// RestoreState rebuilds the field from snap. Tokens are re-added through the
// task queue, so they appear after the next Drain, each committed over the
// text the deletion style would leave behind.
func (f *Field[T]) RestoreState(snap *state.Snapshot, decode state.Decoder[T]) (*diag.Bag, error) {
	if snap == nil {
		return nil, errors.New("restore: nil snapshot")
	}
	if decode == nil {
		return nil, errors.New("restore: nil token decoder")
	}
	if snap.Schema != state.SchemaVersion {
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.StaSchemaMismatch, diag.Location{Source: stateSource},
			fmt.Sprintf("snapshot schema %d, this build reads %d", snap.Schema, state.SchemaVersion)))
		return bag, fmt.Errorf("restore: %w: got %d, want %d", state.ErrSchema, snap.Schema, state.SchemaVersion)
	}
	base, err := state.UnmarshalBase(snap.Base)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	f.trace.NextOp()
	sp := f.trace.Begin(trace.ScopeField, "restore")
	defer sp.End("")

	release := f.guard.hold()
	f.reg.DetachAll()
	f.hidden = nil
	f.selected = nil
	f.list.Reset()
	f.buf = []rune(base.Text)
	f.caret = max(0, min(int(base.Caret), len(f.buf)))
	f.focused = base.Focus
	release()

	f.cfg.AllowCollapse = snap.AllowCollapse
	f.SetAllowDuplicates(snap.AllowDuplicates)
	f.cfg.BestGuess = snap.BestGuess
	f.SetTokenLimit(int(snap.TokenLimit))
	f.SetClickStyle(ClickStyle(snap.ClickStyle))
	f.cfg.DeletionStyle = DeletionStyle(snap.DeletionStyle)
	f.tok = tokenizer.New(tokenizer.Normalize(snap.Runes())...)
	f.cfg.SplitChars = f.tok.Splits()

	f.cfg.Prefix = snap.Prefix
	f.buf = []rune(snap.Prefix)
	f.caret = len(f.buf)
	f.updateHint()

	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	for i, data := range snap.Tokens {
		tok, err := decode(data)
		if err != nil {
			diag.ReportWarning(rep, diag.StaTokenDecode, diag.Location{Source: stateSource, Start: i},
				fmt.Sprintf("token %d: %v", i, err)).Emit()
			continue
		}
		f.post(func() error { return f.addObject(tok, f.display(tok, "")) })
	}
	if !f.focused && f.cfg.AllowCollapse {
		f.queue.Post(f.Collapse)
	}
	sp.WithExtra("tokens", itoa(len(snap.Tokens)))
	return bag, nil
}
