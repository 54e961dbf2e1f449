package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_ID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{StaTokenNotPersistable, "STA1001"},
		{CfgBadValue, "CFG2002"},
		{ScrExpectation, "SCR3003"},
		{FldDuplicateIgnored, "FLD4001"},
		{ObsTimings, "OBS5001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.ID())
		})
	}
	assert.Equal(t, "Unknown error", Code(9999).Title())
}

func TestBag_SortDedupFormat(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	ReportInfo(r, ScrInfo, Location{Source: "b.yaml", Start: 3}, "step ok").Emit()
	ReportWarning(r, StaTokenNotPersistable, Location{Source: "a", Start: 4, End: 9}, "token 2 skipped").
		WithNote(Location{Source: "a", Start: 0, End: 4}, "prefix").
		Emit()
	ReportError(r, ScrExpectation, Location{Source: "b.yaml", Start: 3}, "tokens differ").Emit()
	ReportError(r, ScrExpectation, Location{Source: "b.yaml", Start: 3}, "tokens differ again").Emit()

	require.Equal(t, 4, bag.Len())
	assert.True(t, bag.HasErrors())
	assert.True(t, bag.HasWarnings())

	bag.Dedup()
	bag.Sort()
	assert.Equal(t, []Code{StaTokenNotPersistable, ScrExpectation, ScrInfo}, bag.Codes())
	assert.Equal(t,
		"WARNING STA1001 a:4-9 token 2 skipped\n  note: a:0-4 prefix\n"+
			"ERROR SCR3003 b.yaml:3 tokens differ\n"+
			"INFO SCR3000 b.yaml:3 step ok",
		bag.Format())
}

func TestBag_Cap(t *testing.T) {
	bag := NewBag(1)
	assert.True(t, bag.Add(NewError(CfgBadValue, Location{Source: "x"}, "a")))
	assert.False(t, bag.Add(NewError(CfgBadValue, Location{Source: "x"}, "b")))

	other := NewBag(0)
	other.Add(New(SevInfo, CfgInfo, Location{Source: "y"}, "c"))
	bag.Merge(other)
	assert.Equal(t, 2, bag.Len())
	assert.Equal(t, 2, bag.Cap())
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportWarning(r, FldDuplicateIgnored, Location{Source: "field", Start: 4, End: 6}, "Meg").Emit()
	}
	ReportWarning(r, FldDuplicateIgnored, Location{Source: "field", Start: 4, End: 6}, "Max").Emit()
	assert.Equal(t, 2, bag.Len())
}

func TestParseSeverity(t *testing.T) {
	for name, want := range map[string]Severity{"info": SevInfo, "Warning": SevWarning, "warn": SevWarning, " ERROR ": SevError} {
		got, err := ParseSeverity(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN", Severity(7).String())

	bag := NewBag(0)
	bag.Add(New(SevWarning, CfgInfo, Location{Source: "x"}, "w"))
	assert.True(t, bag.AtLeast(SevInfo))
	assert.True(t, bag.AtLeast(SevWarning))
	assert.False(t, bag.AtLeast(SevError))
}
