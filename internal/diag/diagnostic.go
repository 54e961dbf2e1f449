package diag

import "fmt"

// Location points at a range inside a named source: a field buffer, a replay
// script or a config file. Offsets are runes for buffers and lines for files.
type Location struct {
	Source string
	Start  int
	End    int
}

func (l Location) String() string {
	if l.Start == 0 && l.End == 0 {
		return l.Source
	}
	if l.End <= l.Start {
		return fmt.Sprintf("%s:%d", l.Source, l.Start)
	}
	return fmt.Sprintf("%s:%d-%d", l.Source, l.Start, l.End)
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s %s", d.Severity, d.Code.ID(), d.Primary, d.Message)
}
