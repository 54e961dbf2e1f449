package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// state snapshots
	StaInfo                Code = 1000
	StaTokenNotPersistable Code = 1001
	StaTokenEncode         Code = 1002
	StaTokenDecode         Code = 1003
	StaSchemaMismatch      Code = 1004

	// configuration
	CfgInfo         Code = 2000
	CfgUnknownKey   Code = 2001
	CfgBadValue     Code = 2002
	CfgSplitChars   Code = 2003
	CfgReloadFailed Code = 2004

	// replay scripts
	ScrInfo        Code = 3000
	ScrUnknownStep Code = 3001
	ScrBadArgument Code = 3002
	ScrExpectation Code = 3003
	ScrInvariant   Code = 3004
	ScrStepFailed  Code = 3005

	// field behaviour worth surfacing
	FldInfo             Code = 4000
	FldDuplicateIgnored Code = 4001
	FldLimitReached     Code = 4002
	FldNoDefaultObject  Code = 4003

	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		StaInfo:                "State information",
		StaTokenNotPersistable: "Token cannot be persisted",
		StaTokenEncode:         "Token encoding failed",
		StaTokenDecode:         "Token decoding failed",
		StaSchemaMismatch:      "Snapshot schema mismatch",
		CfgInfo:                "Configuration information",
		CfgUnknownKey:          "Unknown configuration key",
		CfgBadValue:            "Invalid configuration value",
		CfgSplitChars:          "Split characters normalized",
		CfgReloadFailed:        "Configuration reload failed",
		ScrInfo:                "Script information",
		ScrUnknownStep:         "Unknown script step",
		ScrBadArgument:         "Invalid step argument",
		ScrExpectation:         "Expectation failed",
		ScrInvariant:           "Field invariant violated",
		ScrStepFailed:          "Step returned an error",
		FldInfo:                "Field information",
		FldDuplicateIgnored:    "Duplicate token ignored",
		FldLimitReached:        "Token limit reached",
		FldNoDefaultObject:     "Text did not produce a token",
		ObsInfo:                "Observability information",
		ObsTimings:             "Replay timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("STA%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("FLD%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
