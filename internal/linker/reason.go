package linker

//go:generate go tool stringer -type=Reason -linecomment -output=reason_string.go

// Reason records which branch of the match state machine produced a result.
// The zero value is ReasonUnknown, which no decision carries.
type Reason int

const (
	ReasonUnknown        Reason = iota // unknown
	ReasonOverride                     // override
	ReasonMatched                      // matched
	ReasonAmbiguous                    // ambiguous
	ReasonEmptyName                    // empty_name
	ReasonBelowThreshold               // below_threshold
	ReasonNoCandidates                 // no_candidates
	ReasonMissingEntry                 // missing_entry
)

// Resolves reports whether the reason leads to a Resolved result.
func (r Reason) Resolves() bool {
	switch r {
	case ReasonOverride, ReasonMatched, ReasonAmbiguous:
		return true
	default:
		return false
	}
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
