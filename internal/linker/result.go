package linker

// Result is the outcome of matching one area name. The zero value is
// Unresolved; a code is only reachable through ISO3's ok flag.
type Result struct {
	iso3     string
	resolved bool
}

// Resolved returns a result carrying code.
func Resolved(code string) Result {
	return Result{iso3: code, resolved: true}
}

// Unresolved returns the no-match result.
func Unresolved() Result {
	return Result{}
}

// ISO3 returns the resolved code and true, or "" and false.
func (r Result) ISO3() (string, bool) {
	return r.iso3, r.resolved
}

// IsResolved reports whether a code was found.
func (r Result) IsResolved() bool {
	return r.resolved
}

// String renders the result for logs.
func (r Result) String() string {
	if !r.resolved {
		return "Unresolved"
	}

	return "Resolved(" + r.iso3 + ")"
}
