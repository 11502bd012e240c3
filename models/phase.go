package models

// Phase is the page's top-level lifecycle state.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseReady   Phase = "ready"
)

// Terminal reports whether no further transition can happen from p.
func (p Phase) Terminal() bool {
	return p == PhaseError || p == PhaseReady
}
