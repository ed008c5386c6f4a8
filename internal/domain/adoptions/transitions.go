package adoptions

import "fmt"

// CanTransition: grafo completo entre los tres estados, sin self loops.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusInProcess:
		return to == StatusApproved || to == StatusDenied
	case StatusApproved:
		return to == StatusInProcess || to == StatusDenied
	case StatusDenied:
		return to == StatusInProcess || to == StatusApproved
	default:
		return false
	}
}

// Targets devuelve los estados alcanzables desde from (para los botones del dashboard).
func Targets(from Status) []Status {
	out := make([]Status, 0, len(AllStatuses)-1)
	for _, s := range AllStatuses {
		if CanTransition(from, s) {
			out = append(out, s)
		}
	}
	return out
}

func checkTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidInput, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
