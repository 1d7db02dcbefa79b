package monitor

import "fmt"

// Kind classifies a per-pool warning.
type Kind int

const (
	EmptyField Kind = iota + 1
	InvalidNumber
	TooHot
	TooCold
)

func (k Kind) String() string {
	switch k {
	case EmptyField:
		return "empty_field"
	case InvalidNumber:
		return "invalid_number"
	case TooHot:
		return "too_hot"
	case TooCold:
		return "too_cold"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning is raised for one pool during a submission. Input carries the raw
// text for InvalidNumber; Temperature is set for TooHot and TooCold.
type Warning struct {
	Kind        Kind    `json:"kind"`
	Pool        string  `json:"pool"`
	Input       string  `json:"input,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Title groups warnings for display.
func (w Warning) Title() string {
	switch w.Kind {
	case TooHot, TooCold:
		return "Temperature Alert"
	default:
		return "Entry Alert"
	}
}

func (w Warning) Message() string {
	switch w.Kind {
	case EmptyField:
		return fmt.Sprintf("Skipping %s due to empty field.", w.Pool)
	case InvalidNumber:
		return fmt.Sprintf("Invalid input for %s: %s is not a valid number.", w.Pool, w.Input)
	case TooHot:
		return fmt.Sprintf("The %s is too warm, take measures to cool it down.", w.Pool)
	case TooCold:
		return fmt.Sprintf("The %s is too cold, take measures to warm it up.", w.Pool)
	default:
		return fmt.Sprintf("Unknown warning for %s.", w.Pool)
	}
}

func (w Warning) String() string {
	return w.Title() + ": " + w.Message()
}
