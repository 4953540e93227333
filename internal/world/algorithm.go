package world

import "fmt"

// Algorithm identifies the procedure that produced a level.
type Algorithm int

const (
	// AlgorithmRooms places random non-overlapping rooms and joins them in order.
	AlgorithmRooms Algorithm = iota
	// AlgorithmBSP recursively partitions the board and puts one room per leaf.
	AlgorithmBSP
)

// String returns the algorithm's command-line name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmRooms:
		return "rooms"
	case AlgorithmBSP:
		return "bsp"
	default:
		return "unknown"
	}
}

// ParseAlgorithm converts a name such as "rooms" or "bsp" into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "rooms":
		return AlgorithmRooms, nil
	case "bsp":
		return AlgorithmBSP, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q (want rooms or bsp)", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a != AlgorithmRooms && a != AlgorithmBSP {
		return nil, fmt.Errorf("unknown algorithm %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
