package risk

import (
	"encoding/json"
	"fmt"
)

// Level is the discrete severity bucket derived from a risk score.
type Level int

const (
	LevelVeryLow Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

// Levels lists every level in ascending severity.
var Levels = [...]Level{LevelVeryLow, LevelLow, LevelMedium, LevelHigh, LevelCritical}

func (l Level) String() string {
	switch l {
	case LevelVeryLow:
		return "VERY_LOW"
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Rank orders levels from VERY_LOW (0) to CRITICAL (4).
func (l Level) Rank() int {
	return int(l)
}

// IsValid reports whether l is one of the five defined levels.
func (l Level) IsValid() bool {
	return l >= LevelVeryLow && l <= LevelCritical
}

// ParseLevel converts the wire name of a level back into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid risk level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
