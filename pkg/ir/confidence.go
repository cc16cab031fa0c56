package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Confidence grades how complete the analysis context was when a result
// was produced. The zero value is ConfidenceLow so an unset field never
// overstates certainty.
type Confidence int

const (
	// ConfidenceLow marks heuristic, pattern-based detections.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium marks structural detections made with incomplete
	// cross-file context.
	ConfidenceMedium
	// ConfidenceHigh marks detections made with the full dependency
	// closure of the analyzed document available.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "LOW"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceHigh:
		return "HIGH"
	}
	return fmt.Sprintf("Confidence(%d)", int(c))
}

// ParseConfidence converts the wire form ("LOW", "MEDIUM", "HIGH"). Unknown
// strings parse as LOW.
func ParseConfidence(s string) Confidence {
	switch strings.ToUpper(s) {
	case "HIGH":
		return ConfidenceHigh
	case "MEDIUM":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Cap returns the lower of c and ceiling.
func (c Confidence) Cap(ceiling Confidence) Confidence {
	if c > ceiling {
		return ceiling
	}
	return c
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseConfidence(s)
	return nil
}
