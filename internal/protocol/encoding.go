package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Beacon/internal/core"
)

// Encode marshals an outbound event into a transport frame.
func Encode(v any) (core.Frame, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return core.Frame(data), nil
}
