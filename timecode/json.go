package timecode

import (
	"encoding/json"
	"fmt"
)

// Time persists as its microsecond count, keeping documents integral and
// diff-friendly.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.us)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var us int64
	if err := json.Unmarshal(data, &us); err != nil {
		return err
	}
	if us < 0 {
		return fmt.Errorf("%w: %d microseconds", ErrInvalidTime, us)
	}
	t.us = us
	return nil
}
