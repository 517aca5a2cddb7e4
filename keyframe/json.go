package keyframe

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

type trackJSON struct {
	ID    uuid.UUID  `json:"id"`
	Param string     `json:"param"`
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Keys  []Keyframe `json:"keys,omitempty"`
}

func (t *Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackJSON{ID: t.ID, Param: t.Param, Min: t.Min, Max: t.Max, Keys: t.keys})
}

// UnmarshalJSON re-sorts keyframes so a hand-edited document cannot break
// the time-order invariant.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sort.SliceStable(raw.Keys, func(i, j int) bool {
		return raw.Keys[i].At.Before(raw.Keys[j].At)
	})
	t.ID = raw.ID
	t.Param = raw.Param
	t.Min = raw.Min
	t.Max = raw.Max
	t.keys = raw.Keys
	return nil
}
