package goal

import (
	"encoding/json"
	"time"
)

// Timestamp is a UTC instant persisted as RFC 3339 with nanoseconds. The
// zero value encodes as "".
type Timestamp struct {
	time.Time
}

// At returns a Timestamp for t, normalised to UTC.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	*t = At(parsed)
	return nil
}
