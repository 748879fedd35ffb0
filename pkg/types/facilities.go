package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// HostelKey is the one facilities entry that carries a string value (the
// tri-state hostel choice) instead of a boolean flag.
const HostelKey = "hostel"

// Facilities is the per-institution amenities map persisted as JSONB. Checked
// facilities are stored as true; unchecked facilities are absent from the map
// rather than stored as false.
type Facilities map[string]any

// Value marshals the map into JSON for Postgres.
func (f Facilities) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (f *Facilities) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("facilities: unsupported scan type %T", value)
	}

	result := make(Facilities)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*f = result
	return nil
}

// Has reports whether the boolean flag for key is present and true.
func (f Facilities) Has(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Hostel returns the tri-state hostel value when one is set.
func (f Facilities) Hostel() (string, bool) {
	v, ok := f[HostelKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
