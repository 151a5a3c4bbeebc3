package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// ErrScanMetadata indicates the database value is not JSON text.
var ErrScanMetadata = errors.New("valueobject: metadata scan value is not json")

// Metadata is a free-form JSON object stored in a JSONB column.
// @swaggertype object
type Metadata map[string]any

// Value implements driver.Valuer. A nil map is stored as {}.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		*m = Metadata(v)
		return nil
	default:
		return ErrScanMetadata
	}

	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// With returns m with key set, allocating when m is nil.
func (m Metadata) With(key string, value any) Metadata {
	if m == nil {
		m = Metadata{}
	}
	m[key] = value
	return m
}

// String returns the string at key or "".
func (m Metadata) String(key string) string {
	v, _ := m[key].(string)
	return v
}

// Int64 returns the integer at key. JSON numbers decoded as float64 or
// json.Number are accepted, as are decimal strings.
func (m Metadata) Int64(key string) (int64, bool) {
	switch v := m[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), v == float64(int64(v))
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Time returns the RFC 3339 timestamp at key.
func (m Metadata) Time(key string) (time.Time, bool) {
	s, ok := m[key].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}
