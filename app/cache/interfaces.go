package cache

// DateFormat is the calendar-date granularity of cache freshness.
const DateFormat = "2006-01-02"

// Entry is a cached payload stamped with the calendar date it was stored on.
// Freshness is binary: an entry is fresh when its Date equals today's date
// in yyyy-MM-dd form. No TTL enforcement happens at this layer; callers
// compare dates themselves.
type Entry struct {
	Payload []byte
	Date    string
}

type Store interface {
	Get(key string) (*Entry, bool, error)
	Set(key string, payload []byte, date string) error
	KeysWithPrefix(prefix string) ([]string, error)
	Close() error
}
