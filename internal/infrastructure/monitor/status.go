package monitor

import "time"

// Status is one observation of the backing services. BufferSize counts
// mutations waiting for replay.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Online reports whether both primary stores are reachable. The offline
// buffer does not count; it exists for when this is false.
func (s Status) Online() bool {
	return s.PostgreSQL && s.Redis
}
