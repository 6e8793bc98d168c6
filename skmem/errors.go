package skmem

// Process exit statuses for the fatal resource conditions. They are distinct
// so an embedding script can tell which ceiling was hit.
const (
	StatusOutOfNodes    = 2
	StatusStackOverflow = 3
)

// Fatal is an unrecoverable resource-exhaustion condition. The machine runs
// on fixed, pre-allocated memory: when the arena or the reduction stack is
// full there is no eviction or backoff policy, the computation cannot
// continue. Fatal is delivered by panic; the command binary maps it to
// Status at the process boundary, and tests recover it.
type Fatal struct {
	Status int
	Msg    string
}

func (e *Fatal) Error() string { return e.Msg }
