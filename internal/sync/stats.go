package sync

// Stats are the counters for one folder sync. Callers aggregate them
// across folders and jobs with Add; any non-zero Errors anywhere makes
// the overall run failing.
type Stats struct {
	Downloaded int `json:"downloaded"`
	Deleted    int `json:"deleted"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Downloaded += other.Downloaded
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

// OK reports whether the run completed without errors.
func (s Stats) OK() bool {
	return s.Errors == 0
}
