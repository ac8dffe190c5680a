package domain

// Mode identifies which synchronization pass produced an observation.
type Mode string

const (
	ModeAdd     Mode = "add"
	ModeRefresh Mode = "refresh"
	ModeSeed    Mode = "seed"
)

// Observation is a single resolution event kept as history.
// Corresponds to ens_observations table in ClickHouse.
type Observation struct {
	RunID      string // uuid of the run that produced it
	Mode       Mode
	Name       string
	Available  bool
	Expiry     int64 // ms
	Price      float64
	Status     Status
	Label      string
	ObservedAt int64 // ms
}

// NewObservation captures a resolved record as an observation.
func NewObservation(runID string, mode Mode, r *Record, observedAt int64) *Observation {
	return &Observation{
		RunID:      runID,
		Mode:       mode,
		Name:       r.Name,
		Available:  r.Available,
		Expiry:     r.Expiry,
		Price:      r.Price,
		Status:     r.Status,
		Label:      r.Label,
		ObservedAt: observedAt,
	}
}
