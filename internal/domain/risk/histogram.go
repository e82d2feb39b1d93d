package risk

// LevelBucket holds the open/closed/total counts for one severity level.
// Risks whose status is neither OPEN nor CLOSED only add to TotalCount.
type LevelBucket struct {
	Level       Level `json:"level"`
	OpenCount   int   `json:"open_count"`
	ClosedCount int   `json:"closed_count"`
	TotalCount  int   `json:"total_count"`
}

// Histogram buckets risks by severity level.
type Histogram struct {
	buckets [len(Levels)]LevelBucket
}

// BuildHistogram counts risks per level. All five levels are always present.
func BuildHistogram(risks []Risk) (*Histogram, error) {
	h := &Histogram{}
	for i, l := range Levels {
		h.buckets[i].Level = l
	}

	for _, r := range risks {
		level, err := r.Level()
		if err != nil {
			return nil, err
		}
		b := &h.buckets[level.Rank()]
		b.TotalCount++
		switch r.Status {
		case StatusOpen:
			b.OpenCount++
		case StatusClosed:
			b.ClosedCount++
		}
	}

	return h, nil
}

// Bucket returns the bucket for level; unknown levels yield a zero bucket.
func (h *Histogram) Bucket(level Level) LevelBucket {
	if !level.IsValid() {
		return LevelBucket{Level: level}
	}
	return h.buckets[level.Rank()]
}

// Buckets returns the five buckets from VERY_LOW to CRITICAL.
func (h *Histogram) Buckets() []LevelBucket {
	out := make([]LevelBucket, len(h.buckets))
	copy(out, h.buckets[:])
	return out
}

func (h *Histogram) TotalRisks() int {
	n := 0
	for _, b := range h.buckets {
		n += b.TotalCount
	}
	return n
}

func (h *Histogram) OpenRisks() int {
	n := 0
	for _, b := range h.buckets {
		n += b.OpenCount
	}
	return n
}

func (h *Histogram) ClosedRisks() int {
	n := 0
	for _, b := range h.buckets {
		n += b.ClosedCount
	}
	return n
}
