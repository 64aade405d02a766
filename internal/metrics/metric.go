package metrics

import "github.com/san-kum/dendrite/internal/dendrite"

// Metric summarizes a series of forests. Value is the mean over every
// forest observed since the last Reset.
type Metric interface {
	Name() string
	Observe(f *dendrite.Forest)
	Value() float64
	Reset()
}

// Default returns a fresh set of the standard metrics. extent bounds the
// containment check.
func Default(extent float64) []Metric {
	return []Metric{
		NewSegmentCount(),
		NewTerminalCount(),
		NewMeanLength(),
		NewReach(),
		NewContainment(extent),
	}
}

// mean accumulates one sample per observed forest.
type mean struct {
	sum     float64
	samples int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.samples++
}

func (m *mean) value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) reset() {
	m.sum = 0
	m.samples = 0
}
