package metrics

import "github.com/san-kum/dendrite/internal/dendrite"

type SegmentCount struct {
	name string
	mean
}

func NewSegmentCount() *SegmentCount {
	return &SegmentCount{name: "segments"}
}

func (s *SegmentCount) Name() string { return s.name }

func (s *SegmentCount) Observe(f *dendrite.Forest) { s.add(float64(len(f.Segments))) }

func (s *SegmentCount) Value() float64 { return s.value() }

func (s *SegmentCount) Reset() { s.reset() }

type TerminalCount struct {
	name string
	mean
}

func NewTerminalCount() *TerminalCount {
	return &TerminalCount{name: "terminals"}
}

func (t *TerminalCount) Name() string { return t.name }

func (t *TerminalCount) Observe(f *dendrite.Forest) { t.add(float64(len(f.Terminals))) }

func (t *TerminalCount) Value() float64 { return t.value() }

func (t *TerminalCount) Reset() { t.reset() }

// MeanLength averages chord length over every segment of a forest.
type MeanLength struct {
	name string
	mean
}

func NewMeanLength() *MeanLength {
	return &MeanLength{name: "mean_length"}
}

func (m *MeanLength) Name() string { return m.name }

func (m *MeanLength) Observe(f *dendrite.Forest) {
	if len(f.Segments) == 0 {
		return
	}
	total := 0.0
	for _, s := range f.Segments {
		total += s.Length()
	}
	m.add(total / float64(len(f.Segments)))
}

func (m *MeanLength) Value() float64 { return m.value() }

func (m *MeanLength) Reset() { m.reset() }
