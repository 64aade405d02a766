package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/dendrite/internal/dendrite"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrInvalidName = errors.New("storage: invalid run name")
)

const (
	metadataFile  = "metadata.json"
	segmentsFile  = "segments.csv"
	terminalsFile = "terminals.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RootMetadata struct {
	Index   int     `json:"index"`
	Heading float64 `json:"heading"`
	First   int     `json:"first"`
	Count   int     `json:"count"`
}

type RunMetadata struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Timestamp   time.Time      `json:"timestamp"`
	Seed        int64          `json:"seed"`
	Roots       int            `json:"roots"`
	MaxDepth    int            `json:"max_depth"`
	BaseLength  float64        `json:"base_length"`
	Spread      float64        `json:"spread"`
	Jitter      float64        `json:"jitter"`
	MinBranches int            `json:"min_branches"`
	MaxBranches int            `json:"max_branches"`
	Decay       float64        `json:"decay"`
	OriginX     float64        `json:"origin_x"`
	OriginY     float64        `json:"origin_y"`
	Segments    int            `json:"segments"`
	Terminals   int            `json:"terminals"`
	RootSpans   []RootMetadata `json:"root_spans"`
}

// Params rebuilds the generator parameters recorded for the run.
func (m *RunMetadata) Params() dendrite.ForestParams {
	fp := dendrite.DefaultForestParams()
	fp.Roots = m.Roots
	fp.Jitter = m.Jitter
	fp.Origin = dendrite.Point{X: m.OriginX, Y: m.OriginY}
	fp.Tree.MaxDepth = m.MaxDepth
	fp.Tree.BaseLength = m.BaseLength
	fp.Tree.MaxSpread = m.Spread
	fp.Tree.MinBranches = m.MinBranches
	fp.Tree.MaxBranches = m.MaxBranches
	fp.Tree.Decay = m.Decay
	return fp
}

func newMetadata(id, name string, seed int64, f *dendrite.Forest) RunMetadata {
	fp := f.Params
	meta := RunMetadata{
		ID:          id,
		Name:        name,
		Timestamp:   time.Now(),
		Seed:        seed,
		Roots:       fp.Roots,
		MaxDepth:    fp.Tree.MaxDepth,
		BaseLength:  fp.Tree.BaseLength,
		Spread:      fp.Tree.MaxSpread,
		Jitter:      fp.Jitter,
		MinBranches: fp.Tree.MinBranches,
		MaxBranches: fp.Tree.MaxBranches,
		Decay:       fp.Tree.Decay,
		OriginX:     fp.Origin.X,
		OriginY:     fp.Origin.Y,
		Segments:    len(f.Segments),
		Terminals:   len(f.Terminals),
	}
	for _, r := range f.Roots {
		meta.RootSpans = append(meta.RootSpans, RootMetadata{Index: r.Index, Heading: r.Heading, First: r.First, Count: r.Count})
	}
	return meta
}

// validName reports whether name can be used as a single directory
// component.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Save writes the forest under a new run directory and returns its id.
func (s *Store) Save(name string, seed int64, f *dendrite.Forest) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	if err := s.write(runID, name, seed, f); err != nil {
		return "", err
	}
	return runID, nil
}

// write fills the run directory, removing it again if any file fails.
func (s *Store) write(runID, name string, seed int64, f *dendrite.Forest) (err error) {
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := newMetadata(runID, name, seed, f)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(runDir, segmentsFile), segmentRows(f.Segments)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(runDir, terminalsFile), terminalRows(f.Terminals))
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return file.Close()
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func segmentRows(segs []dendrite.Segment) [][]string {
	rows := [][]string{{"x0", "y0", "cx", "cy", "x1", "y1", "color_key", "depth", "parent"}}
	for _, s := range segs {
		rows = append(rows, []string{
			ftoa(s.Start.X), ftoa(s.Start.Y),
			ftoa(s.Control.X), ftoa(s.Control.Y),
			ftoa(s.End.X), ftoa(s.End.Y),
			strconv.Itoa(s.ColorKey), strconv.Itoa(s.Depth), strconv.Itoa(s.Parent),
		})
	}
	return rows
}

func terminalRows(terms []dendrite.Terminal) [][]string {
	rows := [][]string{{"x", "y", "color_key", "depth", "segment"}}
	for _, t := range terms {
		rows = append(rows, []string{
			ftoa(t.At.X), ftoa(t.At.Y),
			strconv.Itoa(t.ColorKey), strconv.Itoa(t.Depth), strconv.Itoa(t.Segment),
		})
	}
	return rows
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadForest rebuilds the forest saved under runID.
func (s *Store) LoadForest(runID string) (*RunMetadata, *dendrite.Forest, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	segRows, err := readCSV(filepath.Join(s.baseDir, runID, segmentsFile))
	if err != nil {
		return nil, nil, err
	}
	termRows, err := readCSV(filepath.Join(s.baseDir, runID, terminalsFile))
	if err != nil {
		return nil, nil, err
	}

	f := &dendrite.Forest{Params: meta.Params()}
	for i, rec := range segRows {
		seg, err := parseSegment(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", segmentsFile, i+1, err)
		}
		f.Segments = append(f.Segments, seg)
	}
	for i, rec := range termRows {
		t, err := parseTerminal(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", terminalsFile, i+1, err)
		}
		f.Terminals = append(f.Terminals, t)
	}
	for _, r := range meta.RootSpans {
		f.Roots = append(f.Roots, dendrite.Root{Index: r.Index, Heading: r.Heading, First: r.First, Count: r.Count})
	}
	return meta, f, nil
}

// readCSV returns the data rows, header dropped.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

type fieldParser struct {
	rec []string
	err error
}

func (p *fieldParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.rec[i], 64)
	p.err = err
	return v
}

func (p *fieldParser) int(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.rec[i])
	p.err = err
	return v
}

func parseSegment(rec []string) (dendrite.Segment, error) {
	if len(rec) != 9 {
		return dendrite.Segment{}, fmt.Errorf("expected 9 fields, got %d", len(rec))
	}
	p := fieldParser{rec: rec}
	s := dendrite.Segment{
		Start:    dendrite.Point{X: p.float(0), Y: p.float(1)},
		Control:  dendrite.Point{X: p.float(2), Y: p.float(3)},
		End:      dendrite.Point{X: p.float(4), Y: p.float(5)},
		ColorKey: p.int(6),
		Depth:    p.int(7),
		Parent:   p.int(8),
	}
	return s, p.err
}

func parseTerminal(rec []string) (dendrite.Terminal, error) {
	if len(rec) != 5 {
		return dendrite.Terminal{}, fmt.Errorf("expected 5 fields, got %d", len(rec))
	}
	p := fieldParser{rec: rec}
	t := dendrite.Terminal{
		At:       dendrite.Point{X: p.float(0), Y: p.float(1)},
		ColorKey: p.int(2),
		Depth:    p.int(3),
		Segment:  p.int(4),
	}
	return t, p.err
}

// ExportData is the self-contained JSON form of a run.
type ExportData struct {
	Metadata  RunMetadata         `json:"metadata"`
	Segments  []dendrite.Segment  `json:"segments"`
	Terminals []dendrite.Terminal `json:"terminals"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, f *dendrite.Forest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Metadata: *meta, Segments: f.Segments, Terminals: f.Terminals})
}
