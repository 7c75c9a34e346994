package event

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/opticore/lumentrace/pkg/core"
)

// CSVSink is the persistent implementation of Sink the CLI uses for
// `simulate`'s "writes event log" output. The corpus carries no
// relational-database driver anywhere (df07-go-progressive-raytracer and
// lukaszgryglicki-photons4d are both dependency-free; df07-scene-llm's
// third-party stack is LLM clients, unrelated to storage) and a real
// example never reaches for one, so this concern is implemented with the
// standard library's encoding/csv rather than fabricating a SQL
// dependency the pack never demonstrates: two CSV files under dbDir,
// ray.csv and event.csv, mirror 6's `ray(...)`/`event(...)` two-table
// schema and a `ray_id`/`rowid` join column.
type CSVSink struct {
	mu          sync.Mutex
	rayFile     *os.File
	eventFile   *os.File
	rayWriter   *csv.Writer
	eventWriter *csv.Writer
	nextID      int64
}

var rayColumns = []string{"rowid", "throw_id", "x", "y", "z", "i", "j", "k", "wavelength", "source", "travelled", "duration"}
var eventColumns = []string{"ray_id", "kind", "component", "hit", "container", "adjacent", "facet", "ni", "nj", "nk"}

// NewCSVSink creates dbDir (if absent) and opens ray.csv/event.csv within
// it for writing, emitting the header row for each.
func NewCSVSink(dbDir string) (*CSVSink, error) {
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("event: create db directory: %w", err)
	}
	rayFile, err := os.Create(filepath.Join(dbDir, "ray.csv"))
	if err != nil {
		return nil, fmt.Errorf("event: create ray.csv: %w", err)
	}
	eventFile, err := os.Create(filepath.Join(dbDir, "event.csv"))
	if err != nil {
		rayFile.Close()
		return nil, fmt.Errorf("event: create event.csv: %w", err)
	}

	s := &CSVSink{
		rayFile:     rayFile,
		eventFile:   eventFile,
		rayWriter:   csv.NewWriter(rayFile),
		eventWriter: csv.NewWriter(eventFile),
	}
	if err := s.rayWriter.Write(rayColumns); err != nil {
		return nil, err
	}
	if err := s.eventWriter.Write(eventColumns); err != nil {
		return nil, err
	}
	return s, nil
}

// Emit writes one Record as a row in each table, assigning RayID if the
// caller left it zero, the same convention MemorySink uses.
func (s *CSVSink) Emit(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rayID := record.Ray.RayID
	if rayID == 0 {
		rayID = s.nextID
	}

	r := record.Ray
	if err := s.rayWriter.Write([]string{
		formatInt(rayID), formatInt(r.ThrowID),
		formatFloat(r.Position.X), formatFloat(r.Position.Y), formatFloat(r.Position.Z),
		formatFloat(r.Direction.X), formatFloat(r.Direction.Y), formatFloat(r.Direction.Z),
		formatFloat(r.Wavelength), r.Source, formatFloat(r.Travelled), formatFloat(r.Duration),
	}); err != nil {
		return fmt.Errorf("event: write ray row: %w", err)
	}

	e := record.Event
	if err := s.eventWriter.Write([]string{
		formatInt(rayID), string(e.Kind), e.Component, e.Hit, e.Container, e.Adjacent, e.Facet,
		formatFloat(e.Normal.X), formatFloat(e.Normal.Y), formatFloat(e.Normal.Z),
	}); err != nil {
		return fmt.Errorf("event: write event row: %w", err)
	}
	return nil
}

// Close flushes and closes both files. The caller must call Close after
// a batch completes; the engine never does so itself, per 9's "the
// engine does not own the sink". csv.Writer buffers through a
// bufio.Writer, so an I/O failure (disk full, for instance) surfaces
// only once Flush runs, not at the Write call that triggered it — Flush
// itself returns nothing, so Error must be checked afterward or the
// failure is silently dropped, leaving a truncated event log that looks
// complete to the caller.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rayWriter.Flush()
	if err := s.rayWriter.Error(); err != nil {
		s.rayFile.Close()
		s.eventFile.Close()
		return core.NewSinkError(fmt.Errorf("flush ray.csv: %w", err))
	}
	s.eventWriter.Flush()
	if err := s.eventWriter.Error(); err != nil {
		s.rayFile.Close()
		s.eventFile.Close()
		return core.NewSinkError(fmt.Errorf("flush event.csv: %w", err))
	}

	if err := s.rayFile.Close(); err != nil {
		s.eventFile.Close()
		return core.NewSinkError(fmt.Errorf("close ray.csv: %w", err))
	}
	if err := s.eventFile.Close(); err != nil {
		return core.NewSinkError(fmt.Errorf("close event.csv: %w", err))
	}
	return nil
}

func formatInt(v int64) string     { return strconv.FormatInt(v, 10) }
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
