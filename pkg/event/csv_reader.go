package event

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/opticore/lumentrace/pkg/core"
)

// ReadCSV reverses CSVSink's encoding, reconstructing the Records the
// `count`/`spectrum` CLI subcommands aggregate over. It joins ray.csv and
// event.csv by row position rather than a rowid lookup, since CSVSink
// always writes one ray row immediately followed by its event row.
func ReadCSV(dbDir string) ([]Record, error) {
	rayRows, err := readAllRows(filepath.Join(dbDir, "ray.csv"))
	if err != nil {
		return nil, err
	}
	eventRows, err := readAllRows(filepath.Join(dbDir, "event.csv"))
	if err != nil {
		return nil, err
	}
	if len(rayRows) != len(eventRows) {
		return nil, fmt.Errorf("event: ray.csv has %d rows, event.csv has %d, expected equal", len(rayRows), len(eventRows))
	}

	records := make([]Record, len(rayRows))
	for i := range rayRows {
		ray, err := parseRayRow(rayRows[i])
		if err != nil {
			return nil, fmt.Errorf("event: ray.csv row %d: %w", i+1, err)
		}
		ev, err := parseEventRow(eventRows[i])
		if err != nil {
			return nil, fmt.Errorf("event: event.csv row %d: %w", i+1, err)
		}
		records[i] = Record{Ray: ray, Event: ev}
	}
	return records, nil
}

func readAllRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // drop header
}

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
func parseInt(s string) (int64, error)     { return strconv.ParseInt(s, 10, 64) }

func parseRayRow(row []string) (Ray, error) {
	if len(row) != len(rayColumns) {
		return Ray{}, fmt.Errorf("expected %d columns, got %d", len(rayColumns), len(row))
	}
	rayID, err := parseInt(row[0])
	if err != nil {
		return Ray{}, err
	}
	throwID, err := parseInt(row[1])
	if err != nil {
		return Ray{}, err
	}
	x, err := parseFloat(row[2])
	if err != nil {
		return Ray{}, err
	}
	y, err := parseFloat(row[3])
	if err != nil {
		return Ray{}, err
	}
	z, err := parseFloat(row[4])
	if err != nil {
		return Ray{}, err
	}
	i, err := parseFloat(row[5])
	if err != nil {
		return Ray{}, err
	}
	j, err := parseFloat(row[6])
	if err != nil {
		return Ray{}, err
	}
	k, err := parseFloat(row[7])
	if err != nil {
		return Ray{}, err
	}
	wavelength, err := parseFloat(row[8])
	if err != nil {
		return Ray{}, err
	}
	source := row[9]
	travelled, err := parseFloat(row[10])
	if err != nil {
		return Ray{}, err
	}
	duration, err := parseFloat(row[11])
	if err != nil {
		return Ray{}, err
	}
	return Ray{
		RayID: rayID, ThrowID: throwID,
		Position:  core.NewVec3(x, y, z),
		Direction: core.NewVec3(i, j, k),
		Wavelength: wavelength, Source: source,
		Travelled: travelled, Duration: duration,
	}, nil
}

func parseEventRow(row []string) (Event, error) {
	if len(row) != len(eventColumns) {
		return Event{}, fmt.Errorf("expected %d columns, got %d", len(eventColumns), len(row))
	}
	rayID, err := parseInt(row[0])
	if err != nil {
		return Event{}, err
	}
	ni, err := parseFloat(row[7])
	if err != nil {
		return Event{}, err
	}
	nj, err := parseFloat(row[8])
	if err != nil {
		return Event{}, err
	}
	nk, err := parseFloat(row[9])
	if err != nil {
		return Event{}, err
	}
	return Event{
		RayID: rayID, Kind: Kind(row[1]), Component: row[2], Hit: row[3],
		Container: row[4], Adjacent: row[5], Facet: row[6],
		Normal: core.NewVec3(ni, nj, nk),
	}, nil
}
