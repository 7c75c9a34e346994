package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/opticore/lumentrace/pkg/event"
)

// normalFilter restricts a count/spectrum query to events whose hit
// normal matches a requested component value, the --nx/--ny/--nz options
// 6's count subcommand names.
type normalFilter struct {
	useX, useY, useZ bool
	x, y, z          float64
	tolerance        float64
}

func (f normalFilter) matches(n [3]float64) bool {
	if f.useX && math.Abs(n[0]-f.x) > f.tolerance {
		return false
	}
	if f.useY && math.Abs(n[1]-f.y) > f.tolerance {
		return false
	}
	if f.useZ && math.Abs(n[2]-f.z) > f.tolerance {
		return false
	}
	return true
}

// bySource maps every Ray row's ThrowID to its Source, since only the
// GENERATE row of a throw's history carries the source name; later rows
// of the same throw need it to honour --source.
func bySource(records []event.Record) map[int64]string {
	m := make(map[int64]string)
	for _, r := range records {
		if r.Event.Kind == event.Generate {
			m[r.Ray.ThrowID] = r.Ray.Source
		}
	}
	return m
}

// countStream aggregates events by kind and constraint, matching 6's
// `count {reflected|entering|escaping|killed|lost} <node> <db>` shape.
func countStream(records []event.Record, stream, node, source string, filter normalFilter) (int, error) {
	sources := bySource(records)
	count := 0
	for _, r := range records {
		if source != "" && sources[r.Ray.ThrowID] != source {
			continue
		}
		normal := [3]float64{r.Event.Normal.X, r.Event.Normal.Y, r.Event.Normal.Z}

		var match bool
		switch stream {
		case "reflected":
			match = r.Event.Kind == event.Reflect && r.Event.Hit == node
		case "entering":
			match = r.Event.Kind == event.Transmit && r.Event.Adjacent == node
		case "escaping":
			match = r.Event.Kind == event.Exit && r.Event.Container == node
		case "killed":
			match = r.Event.Kind == event.Kill && r.Event.Container == node
		case "lost":
			match = r.Event.Kind == event.ErrorKind && r.Event.Container == node
		default:
			return 0, fmt.Errorf("unknown count stream %q (want reflected|entering|escaping|killed|lost)", stream)
		}
		if match && filter.matches(normal) {
			count++
		}
	}
	return count, nil
}

type histogramBin struct {
	lo, hi float64
	count  int
}

// spectrumHistogram buckets the wavelength of every Ray row whose event
// matches the requested stream at node, matching 6's
// `spectrum <stream> <node> <db>` shape. "emitted" counts EMIT/SCATTER
// volume events (re-emission from a component inside node); "entering"
// and "escaping" reuse the same event predicates as countStream.
func spectrumHistogram(records []event.Record, stream, node, source string, binWidth float64) ([]histogramBin, error) {
	if binWidth <= 0 {
		return nil, fmt.Errorf("bin width must be positive")
	}
	sources := bySource(records)

	var wavelengths []float64
	for _, r := range records {
		if source != "" && sources[r.Ray.ThrowID] != source {
			continue
		}
		var match bool
		switch stream {
		case "entering":
			match = r.Event.Kind == event.Transmit && r.Event.Adjacent == node
		case "escaping":
			match = r.Event.Kind == event.Exit && r.Event.Container == node
		case "emitted":
			match = (r.Event.Kind == event.Emit || r.Event.Kind == event.Scatter) && r.Event.Container == node
		default:
			return nil, fmt.Errorf("unknown spectrum stream %q (want entering|escaping|emitted)", stream)
		}
		if match {
			wavelengths = append(wavelengths, r.Ray.Wavelength)
		}
	}
	if len(wavelengths) == 0 {
		return nil, nil
	}

	minLambda, maxLambda := wavelengths[0], wavelengths[0]
	for _, w := range wavelengths {
		if w < minLambda {
			minLambda = w
		}
		if w > maxLambda {
			maxLambda = w
		}
	}
	numBins := int((maxLambda-minLambda)/binWidth) + 1
	bins := make([]histogramBin, numBins)
	for i := range bins {
		bins[i].lo = minLambda + float64(i)*binWidth
		bins[i].hi = bins[i].lo + binWidth
	}
	for _, w := range wavelengths {
		idx := int((w - minLambda) / binWidth)
		if idx >= numBins {
			idx = numBins - 1
		}
		bins[idx].count++
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].lo < bins[j].lo })
	return bins, nil
}
