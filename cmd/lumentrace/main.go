// Command lumentrace is the thin CLI collaborator 6 describes: it decodes
// a scene document, runs a batch through pkg/batch, and offers two
// read-side subcommands over the resulting event log. Grounded on the
// teacher's main.go almost directly — flag.String/flag.Bool/-help, a
// switch on the requested mode, fmt.Println progress lines — with the
// PNG-writing tail end replaced by an event-log write and the raytracer
// scene switch replaced by a JSON document load.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/opticore/lumentrace/pkg/batch"
	"github.com/opticore/lumentrace/pkg/event"
	"github.com/opticore/lumentrace/pkg/scenebuild"
	"github.com/opticore/lumentrace/pkg/scenegraph"
)

const (
	exitSuccess       = 0
	exitConfigError   = 1
	exitRuntimeError  = 2
	exitPartialResult = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitConfigError
	}

	switch args[0] {
	case "simulate":
		return runSimulate(args[1:])
	case "count":
		return runCount(args[1:])
	case "spectrum":
		return runSpectrum(args[1:])
	case "-help", "--help", "help":
		printUsage()
		return exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "lumentrace: unknown subcommand %q\n", args[0])
		printUsage()
		return exitConfigError
	}
}

func printUsage() {
	fmt.Println("lumentrace: statistical photon path tracer for luminescent solar concentrators")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lumentrace simulate [--source name] [--killed-threshold f] <scene.json> <n-rays> <seed> <workers> <db-dir>")
	fmt.Println("  lumentrace count [--source name] [--nx|--ny|--nz value] [--tolerance f] {reflected|entering|escaping|killed|lost} <node> <db-dir>")
	fmt.Println("  lumentrace spectrum [--source name] [--bin-width f] {entering|escaping|emitted} <node> <db-dir>")
	fmt.Println()
	fmt.Println("Flags must come before the positional arguments.")
}

func runSimulate(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	killedThreshold := fs.Float64("killed-threshold", 0.05, "abort with exit code 3 if the killed fraction exceeds this")
	sourceName := fs.String("source", "", "name of the light-source node to fire from (may be omitted when the scene has exactly one)")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}
	rest := fs.Args()
	if len(rest) != 5 {
		fmt.Fprintln(os.Stderr, "lumentrace: simulate requires <scene.json> <n-rays> <seed> <workers> <db-dir>")
		return exitConfigError
	}
	scenePath, nStr, seedStr, workersStr, dbDir := rest[0], rest[1], rest[2], rest[3], rest[4]

	n, err := parseIntArg(nStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: n-rays: %v\n", err)
		return exitConfigError
	}
	seed, err := parseIntArg(seedStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: seed: %v\n", err)
		return exitConfigError
	}
	workers, err := parseIntArg(workersStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: workers: %v\n", err)
		return exitConfigError
	}

	doc, err := loadDocument(scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitConfigError
	}

	scene, err := scenebuild.Build(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitConfigError
	}

	source, err := resolveSourceNode(scene, *sourceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitConfigError
	}

	sink, err := event.NewCSVSink(dbDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitRuntimeError
	}
	defer sink.Close()

	fmt.Printf("Simulating %d rays (seed %d, %d workers)...\n", n, seed, workers)
	summary, err := batch.Simulate(context.Background(), scene, source, int(n), seed, int(workers), sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitRuntimeError
	}

	fmt.Printf("Traced %d/%d rays. Terminal events:\n", summary.Traced, summary.Requested)
	for kind, count := range summary.TerminalCount {
		fmt.Printf("  %-10s %d\n", kind, count)
	}
	if len(summary.Errors) > 0 {
		fmt.Printf("%d rays ended in a per-ray error (see event log for ERROR rows)\n", len(summary.Errors))
	}

	if summary.KilledFraction() > *killedThreshold {
		fmt.Fprintf(os.Stderr, "lumentrace: killed fraction %.3f exceeds threshold %.3f\n", summary.KilledFraction(), *killedThreshold)
		return exitPartialResult
	}
	return exitSuccess
}

func runCount(args []string) int {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	source := fs.String("source", "", "only count rays emitted from this source node")
	nx := fs.Float64("nx", 0, "filter events whose hit normal's x component matches this value")
	ny := fs.Float64("ny", 0, "filter events whose hit normal's y component matches this value")
	nz := fs.Float64("nz", 0, "filter events whose hit normal's z component matches this value")
	tolerance := fs.Float64("tolerance", 1e-3, "tolerance for the --nx/--ny/--nz normal-component filters")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}
	rest := fs.Args()
	if len(rest) != 3 {
		fmt.Fprintln(os.Stderr, "lumentrace: count requires {reflected|entering|escaping|killed|lost} <node> <db-dir>")
		return exitConfigError
	}
	stream, node, dbDir := rest[0], rest[1], rest[2]

	records, err := event.ReadCSV(dbDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitRuntimeError
	}

	filter := normalFilter{tolerance: *tolerance}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nx":
			filter.useX, filter.x = true, *nx
		case "ny":
			filter.useY, filter.y = true, *ny
		case "nz":
			filter.useZ, filter.z = true, *nz
		}
	})
	count, err := countStream(records, stream, node, *source, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitConfigError
	}
	fmt.Println(count)
	return exitSuccess
}

func runSpectrum(args []string) int {
	fs := flag.NewFlagSet("spectrum", flag.ContinueOnError)
	source := fs.String("source", "", "only histogram rays emitted from this source node")
	binWidth := fs.Float64("bin-width", 10, "wavelength histogram bin width in nanometres")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}
	rest := fs.Args()
	if len(rest) != 3 {
		fmt.Fprintln(os.Stderr, "lumentrace: spectrum requires {entering|escaping|emitted} <node> <db-dir>")
		return exitConfigError
	}
	stream, node, dbDir := rest[0], rest[1], rest[2]

	records, err := event.ReadCSV(dbDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitRuntimeError
	}

	histogram, err := spectrumHistogram(records, stream, node, *source, *binWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		return exitConfigError
	}
	for _, bin := range histogram {
		fmt.Printf("%.1f-%.1fnm: %d\n", bin.lo, bin.hi, bin.count)
	}
	return exitSuccess
}

func resolveSourceNode(scene *scenegraph.Scene, name string) (scenegraph.NodeIndex, error) {
	var found scenegraph.NodeIndex = -1
	var count int
	scene.Walk(func(idx scenegraph.NodeIndex, node *scenegraph.Node) {
		if node.Light == nil {
			return
		}
		count++
		if name == "" || node.Name == name {
			found = idx
		}
	})
	if name == "" && count > 1 {
		return 0, fmt.Errorf("scene has %d light-source nodes; choose one with --source", count)
	}
	if found >= 0 {
		return found, nil
	}
	if count == 0 {
		return 0, fmt.Errorf("scene has no light-source node")
	}
	return 0, fmt.Errorf("no light-source node named %q (use --source)", name)
}

func loadDocument(path string) (*scenebuild.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	var doc scenebuild.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene file: %w", err)
	}
	return &doc, nil
}

func parseIntArg(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}
