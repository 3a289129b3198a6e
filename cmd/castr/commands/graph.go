package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"sort"

	"github.com/castrhq/castr"
)

// GraphFlags contains flags for the graph command
type GraphFlags struct {
	JSON bool
}

// SetupGraphFlags creates and configures a FlagSet for the graph command.
// Returns the FlagSet and a GraphFlags struct with bound flag variables.
func SetupGraphFlags() (*flag.FlagSet, *GraphFlags) {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	flags := &GraphFlags{}

	fs.BoolVar(&flags.JSON, "json", false, "output the graph as JSON")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: castr graph [flags] <file|->\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Report the schema dependency graph of an OpenAPI 3.x document.\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(fs.Output(), "\nExamples:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr graph openapi.yaml\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr graph --json openapi.yaml\n")
	}

	return fs, flags
}

// graphReport is the JSON shape of the graph command output.
type graphReport struct {
	Order  []string            `json:"order"`
	Direct map[string][]string `json:"direct"`
	Deep   map[string][]string `json:"deep"`
	Cycles []string            `json:"cycles,omitempty"`
}

// HandleGraph executes the graph command
func HandleGraph(args []string) error {
	fs, flags := SetupGraphFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("graph command requires exactly one file path or '-' for stdin")
	}

	loaded, build, err := buildIR(fs.Arg(0), "", 0)
	if err != nil {
		return err
	}

	doc := build.Document
	report := graphReport{
		Direct: map[string][]string{},
		Deep:   map[string][]string{},
	}
	if doc.DependencyGraph != nil {
		report.Order = doc.DependencyGraph.Order
		report.Direct = doc.DependencyGraph.Direct
		report.Deep = doc.DependencyGraph.Deep
	}
	for _, c := range doc.SchemaComponents() {
		if c.Schema.Metadata.IsCircular() {
			report.Cycles = append(report.Cycles, c.Name)
		}
	}
	sort.Strings(report.Cycles)

	if flags.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling graph: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("castr graph\n")
	fmt.Printf("===========\n\n")
	fmt.Printf("castr version: %s\n", castr.Version())
	fmt.Printf("Specification: %s\n", loaded.SourcePath)
	fmt.Printf("OAS Version: %s\n", loaded.Version)
	fmt.Printf("Schemas: %d\n\n", build.SchemaCount)

	if len(report.Order) > 0 {
		fmt.Printf("Topological Order:\n")
		for i, name := range report.Order {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
		fmt.Println()
	}

	fmt.Printf("Direct Dependencies:\n")
	for _, name := range report.Order {
		deps := report.Direct[name]
		if len(deps) == 0 {
			fmt.Printf("  %s (none)\n", name)
			continue
		}
		fmt.Printf("  %s -> %v\n", name, deps)
	}
	fmt.Println()

	if len(report.Cycles) > 0 {
		fmt.Printf("Cycles (%d):\n", len(report.Cycles))
		for _, name := range report.Cycles {
			fmt.Printf("  - %s\n", name)
		}
	} else {
		fmt.Printf("No cycles detected\n")
	}

	return nil
}
