package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/castrhq/castr"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/writer"
)

// BuildFlags contains flags for the build command
type BuildFlags struct {
	Output              string
	TypesOutput         string
	PackageName         string
	StrictObjects       bool
	DefaultResponseMode string
	ComplexityThreshold int
	Quiet               bool
}

// SetupBuildFlags creates and configures a FlagSet for the build command.
// Returns the FlagSet and a BuildFlags struct with bound flag variables.
func SetupBuildFlags() (*flag.FlagSet, *BuildFlags) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := &BuildFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.PackageName, "p", "schemas", "Go package name for generated code")
	fs.StringVar(&flags.PackageName, "package", "schemas", "Go package name for generated code")
	fs.StringVar(&flags.TypesOutput, "types-output", "", "also write Go type declarations to this file (intended for a separate package)")
	fs.BoolVar(&flags.StrictObjects, "strict-objects", false, "close objects that lack an explicit additionalProperties: true")
	fs.StringVar(&flags.DefaultResponseMode, "default-response-mode", "", `how to treat default responses: "spec-compliant" (default) or "auto-correct"`)
	fs.IntVar(&flags.ComplexityThreshold, "complexity-threshold", 0, fmt.Sprintf("inline schema node count above which schemas are hoisted to named components (default %d)", ir.DefaultComplexityThreshold))
	fs.BoolVar(&flags.Quiet, "q", false, "suppress the summary banner")
	fs.BoolVar(&flags.Quiet, "quiet", false, "suppress the summary banner")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: castr build [flags] <file|->\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Generate Go validation schemas from an OpenAPI 3.x document.\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(fs.Output(), "\nExamples:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr build -o schemas.gen.go openapi.yaml\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr build -p petapi --strict-objects openapi.yaml\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr build --types-output types.gen.go -o schemas.gen.go openapi.yaml\n")
		_, _ = fmt.Fprintf(fs.Output(), "  cat openapi.yaml | castr build -q -\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nNotes:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  - Use '-' as the file path to read the document from stdin\n")
		_, _ = fmt.Fprintf(fs.Output(), "  - Type declarations share names with the validator variables, so\n")
		_, _ = fmt.Fprintf(fs.Output(), "    --types-output is meant to land in a different package\n")
	}

	return fs, flags
}

// HandleBuild executes the build command
func HandleBuild(args []string) error {
	fs, flags := SetupBuildFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("build command requires exactly one file path or '-' for stdin")
	}

	specPath := fs.Arg(0)

	startTime := time.Now()
	loaded, build, err := buildIR(specPath, flags.DefaultResponseMode, flags.ComplexityThreshold)
	if err != nil {
		return err
	}

	w, err := writer.New(
		writer.WithPackageName(flags.PackageName),
		writer.WithStrictObjects(flags.StrictObjects),
	)
	if err != nil {
		return err
	}

	src, err := w.WriteDocument(build.Document)
	if err != nil {
		return fmt.Errorf("writing schemas: %w", err)
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		fmt.Printf("castr build\n")
		fmt.Printf("===========\n\n")
		fmt.Printf("castr version: %s\n", castr.Version())
		fmt.Printf("Specification: %s\n", loaded.SourcePath)
		fmt.Printf("OAS Version: %s\n", loaded.Version)
		fmt.Printf("Package: %s\n", flags.PackageName)
		fmt.Printf("Schemas: %d\n", build.SchemaCount)
		fmt.Printf("Operations: %d\n", build.OperationCount)
		fmt.Printf("Total Time: %v\n\n", totalTime)

		if len(build.Issues) > 0 {
			fmt.Printf("Build Issues (%d):\n", len(build.Issues))
			printIssues(build.Issues)
			fmt.Println()
		}
	}

	if flags.Output != "" {
		if err := os.WriteFile(flags.Output, src, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		if !flags.Quiet {
			fmt.Printf("Output written to: %s\n", flags.Output)
		}
	} else {
		if _, err := os.Stdout.Write(src); err != nil {
			return fmt.Errorf("writing generated source to stdout: %w", err)
		}
	}

	if flags.TypesOutput != "" {
		types, err := w.WriteTypesFile(build.Document)
		if err != nil {
			return fmt.Errorf("writing types: %w", err)
		}
		if err := os.WriteFile(flags.TypesOutput, types, 0o644); err != nil {
			return fmt.Errorf("writing types file: %w", err)
		}
		if !flags.Quiet {
			fmt.Printf("Types written to: %s\n", flags.TypesOutput)
		}
	}

	return nil
}
