package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/castrhq/castr"
	"github.com/castrhq/castr/parser"
	"github.com/castrhq/castr/sourceparser"
	"github.com/castrhq/castr/writer"
)

// ReverseFlags contains flags for the reverse command
type ReverseFlags struct {
	Output         string
	OpenAPIVersion string
	Title          string
	APIVersion     string
	Quiet          bool
}

// SetupReverseFlags creates and configures a FlagSet for the reverse command.
// Returns the FlagSet and a ReverseFlags struct with bound flag variables.
func SetupReverseFlags() (*flag.FlagSet, *ReverseFlags) {
	fs := flag.NewFlagSet("reverse", flag.ContinueOnError)
	flags := &ReverseFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.OpenAPIVersion, "openapi-version", "3.1.0", "OpenAPI version for the regenerated document")
	fs.StringVar(&flags.Title, "title", "Recovered API", "info.title for the regenerated document")
	fs.StringVar(&flags.APIVersion, "api-version", "0.0.0", "info.version for the regenerated document")
	fs.BoolVar(&flags.Quiet, "q", false, "suppress the summary banner")
	fs.BoolVar(&flags.Quiet, "quiet", false, "suppress the summary banner")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: castr reverse [flags] <file|->\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Parse generated Go validation source and regenerate an OpenAPI document.\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(fs.Output(), "\nExamples:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr reverse -o regenerated.yaml schemas.gen.go\n")
		_, _ = fmt.Fprintf(fs.Output(), "  castr reverse --openapi-version 3.0.3 schemas.gen.go\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nNotes:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  - The generated source does not carry document info, so title and\n")
		_, _ = fmt.Fprintf(fs.Output(), "    version are supplied by flags\n")
		_, _ = fmt.Fprintf(fs.Output(), "  - Declarations that cannot be parsed are reported and skipped\n")
	}

	return fs, flags
}

// HandleReverse executes the reverse command
func HandleReverse(args []string) error {
	fs, flags := SetupReverseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("reverse command requires exactly one file path or '-' for stdin")
	}

	srcPath := fs.Arg(0)
	var src []byte
	var err error
	filename := srcPath
	if srcPath == StdinFilePath {
		src, err = io.ReadAll(os.Stdin)
		filename = "stdin.go"
	} else {
		src, err = os.ReadFile(srcPath)
	}
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	result, err := sourceparser.Parse(src, filename)
	if err != nil {
		return fmt.Errorf("parsing source: %w", err)
	}

	if !flags.Quiet {
		fmt.Printf("castr reverse\n")
		fmt.Printf("=============\n\n")
		fmt.Printf("castr version: %s\n", castr.Version())
		fmt.Printf("Source: %s\n", srcPath)
		fmt.Printf("Components: %d\n\n", len(result.Document.Components))

		if len(result.Errors) > 0 {
			fmt.Printf("Parse Errors (%d):\n", len(result.Errors))
			for _, parseErr := range result.Errors {
				fmt.Printf("  %s\n", parseErr.Error())
			}
			fmt.Println()
		}
		if len(result.Recommendations) > 0 {
			fmt.Printf("Recommendations:\n")
			for _, rec := range result.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
			fmt.Println()
		}
	}

	if len(result.Document.Components) == 0 {
		return fmt.Errorf("no validation schema declarations recovered from %s", srcPath)
	}

	doc := result.Document
	doc.OpenAPIVersion = flags.OpenAPIVersion
	doc.Info = &parser.Info{Title: flags.Title, Version: flags.APIVersion}

	w, err := writer.New()
	if err != nil {
		return err
	}
	data, err := w.WriteOpenAPI(doc)
	if err != nil {
		return fmt.Errorf("regenerating document: %w", err)
	}

	if flags.Output != "" {
		if err := os.WriteFile(flags.Output, data, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		if !flags.Quiet {
			fmt.Printf("Output written to: %s\n", flags.Output)
		}
	} else {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing regenerated document to stdout: %w", err)
		}
	}

	return nil
}
