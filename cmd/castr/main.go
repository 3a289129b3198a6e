package main

import (
	"fmt"
	"os"

	"github.com/castrhq/castr"
	"github.com/castrhq/castr/cmd/castr/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("castr v%s\n", castr.Version())
	case "help", "-h", "--help":
		printUsage()
	case "build":
		if err := commands.HandleBuild(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "graph":
		if err := commands.HandleGraph(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "reverse":
		if err := commands.HandleReverse(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	known := []string{"build", "graph", "reverse", "mcp", "version", "help"}
	best := ""
	bestDist := 3
	for _, cmd := range known {
		if d := editDistance(input, cmd); d < bestDist {
			bestDist = d
			best = cmd
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`castr - OpenAPI to Go validation schema compiler

Usage:
  castr <command> [options]

Commands:
  build       Generate Go validation schemas from an OpenAPI document
  graph       Report the schema dependency graph of an OpenAPI document
  reverse     Regenerate an OpenAPI document from generated Go source
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  castr build -o schemas.gen.go openapi.yaml
  castr build -p petapi --types-output types.gen.go openapi.yaml
  castr graph openapi.yaml
  castr reverse -o regenerated.yaml schemas.gen.go
  cat openapi.yaml | castr build -

Run 'castr <command> --help' for more information on a command.`)
}
