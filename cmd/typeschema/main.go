package main

import (
	"fmt"
	"os"

	"github.com/erraggy/typeschema"
	"github.com/erraggy/typeschema/cmd/typeschema/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("typeschema %s\n", typeschema.Version())
		fmt.Print(typeschema.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "transform":
		if err := commands.HandleTransform(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "manifest-schema":
		if err := commands.HandleManifestSchema(os.Args[2:]); err != nil {
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

func printUsage() {
	fmt.Fprintf(os.Stderr, `typeschema - declarations to OpenAPI schemas

Usage:
  typeschema <command> [flags] [args]

Commands:
  transform         Transform declarations or type expressions into schemas
  manifest-schema   Print the JSON Schema of the manifest format
  mcp               Start an MCP server over stdio
  version           Show version information
  help              Show this help message

Run 'typeschema <command> -h' for command flags.
`)
}

var knownCommands = []string{"transform", "manifest-schema", "mcp", "version", "help"}

// suggestCommand returns the known command closest to input when it is
// within an edit distance of two, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range knownCommands {
		if d := editDistance(input, cmd); d < bestDist {
			best, bestDist = cmd, d
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
