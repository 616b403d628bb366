package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/erraggy/typeschema/source"
)

// HandleManifestSchema executes the manifest-schema command
func HandleManifestSchema(args []string) error {
	return runManifestSchema(args, os.Stdout)
}

func runManifestSchema(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("manifest-schema", flag.ContinueOnError)
	format := fs.String("format", FormatJSON, "output format: json or yaml")
	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: typeschema manifest-schema [flags]\n\n")
		Writef(output, "Print the JSON Schema describing declaration manifests.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *format != FormatJSON && *format != FormatYAML {
		return errors.New("manifest-schema supports json or yaml output")
	}
	if *format == FormatJSON {
		return OutputStructured(stdout, source.ManifestSchema(), *format)
	}

	// The reflected schema keeps properties in an ordered map that only
	// knows how to marshal itself as JSON.
	data, err := json.Marshal(source.ManifestSchema())
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return OutputStructured(stdout, doc, *format)
}
