package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/erraggy/typeschema/internal/config"
	"github.com/erraggy/typeschema/internal/loader"
	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/synth"
)

// TransformFlags contains flags for the transform command
type TransformFlags struct {
	Manifest      string
	Packages      string
	Dir           string
	Format        string
	Hint          string
	RefPrefix     string
	RefNaming     string
	GenericNaming string
	MaxDepth      int
	EnvFile       string
	Verbose       bool
	Quiet         bool
}

// SetupTransformFlags creates and configures a FlagSet for the transform command.
// Returns the FlagSet and a TransformFlags struct with bound flag variables.
func SetupTransformFlags() (*flag.FlagSet, *TransformFlags) {
	fs := flag.NewFlagSet("transform", flag.ContinueOnError)
	flags := &TransformFlags{}

	fs.StringVar(&flags.Manifest, "manifest", "", "path to a YAML or JSON declaration manifest")
	fs.StringVar(&flags.Packages, "packages", "", "comma-separated Go package patterns to load")
	fs.StringVar(&flags.Dir, "dir", "", "directory in which Go package patterns are resolved")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json, yaml, or jsonschema")
	fs.StringVar(&flags.Hint, "hint", "", "declaring location used to pick between same-named declarations")
	fs.StringVar(&flags.RefPrefix, "ref-prefix", "", "prefix of emitted $ref values (overrides TYPESCHEMA_REF_PREFIX)")
	fs.StringVar(&flags.RefNaming, "ref-naming", "", "component naming: type, qualified, pascal, camel, snake, kebab, full-path")
	fs.StringVar(&flags.GenericNaming, "generic-naming", "", "generic argument naming: underscore, of, for, flattened")
	fs.IntVar(&flags.MaxDepth, "max-depth", 0, "nesting limit for non-cyclic input (overrides TYPESCHEMA_MAX_DEPTH)")
	fs.StringVar(&flags.EnvFile, "env", "", "load TYPESCHEMA_* variables from this file")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug output to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: do not print warnings")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: typeschema transform [flags] <name|type>...\n\n")
		Writef(output, "Transform declarations into OpenAPI component schemas.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  typeschema transform -manifest models.yaml Org\n")
		Writef(output, "  typeschema transform -manifest models.yaml 'Page<User>' 'Pick<User, \"id\">'\n")
		Writef(output, "  typeschema transform -packages ./models -format yaml User\n")
		Writef(output, "  typeschema transform -manifest models.yaml -format jsonschema Org\n")
		Writef(output, "\nArguments:\n")
		Writef(output, "  Plain names are resolved as declarations. Anything else is parsed as a\n")
		Writef(output, "  type expression: arrays (User[]), generics (Page<User>), and utility\n")
		Writef(output, "  types (Partial, Required, Pick, Omit, Record).\n")
	}

	return fs, flags
}

// TransformOutput is the json and yaml output document.
type TransformOutput struct {
	Results    []TransformResult         `json:"results" yaml:"results"`
	Components map[string]*schema.Schema `json:"components,omitempty" yaml:"components,omitempty"`
}

// TransformResult is one transformed argument.
type TransformResult struct {
	Name     string          `json:"name" yaml:"name"`
	ID       string          `json:"id,omitempty" yaml:"id,omitempty"`
	Schema   *schema.Schema  `json:"schema" yaml:"schema"`
	Warnings []synth.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HandleTransform executes the transform command
func HandleTransform(args []string) error {
	return runTransform(args, os.Stdout, os.Stderr)
}

func runTransform(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupTransformFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("transform command requires at least one name or type expression")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.EnvFile)
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	opts, err := transformOptions(cfg, flags, cfg.NewLogger(stderr))
	if err != nil {
		return err
	}

	provider, err := loader.Open(loader.Source{
		Manifest: flags.Manifest,
		Packages: splitList(flags.Packages),
		Dir:      flags.Dir,
	})
	if err != nil {
		if errors.Is(err, loader.ErrNoSource) {
			return errors.New("exactly one of -manifest or -packages is required")
		}
		return err
	}
	engine, err := synth.New(provider, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Dispose() }()

	var results []*synth.Result
	for _, arg := range fs.Args() {
		r, err := transformArg(engine, arg, flags.Hint)
		if err != nil {
			return err
		}
		if !flags.Quiet {
			for _, w := range r.Warnings {
				Writef(stderr, "warning: %s\n", w)
			}
		}
		results = append(results, r)
	}

	components := engine.Components()
	if flags.Format == FormatJSONSchema {
		docs := make([]any, len(results))
		for i, r := range results {
			docs[i] = schema.ToJSONSchema(r.Schema, components, engine.RefPrefix())
		}
		if len(docs) == 1 {
			return OutputStructured(stdout, docs[0], flags.Format)
		}
		return OutputStructured(stdout, docs, flags.Format)
	}

	out := TransformOutput{Results: make([]TransformResult, len(results))}
	for i, r := range results {
		out.Results[i] = TransformResult{Name: r.Name, Schema: r.Schema, Warnings: r.Warnings}
		if r.Found() {
			out.Results[i].ID = r.ID.String()
		}
	}
	if len(components) > 0 {
		out.Components = components
	}
	return OutputStructured(stdout, out, flags.Format)
}

// transformArg resolves plain names as declarations and everything else as
// a type expression.
func transformArg(engine *synth.Engine, arg, hint string) (*synth.Result, error) {
	expr, err := source.ParseTypeExpr(arg)
	if err != nil {
		return nil, err
	}
	if expr.Name != "" && len(expr.Args) == 0 {
		return engine.TransformIdentifier(synth.ClassIdentifier{Name: expr.Name, Hint: hint})
	}
	expr.Hint = hint
	return engine.TransformType(expr)
}

func loadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		return config.LoadFile(envFile)
	}
	return config.Load(), nil
}

// transformOptions layers explicitly set flags over the environment defaults.
func transformOptions(cfg *config.Config, flags *TransformFlags, logger *slog.Logger) ([]synth.Option, error) {
	opts := cfg.Options(logger)
	if flags.RefPrefix != "" {
		opts = append(opts, synth.WithRefPrefix(flags.RefPrefix))
	}
	if flags.RefNaming != "" {
		s, err := synth.ParseRefNamingStrategy(flags.RefNaming)
		if err != nil {
			return nil, err
		}
		opts = append(opts, synth.WithRefNaming(s))
	}
	if flags.GenericNaming != "" {
		s, err := synth.ParseGenericNamingStrategy(flags.GenericNaming)
		if err != nil {
			return nil, err
		}
		opts = append(opts, synth.WithGenericNaming(s))
	}
	if flags.MaxDepth != 0 {
		opts = append(opts, synth.WithMaxDepth(flags.MaxDepth))
	}
	return opts, nil
}
