package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/typeschema/internal/loader"
	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/synth"
)

const (
	formatOpenAPI    = "openapi"
	formatJSONSchema = "jsonschema"
)

type transformInput struct {
	Source loader.Source `json:"source"           jsonschema:"Where declarations are loaded from"`
	Names  []string      `json:"names,omitempty"  jsonschema:"Declaration names to transform"`
	Type   string        `json:"type,omitempty"   jsonschema:"A type expression such as Page<User> or Pick<User, 'id'>"`
	Hint   string        `json:"hint,omitempty"   jsonschema:"Declaring location used to pick between same-named declarations"`
	Format string        `json:"format,omitempty" jsonschema:"openapi (default) or jsonschema"`
}

type warningOutput struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

type transformResult struct {
	Name     string          `json:"name"`
	ID       string          `json:"id,omitempty"`
	Found    bool            `json:"found"`
	Schema   any             `json:"schema"`
	Warnings []warningOutput `json:"warnings,omitempty"`
}

type transformOutput struct {
	Results    []transformResult `json:"results"`
	Components map[string]any    `json:"components,omitempty"`
	RefPrefix  string            `json:"ref_prefix,omitempty"`
}

func (st *state) handleTransform(_ context.Context, _ *mcp.CallToolRequest, input transformInput) (*mcp.CallToolResult, transformOutput, error) {
	format := strings.ToLower(input.Format)
	if format == "" {
		format = formatOpenAPI
	}
	if format != formatOpenAPI && format != formatJSONSchema {
		return errResult(fmt.Errorf("invalid format %q; valid values: %s, %s", input.Format, formatOpenAPI, formatJSONSchema)), transformOutput{}, nil
	}
	if len(input.Names) == 0 && input.Type == "" {
		return errResult(errors.New("at least one of names or type is required")), transformOutput{}, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	engine, err := st.engine(input.Source)
	if err != nil {
		return errResult(err), transformOutput{}, nil
	}

	var results []*synth.Result
	for _, name := range input.Names {
		r, err := engine.TransformIdentifier(synth.ClassIdentifier{Name: name, Hint: input.Hint})
		if err != nil {
			return errResult(err), transformOutput{}, nil
		}
		results = append(results, r)
	}
	if input.Type != "" {
		expr, err := source.ParseTypeExpr(input.Type)
		if err != nil {
			return errResult(err), transformOutput{}, nil
		}
		expr.Hint = input.Hint
		r, err := engine.TransformType(expr)
		if err != nil {
			return errResult(err), transformOutput{}, nil
		}
		results = append(results, r)
	}

	components := engine.Components()
	output := transformOutput{Results: make([]transformResult, 0, len(results))}
	for _, r := range results {
		var node any = r.Schema
		if format == formatJSONSchema {
			node = schema.ToJSONSchema(r.Schema, components, engine.RefPrefix())
		}
		value, err := jsonValue(node)
		if err != nil {
			return errResult(err), transformOutput{}, nil
		}
		out := transformResult{Name: r.Name, Found: r.Found(), Schema: value}
		if r.Found() {
			out.ID = r.ID.String()
		}
		for _, w := range r.Warnings {
			out.Warnings = append(out.Warnings, warningOutput{Code: string(w.Code), Name: w.Name, Message: w.Message})
		}
		output.Results = append(output.Results, out)
	}

	if format == formatOpenAPI && len(components) > 0 {
		output.RefPrefix = engine.RefPrefix()
		output.Components = make(map[string]any, len(components))
		for name, s := range components {
			value, err := jsonValue(s)
			if err != nil {
				return errResult(err), transformOutput{}, nil
			}
			output.Components[name] = value
		}
	}
	return nil, output, nil
}
