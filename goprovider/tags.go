package goprovider

import (
	"strconv"
	"strings"

	"github.com/erraggy/typeschema/source"
)

// parseJSONTag parses a struct field's json tag.
// Returns the field name and options (like "omitempty").
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func hasOption(opts []string, want string) bool {
	for _, opt := range opts {
		if opt == want {
			return true
		}
	}
	return false
}

// parseOASTag parses the oas struct tag into a map of key-value pairs.
// Supports formats like: oas:"minLength=1,maxLength=100,enum=a|b"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx > 0 {
			result[strings.TrimSpace(part[:idx])] = strings.TrimSpace(part[idx+1:])
		} else {
			result[part] = "true"
		}
	}
	return result
}

// fieldShape is the coarse kind of a field's type, used to pick between
// length, size, and range annotations for the same tag keyword.
type fieldShape int

const (
	shapeOther fieldShape = iota
	shapeString
	shapeNumber
	shapeSlice
)

// oasAnnotations converts an oas tag into annotations. Keys are visited in
// a fixed order so the result is deterministic.
func oasAnnotations(tag string) []source.AnnotationDescriptor {
	opts := parseOASTag(tag)
	if len(opts) == 0 {
		return nil
	}
	var anns []source.AnnotationDescriptor
	for _, key := range []string{"required", "minimum", "maximum", "minLength", "maxLength", "minItems", "maxItems", "enum", "format"} {
		value, ok := opts[key]
		if !ok {
			continue
		}
		switch key {
		case "required":
			if value == "true" {
				anns = append(anns, source.Annotation("IsNotEmpty"))
			} else {
				anns = append(anns, source.Annotation("IsOptional"))
			}
		case "minimum":
			anns = appendNumeric(anns, "Min", value)
		case "maximum":
			anns = appendNumeric(anns, "Max", value)
		case "minLength":
			anns = appendNumeric(anns, "MinLength", value)
		case "maxLength":
			anns = appendNumeric(anns, "MaxLength", value)
		case "minItems":
			anns = appendNumeric(anns, "ArrayMinSize", value)
		case "maxItems":
			anns = appendNumeric(anns, "ArrayMaxSize", value)
		case "enum":
			anns = append(anns, source.Annotation("IsIn", splitValues(value, "|")))
		case "format":
			if name, ok := formatAnnotations[value]; ok {
				anns = append(anns, source.Annotation(name))
			}
		}
	}
	return anns
}

var formatAnnotations = map[string]string{
	"email":     "IsEmail",
	"uuid":      "IsUUID",
	"uri":       "IsUrl",
	"url":       "IsUrl",
	"date-time": "IsDateString",
	"int64":     "IsInt",
	"int32":     "IsInt",
}

// validateAnnotations converts a go-playground style validate tag.
// Unsupported rules are skipped.
func validateAnnotations(tag string, shape fieldShape) []source.AnnotationDescriptor {
	var anns []source.AnnotationDescriptor
	for _, rule := range strings.Split(tag, ",") {
		name, value, _ := strings.Cut(strings.TrimSpace(rule), "=")
		switch name {
		case "required":
			anns = append(anns, source.Annotation("IsNotEmpty"))
		case "omitempty":
			anns = append(anns, source.Annotation("IsOptional"))
		case "min", "gte":
			anns = appendNumeric(anns, boundAnnotation(shape, true), value)
		case "max", "lte":
			anns = appendNumeric(anns, boundAnnotation(shape, false), value)
		case "len":
			if n, err := strconv.Atoi(value); err == nil {
				if shape == shapeSlice {
					anns = append(anns, source.Annotation("ArrayMinSize", n), source.Annotation("ArrayMaxSize", n))
				} else {
					anns = append(anns, source.Annotation("Length", n, n))
				}
			}
		case "oneof":
			anns = append(anns, source.Annotation("IsIn", splitValues(value, " ")))
		case "email":
			anns = append(anns, source.Annotation("IsEmail"))
		case "uuid", "uuid4", "uuid5":
			anns = append(anns, source.Annotation("IsUUID"))
		case "url", "uri", "http_url":
			anns = append(anns, source.Annotation("IsUrl"))
		case "datetime":
			anns = append(anns, source.Annotation("IsDateString"))
		}
	}
	return anns
}

func boundAnnotation(shape fieldShape, lower bool) string {
	switch {
	case shape == shapeString && lower:
		return "MinLength"
	case shape == shapeString:
		return "MaxLength"
	case shape == shapeSlice && lower:
		return "ArrayMinSize"
	case shape == shapeSlice:
		return "ArrayMaxSize"
	case lower:
		return "Min"
	default:
		return "Max"
	}
}

func appendNumeric(anns []source.AnnotationDescriptor, name, value string) []source.AnnotationDescriptor {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return append(anns, source.Annotation(name, n))
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return append(anns, source.Annotation(name, f))
	}
	return anns
}

func splitValues(value, sep string) []any {
	var out []any
	for _, v := range strings.Split(value, sep) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
