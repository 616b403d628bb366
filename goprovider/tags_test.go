package goprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/typeschema/source"
)

func TestParseJSONTag(t *testing.T) {
	tests := []struct {
		tag      string
		wantName string
		wantOpts []string
	}{
		{"", "", nil},
		{"name", "name", []string{}},
		{"name,omitempty", "name", []string{"omitempty"}},
		{",omitempty", "", []string{"omitempty"}},
		{"-", "-", []string{}},
		{"-,", "-", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			name, opts := parseJSONTag(tt.tag)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantOpts, opts)
		})
	}
}

func TestParseOASTag(t *testing.T) {
	got := parseOASTag("minLength=1, maxLength=100 ,enum=a|b,required")
	assert.Equal(t, map[string]string{
		"minLength": "1",
		"maxLength": "100",
		"enum":      "a|b",
		"required":  "true",
	}, got)
	assert.Empty(t, parseOASTag(""))
}

func TestOASAnnotations(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want []source.AnnotationDescriptor
	}{
		{"empty", "", nil},
		{
			name: "fixed order",
			tag:  "maximum=9.5,minimum=1,required",
			want: []source.AnnotationDescriptor{
				source.Annotation("IsNotEmpty"),
				source.Annotation("Min", int64(1)),
				source.Annotation("Max", 9.5),
			},
		},
		{"optional", "required=false", []source.AnnotationDescriptor{source.Annotation("IsOptional")}},
		{
			name: "lengths and items",
			tag:  "minLength=2,maxLength=8,minItems=1,maxItems=3",
			want: []source.AnnotationDescriptor{
				source.Annotation("MinLength", int64(2)),
				source.Annotation("MaxLength", int64(8)),
				source.Annotation("ArrayMinSize", int64(1)),
				source.Annotation("ArrayMaxSize", int64(3)),
			},
		},
		{"enum", "enum=a|b", []source.AnnotationDescriptor{source.Annotation("IsIn", []any{"a", "b"})}},
		{"format", "format=email", []source.AnnotationDescriptor{source.Annotation("IsEmail")}},
		{"unknown format", "format=color", nil},
		{"bad number", "minimum=abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oasAnnotations(tt.tag))
		})
	}
}

func TestValidateAnnotations(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		shape fieldShape
		want  []source.AnnotationDescriptor
	}{
		{
			name:  "string bounds",
			tag:   "required,min=1,max=64",
			shape: shapeString,
			want: []source.AnnotationDescriptor{
				source.Annotation("IsNotEmpty"),
				source.Annotation("MinLength", int64(1)),
				source.Annotation("MaxLength", int64(64)),
			},
		},
		{
			name:  "number bounds",
			tag:   "gte=0,lte=1.5",
			shape: shapeNumber,
			want: []source.AnnotationDescriptor{
				source.Annotation("Min", int64(0)),
				source.Annotation("Max", 1.5),
			},
		},
		{
			name:  "slice bounds",
			tag:   "min=1",
			shape: shapeSlice,
			want:  []source.AnnotationDescriptor{source.Annotation("ArrayMinSize", int64(1))},
		},
		{
			name:  "string len",
			tag:   "len=4",
			shape: shapeString,
			want:  []source.AnnotationDescriptor{source.Annotation("Length", 4, 4)},
		},
		{
			name:  "slice len",
			tag:   "len=2",
			shape: shapeSlice,
			want: []source.AnnotationDescriptor{
				source.Annotation("ArrayMinSize", 2),
				source.Annotation("ArrayMaxSize", 2),
			},
		},
		{
			name:  "formats",
			tag:   "omitempty,email,uuid4,url,datetime",
			shape: shapeString,
			want: []source.AnnotationDescriptor{
				source.Annotation("IsOptional"),
				source.Annotation("IsEmail"),
				source.Annotation("IsUUID"),
				source.Annotation("IsUrl"),
				source.Annotation("IsDateString"),
			},
		},
		{
			name:  "oneof",
			tag:   "oneof=red green",
			shape: shapeString,
			want:  []source.AnnotationDescriptor{source.Annotation("IsIn", []any{"red", "green"})},
		},
		{"unsupported", "dive,excludes=x", shapeOther, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateAnnotations(tt.tag, tt.shape))
		})
	}
}
