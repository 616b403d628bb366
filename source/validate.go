package source

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// manifestValidator is shared; building a validator caches struct metadata.
var manifestValidator = newManifestValidator()

func newManifestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths with the manifest's own key names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage describes the first failed rule, e.g.
// "declarations[0].name is required".
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid manifest"
	}
	fe := fieldErrs[0]
	path := strings.TrimPrefix(fe.Namespace(), "Manifest.")
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", path, fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %q", path, fe.Tag())
	}
}
