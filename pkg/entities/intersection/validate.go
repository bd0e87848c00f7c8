package intersection

import (
	"github.com/go-playground/validator/v10"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// validate is a singleton validator instance shared by all constructors.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// checkStruct runs struct-tag validation and converts the first violation
// into a ValidationError carrying the offending field.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.NewValidationError(errs.IncompleteInput, "", "%v", err)
	}
	fe := verrs[0]
	return errs.NewValidationError(kindForTag(fe.Tag()), fe.Field(),
		"constraint '%s=%s' not satisfied by value '%v'", fe.Tag(), fe.Param(), fe.Value())
}

// kindForTag maps validator tags onto the error taxonomy.
func kindForTag(tag string) errs.ValidationKind {
	switch tag {
	case "required", "min":
		return errs.IncompleteInput
	case "gt", "gte":
		return errs.NegativeValue
	case "gtefield", "ltefield", "gtfield", "ltfield", "nefield":
		return errs.InvalidBound
	default:
		return errs.InvalidBound
	}
}
