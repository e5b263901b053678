package parse

import (
	"github.com/go-playground/validator/v10"

	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSchema checks the assembled output against the parsed-document
// schema before it is written. The element-location check runs first so the
// failure names the offending element index instead of a struct path.
func ValidateSchema(doc *model.ParsedDocument) error {
	for i, el := range doc.Elements {
		if el.Location == "" {
			return errclass.ErrSchemaViolation.
				WithMessagef("element %d has an empty location; a converter must label it or use %s", i, model.UnknownStructure)
		}
	}
	if err := validate.Struct(doc); err != nil {
		return errclass.ErrSchemaViolation.WithMessagef("parsed output does not satisfy the schema: %v", err)
	}
	return nil
}
