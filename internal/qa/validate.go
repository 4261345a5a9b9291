package qa

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		err := v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		if err != nil {
			panic(fmt.Sprintf("qa: register nonblank validation: %v", err))
		}
		structCheck = v
	})
	return structCheck
}

// Validate checks the structural invariants of c and returns c unchanged on
// success. It stops at the first violation in document order: blank fields
// of an entry are reported before its id is compared with earlier entries.
func Validate(c *Collection) (*Collection, error) {
	if c == nil {
		return nil, errors.New("validate: nil collection")
	}
	v := entryValidator()
	seen := make(map[string]Location)

	for _, s := range c.Sections {
		for _, e := range s.Entries {
			if err := v.Struct(e); err != nil {
				var verrs validator.ValidationErrors
				if errors.As(err, &verrs) && len(verrs) > 0 {
					return nil, &EmptyFieldError{
						ID:       e.ID,
						Field:    strings.ToLower(verrs[0].Field()),
						Location: e.Source,
					}
				}
				return nil, fmt.Errorf("validate entry %q: %w", e.ID, err)
			}
			if first, ok := seen[e.ID]; ok {
				return nil, &DuplicateIDError{ID: e.ID, First: first, Second: e.Source}
			}
			seen[e.ID] = e.Source
		}
	}
	return c, nil
}
