/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// unsafeTextRegex matches SQL comment and statement terminator sequences.
var unsafeTextRegex = regexp.MustCompile(`--|;|/\*|\*/`)

// Validator checks request bodies against struct tags.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New returns a validator with the books service's custom rules registered.
func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}

	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// These only fail on programming errors in the tag names.
	_ = v.validate.RegisterValidation("safetext", validateSafeText)
	_ = v.validate.RegisterValidation("notfuture", v.validateNotFuture)

	return v
}

func validateSafeText(fl validator.FieldLevel) bool {
	return !unsafeTextRegex.MatchString(fl.Field().String())
}

func (v *Validator) validateNotFuture(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(v.now().Year())
}

// Struct validates s, returning the problems found in the format the books
// service reports them.  A nil slice means s is valid.
func (v *Validator) Struct(s any) []openapi.ValidationProblem {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []openapi.ValidationProblem{
			{
				Location: []string{"body"},
				Message:  err.Error(),
				Type:     "value_error",
			},
		}
	}

	problems := make([]openapi.ValidationProblem, 0, len(validationErrors))

	for _, fieldErr := range validationErrors {
		problems = append(problems, openapi.ValidationProblem{
			Location: []string{"body", fieldErr.Field()},
			Message:  message(fieldErr),
			Type:     fieldErr.Tag(),
		})
	}

	return problems
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "String should have at least " + err.Param() + " characters"
	case "max":
		return "String should have at most " + err.Param() + " characters"
	case "gte":
		return "Input should be greater than or equal to " + err.Param()
	case "notfuture":
		return "Year must not be in the future"
	case "safetext":
		return "Value contains disallowed characters"
	default:
		return "Value is invalid"
	}
}
