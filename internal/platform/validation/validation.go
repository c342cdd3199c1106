// Package validation checks request bodies against JSON schemas before they
// are bound to Go types.
package validation

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/xeipuuv/gojsonschema"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

// Schema is a compiled JSON schema. It is safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(doc string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is like Compile but panics on error. Use it for package-level
// schemas.
func MustCompile(doc string) *Schema {
	s, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks body against the schema. Violations are reported as an
// invalid-argument error carrying one detail per failing field.
func (s *Schema) Validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "request body is not valid JSON")
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		details[i] = desc.String()
	}
	return apperror.InvalidArgument(apperror.CodeInvalidArgument, "request body failed validation").WithDetails(details...)
}

// Bind reads the request body, validates it against s and decodes it into dst.
func Bind(c echo.Context, s *Schema, dst any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return err
		}
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "unable to read request body")
	}
	if err := s.Validate(body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "request body could not be decoded")
	}
	return nil
}
