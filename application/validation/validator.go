// Package validation provides struct and JSON Schema validation shared by the addon.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one failed struct constraint.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}

// Struct validates v against its `validate` tags.
// The first failed constraint is returned as a FieldError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return FieldError{Field: ves[0].Field(), Tag: ves[0].Tag(), Param: ves[0].Param()}
	}
	return err
}

// SchemaValidator validates documents against JSON Schemas, compiling each
// schema once per name.
type SchemaValidator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a new validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// Validate checks doc against the schema registered under name, registering
// schemaJSON first if the name is new. doc may be any value that round-trips
// through encoding/json.
func (v *SchemaValidator) Validate(name string, schemaJSON []byte, doc interface{}) error {
	sch, err := v.compile(name, schemaJSON)
	if err != nil {
		return err
	}

	// Marshal to JSON (to interface{} for validation)
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}

	if err := sch.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s: %s", name, ve.Error())
		}
		return err
	}
	return nil
}

func (v *SchemaValidator) compile(name string, schemaJSON []byte) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sch, ok := v.schemas[name]; ok {
		return sch, nil
	}
	if err := v.compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", name, err)
	}
	sch, err := v.compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", name, err)
	}
	v.schemas[name] = sch
	return sch, nil
}
