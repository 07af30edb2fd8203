package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaValidator checks JSON documents against named JSON schemas
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaName string) error
}

// Violation is one failed schema keyword
type Violation struct {
	Path    string
	Message string
}

// SchemaError lists every violation found in one document
type SchemaError struct {
	Schema     string
	Violations []Violation
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s:", ErrMsgSchemaViolation, e.Schema)
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  - at %s: %s", v.Path, v.Message)
	}
	return b.String()
}

type schemaValidator struct {
	schemaFS fs.FS
	printer  *message.Printer

	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator resolves schema names as paths within schemaFS.
// Schemas are compiled on first use and cached.
func NewSchemaValidator(schemaFS fs.FS) SchemaValidator {
	return &schemaValidator{
		schemaFS: schemaFS,
		printer:  message.NewPrinter(language.English),
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes returns a *SchemaError when data parses but breaks the schema
func (v *schemaValidator) ValidateBytes(data []byte, schemaName string) error {
	schema, err := v.schema(schemaName)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgSchemaLoad, schemaName, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgParseDocument, err)
	}

	err = schema.Validate(doc)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		out := &SchemaError{Schema: schemaName}
		v.collect(verr, &out.Violations)
		return out
	}
	return err
}

func (v *schemaValidator) schema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[name]; ok {
		return s, nil
	}

	raw, err := fs.ReadFile(v.schemaFS, name)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if err := v.compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	s, err := v.compiler.Compile(name)
	if err != nil {
		return nil, err
	}
	v.schemas[name] = s
	return s, nil
}

// collect keeps only leaf errors; the wrapping levels just repeat their causes
func (v *schemaValidator) collect(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) > 0 {
		for _, c := range err.Causes {
			v.collect(c, out)
		}
		return
	}
	path := "/" + strings.Join(err.InstanceLocation, "/")
	msg := ErrMsgInvalidValue
	if err.ErrorKind != nil {
		msg = err.ErrorKind.LocalizedString(v.printer)
	}
	*out = append(*out, Violation{Path: path, Message: msg})
}
