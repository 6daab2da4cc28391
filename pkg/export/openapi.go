// Package export turns a published form into an OpenAPI 3 document
// describing its submission endpoint, so external tooling can generate
// clients or validate payloads.
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// OpenAPIDocument builds an openapi3.T with one POST operation per
// form: the request body schema mirrors the field list, required fields
// and their length/pattern constraints included.
func OpenAPIDocument(form model.Form) (*openapi3.T, error) {
	if form.ID == "" {
		return nil, fmt.Errorf("export: form id is required")
	}

	schema := openapi3.NewObjectSchema()
	for _, field := range form.Fields {
		fieldSchema, err := fieldSchema(field)
		if err != nil {
			return nil, err
		}
		schema.Properties[field.ID] = openapi3.NewSchemaRef("", fieldSchema)
		if field.Required {
			schema.Required = append(schema.Required, field.ID)
		}
	}

	operation := &openapi3.Operation{
		OperationID: "submit-" + form.ID,
		Summary:     "Submit " + form.ID,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithContent(openapi3.NewContentWithJSONSchema(schema)),
		},
		Responses: submissionResponses(),
	}

	pathItem := &openapi3.PathItem{Post: operation}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   form.ID,
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/form/"+form.ID, pathItem),
		),
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("export: validate document: %w", err)
	}
	return doc, nil
}

// OpenAPIJSON renders the document as indented JSON.
func OpenAPIJSON(form model.Form) ([]byte, error) {
	doc, err := OpenAPIDocument(form)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode document: %w", err)
	}
	return data, nil
}

func fieldSchema(field model.Field) (*openapi3.Schema, error) {
	switch field.Type {
	case model.FieldTypeCheckbox:
		item := openapi3.NewStringSchema()
		item.Enum = enumValues(field.Options)
		schema := openapi3.NewArraySchema()
		schema.Items = openapi3.NewSchemaRef("", item)
		schema.Description = field.HelpText
		return schema, nil

	case model.FieldTypeDropdown:
		schema := stringSchema(field)
		schema.Enum = enumValues(field.Options)
		return schema, nil

	case model.FieldTypeDate:
		schema := stringSchema(field)
		schema.Format = "date"
		return schema, nil

	case model.FieldTypeText, model.FieldTypeTextArea:
		return stringSchema(field), nil

	default:
		return nil, fmt.Errorf("export: field %q: unknown type %q", field.ID, field.Type)
	}
}

func stringSchema(field model.Field) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	schema.Title = field.Label
	schema.Description = field.HelpText
	if field.MinLength > 0 {
		schema.MinLength = uint64(field.MinLength)
	}
	if field.MaxLength > 0 {
		max := uint64(field.MaxLength)
		schema.MaxLength = &max
	}
	if field.Pattern != "" {
		schema.Pattern = field.Pattern
	}
	return schema
}

func enumValues(options []string) []any {
	out := make([]any, len(options))
	for i, option := range options {
		out[i] = option
	}
	return out
}

func submissionResponses() *openapi3.Responses {
	accepted := "Submission accepted"
	invalid := "Validation failed"
	return openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(accepted),
		}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(invalid),
		}),
	)
}
