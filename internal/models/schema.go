package models

// Schema types understood by Gemini structured output.
const (
	SchemaObject = "OBJECT"
	SchemaArray  = "ARRAY"
	SchemaString = "STRING"
)

// Schema is the OpenAPI subset Gemini accepts as generationConfig.responseSchema.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// StringSchema is a plain STRING schema.
func StringSchema() *Schema {
	return &Schema{Type: SchemaString}
}

// ArrayOf wraps items in an ARRAY schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: SchemaArray, Items: items}
}

// ObjectOf builds an OBJECT schema where every listed property is required.
func ObjectOf(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: SchemaObject, Properties: props, Required: required}
}
