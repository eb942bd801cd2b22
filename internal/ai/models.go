package ai

// SchemaType names a JSON value type in a response schema.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
)

// Schema is a provider-neutral structured-output constraint.
// Providers translate it into their own schema types.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Required lists property names that must be present.
	Required []string
	// Items describes array elements.
	Items *Schema
}

// Request is a single generation call.
type Request struct {
	SystemInstruction string
	Prompt            string

	// Schema is sent as a structured-output constraint when non-nil.
	Schema *Schema
}

// Settings are shared by all providers.
type Settings struct {
	Model       string
	Temperature float32
}
