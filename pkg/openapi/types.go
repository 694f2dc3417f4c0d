package openapi

// Type is the classification of a resolved schema.
type Type int

// Schema types.
const (
	TypeUnknown Type = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeObject
	TypeArray
)

var typeNames = map[Type]string{
	TypeUnknown: "unknown",
	TypeString:  "string",
	TypeNumber:  "number",
	TypeInteger: "integer",
	TypeBoolean: "boolean",
	TypeObject:  "object",
	TypeArray:   "array",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsPrimitive reports whether t is string, number, integer or boolean.
func (t Type) IsPrimitive() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return true
	}
	return false
}

// ParseType maps an OpenAPI type keyword to a Type.
func ParseType(s string) Type {
	switch s {
	case "string":
		return TypeString
	case "number":
		return TypeNumber
	case "integer":
		return TypeInteger
	case "boolean":
		return TypeBoolean
	case "object":
		return TypeObject
	case "array":
		return TypeArray
	}
	return TypeUnknown
}
