// Package params implements the parameter client pair: an asynchronous
// client correlating each of the five parameter call shapes with a future,
// and a synchronous client that drives the event loop until those futures
// resolve. Value encoding and decoding is the transport's job; parameter
// values travel as opaque Go values here.
package params

// A Type describes the kind of value a parameter holds.
type Type uint8

const (
	// TypeNotSet marks a parameter without a value.
	TypeNotSet Type = iota

	// TypeBool marks a boolean parameter.
	TypeBool

	// TypeInt marks an integer parameter.
	TypeInt

	// TypeFloat marks a floating point parameter.
	TypeFloat

	// TypeString marks a string parameter.
	TypeString

	// TypeBytes marks a byte array parameter.
	TypeBytes
)

// String returns the name of the type.
func (t Type) String() string {
	switch t {
	case TypeNotSet:
		return "NotSet"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// TypeOf derives the parameter type of a value.
func TypeOf(value any) Type {
	switch value.(type) {
	case nil:
		return TypeNotSet
	case bool:
		return TypeBool
	case int, int32, int64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case string:
		return TypeString
	case []byte:
		return TypeBytes
	default:
		return TypeNotSet
	}
}

// A Parameter is one named value.
type Parameter struct {
	Name  string
	Value any
}

// Type returns the type of the parameter's value.
func (p Parameter) Type() Type {
	return TypeOf(p.Value)
}

// A SetResult reports the outcome of setting one parameter, or of one
// atomic set as a whole.
type SetResult struct {
	Successful bool
	Reason     string
}

// A ListResult holds the names matched by a list call and the prefixes one
// level above them.
type ListResult struct {
	Names    []string
	Prefixes []string
}

// DepthRecursive makes a list call traverse without a depth bound.
const DepthRecursive uint64 = 0

// Request and response shapes of the five parameter services. The transport
// carries them opaquely.
type (
	// GetRequest asks for the values of the named parameters.
	GetRequest struct {
		Names []string
	}

	// GetResponse carries values in request order: the value at position
	// i belongs to the name at position i of the request.
	GetResponse struct {
		Values []any
	}

	// GetTypesRequest asks for the types of the named parameters.
	GetTypesRequest struct {
		Names []string
	}

	// GetTypesResponse carries types in request order.
	GetTypesResponse struct {
		Types []Type
	}

	// SetRequest sets each parameter independently.
	SetRequest struct {
		Parameters []Parameter
	}

	// SetResponse carries one result per requested parameter, in order.
	SetResponse struct {
		Results []SetResult
	}

	// SetAtomicallyRequest sets all parameters or none.
	SetAtomicallyRequest struct {
		Parameters []Parameter
	}

	// SetAtomicallyResponse carries the aggregate result.
	SetAtomicallyResponse struct {
		Result SetResult
	}

	// ListRequest asks for the parameter names under the given prefixes,
	// bounded to the given depth. Empty prefixes match every parameter.
	ListRequest struct {
		Prefixes []string
		Depth    uint64
	}

	// ListResponse carries the matched names and prefixes.
	ListResponse struct {
		Result ListResult
	}
)

const (
	getService           = "__get_parameters"
	getTypesService      = "__get_parameter_types"
	setService           = "__set_parameters"
	setAtomicallyService = "__set_parameters_atomically"
	listService          = "__list_parameters"
)

func serviceName(node, suffix string) string {
	return node + suffix
}
