package errors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidState       Code = "INVALID_STATE"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
)

// Kind is the stable error identifier clients see in the response envelope.
func (c Code) Kind() string {
	switch c {
	case CodeInvalidArgument:
		return "InvalidInput"
	case CodeNotFound:
		return "NotFound"
	case CodeInvalidState:
		return "InvalidState"
	case CodePermissionDenied:
		return "Forbidden"
	case CodeUnauthenticated:
		return "Unauthorized"
	case CodeFailedPrecondition:
		return "PreconditionFailed"
	case CodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// HTTPStatus maps a code to the status the boundary responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return 400
	case CodeUnauthenticated:
		return 401
	case CodePermissionDenied:
		return 403
	case CodeNotFound:
		return 404
	case CodeInvalidState:
		return 409
	case CodeFailedPrecondition:
		return 412
	default:
		return 500
	}
}
