package codes

// Code is the numeric class of a chart error. The values follow the grpc
// status codes they correspond to, so they can be mapped one to one.
type Code int32

const (
	OK                  Code = 0
	InvalidArgument     Code = 3
	Internal            Code = 13
	UpstreamUnavailable Code = 14
	Unauthenticated     Code = 16
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidArgument:
		return "InvalidArgument"
	case Internal:
		return "Internal"
	case UpstreamUnavailable:
		return "UpstreamUnavailable"
	case Unauthenticated:
		return "Unauthenticated"
	default:
		return "Unknown"
	}
}
