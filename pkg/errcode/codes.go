package errcode

// Code is a stable string identifier for an error kind. The set is closed:
// automated callers branch on these values and on the exit codes they map to,
// so new codes require a schema version bump in the output envelope.
type Code string

const (
	InvalidArgument          Code = "INVALID_ARGUMENT"
	MissingArgument          Code = "MISSING_ARGUMENT"
	ResourceNotFound         Code = "RESOURCE_NOT_FOUND"
	AlreadyExists            Code = "ALREADY_EXISTS"
	PermissionDenied         Code = "PERMISSION_DENIED"
	AuthFailed               Code = "AUTH_FAILED"
	RateLimited              Code = "RATE_LIMITED"
	Timeout                  Code = "TIMEOUT"
	Conflict                 Code = "CONFLICT"
	PreconditionFailed       Code = "PRECONDITION_FAILED"
	ConfirmationRequired     Code = "CONFIRMATION_REQUIRED"
	IdempotencyKeyConflict   Code = "IDEMPOTENCY_KEY_CONFLICT"
	UnsupportedSchemaVersion Code = "UNSUPPORTED_SCHEMA_VERSION"
	InternalError            Code = "INTERNAL_ERROR"
	DependencyMissing        Code = "DEPENDENCY_MISSING"
	ConfigError              Code = "CONFIG_ERROR"
	UnsupportedOperation     Code = "UNSUPPORTED_OPERATION"
)

// Process exit codes that don't belong to a single error code.
const (
	ExitSuccess        = 0
	ExitGeneral        = 1
	ExitPartialFailure = 3
	ExitDryRun         = 40
	ExitInternal       = 125
)

// ExitCode returns the process exit code for the error code. Unrecognized
// codes map to the internal-error exit code so callers never see exit 0 on
// failure.
func (c Code) ExitCode() int {
	switch c {
	case InvalidArgument, MissingArgument:
		return 2
	case ResourceNotFound:
		return 4
	case AlreadyExists, Conflict, IdempotencyKeyConflict:
		return 5
	case AuthFailed:
		return 10
	case PermissionDenied:
		return 11
	case RateLimited:
		return 12
	case Timeout:
		return 20
	case DependencyMissing:
		return 30
	case PreconditionFailed, ConfirmationRequired, ConfigError, UnsupportedOperation:
		return ExitGeneral
	case UnsupportedSchemaVersion, InternalError:
		return ExitInternal
	default:
		return ExitInternal
	}
}

// Recoverable reports whether a caller can expect the same invocation to
// succeed later (after a retry, a fix to the arguments, or a state change).
func (c Code) Recoverable() bool {
	switch c {
	case InvalidArgument, MissingArgument, ResourceNotFound, AlreadyExists,
		RateLimited, Timeout, Conflict, PreconditionFailed, ConfirmationRequired:
		return true
	default:
		return false
	}
}
