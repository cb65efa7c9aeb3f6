package modhook

import (
	"errors"
)

// Plugin errors
var (
	// Descriptor errors
	ErrDescriptorNameMissing   = errors.New("descriptor name is missing")
	ErrDescriptorAuthorMissing = errors.New("descriptor author is missing")
	ErrDescriptorVersionZero   = errors.New("descriptor version must not be 0.0.0")
	ErrDescriptorCompatibility = errors.New("descriptor compatibility mode is invalid")
	ErrDescriptorBuildsMissing = errors.New("build-tied descriptor must list compatible builds")
	ErrDescriptorAddressing    = errors.New("runtime-independent descriptor must declare an addressing strategy")
	ErrDescriptorLayout        = errors.New("descriptor cannot be both layout dependent and free of struct use")
	ErrInvalidVersionString    = errors.New("invalid version string")

	// Load errors
	ErrHostNil                = errors.New("host load interface is nil")
	ErrMessagingUnavailable   = errors.New("messaging interface unavailable")
	ErrListenerRejected       = errors.New("host rejected lifecycle listener")
	ErrAlreadyLoaded          = errors.New("plugin already loaded")
	ErrEventSourceUnavailable = errors.New("event source holder unavailable")
	ErrEventSourceMissing     = errors.New("event source not provided by host")

	// Call-in errors
	ErrCallInPanic = errors.New("panic recovered at host call-in")

	// Task errors
	ErrTasksDisabled = errors.New("deferred tasks are disabled")

	// Observer errors
	ErrObserverNil = errors.New("observer is nil")

	// Config errors
	ErrConfigNil                  = errors.New("config is nil")
	ErrConfigNotPointer           = errors.New("config must be a pointer")
	ErrConfigNotStruct            = errors.New("config must be a struct")
	ErrConfigRequiredFieldMissing = errors.New("required field is missing")
	ErrDefaultValueParseError     = errors.New("failed to parse default value")
	ErrUnsupportedFormatType      = errors.New("unsupported format type")
	ErrInvalidLogLevel            = errors.New("invalid log level")
	ErrInvalidLogFormat           = errors.New("invalid log format")
)
