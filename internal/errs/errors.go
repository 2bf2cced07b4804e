package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrAnnotation indicates a malformed nixos struct tag or type directive.
	ErrAnnotation = errors.New("annotation misuse")

	// ErrTypeNotFound indicates a type was not present in the loaded type graph.
	ErrTypeNotFound = errors.New("type not found")

	// ErrUnsupportedRoot indicates the root of a compile call is not a struct or enum.
	ErrUnsupportedRoot = errors.New("unsupported root type")

	// ErrLoadPackages indicates go/packages failed to load the requested patterns.
	ErrLoadPackages = errors.New("load packages")

	// ErrCompile indicates a top-level compile call failed.
	ErrCompile = errors.New("compile")

	// ErrWrite indicates an error occurred while writing.
	ErrWrite = errors.New("write")

	// ErrWriteFile indicates an error occurred while writing a file.
	ErrWriteFile = fmt.Errorf("file: %w", ErrWrite)

	// ErrInvalidConfig indicates the configuration failed to load or validate.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidArguments indicates invalid arguments were provided.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrYAMLMarshal indicates an error occurred while marshaling YAML.
	ErrYAMLMarshal = errors.New("marshal YAML")

	// ErrJSONMarshal indicates an error occurred while marshaling JSON.
	ErrJSONMarshal = errors.New("marshal JSON")

	// ErrLogHandlerFailed indicates the log handler could not be created.
	ErrLogHandlerFailed = errors.New("log handler failed")
)
