package wirebox

import "fmt"

// NotBoundError represents a resolution attempt for an unregistered type.
type NotBoundError struct {
	Type string
}

func (e *NotBoundError) Error() string {
	return fmt.Sprintf("no binding registered for type: %s", e.Type)
}

// CyclicAliasError represents an alias chain that revisits a type within a
// single resolution.
type CyclicAliasError struct {
	Type string
}

func (e *CyclicAliasError) Error() string {
	return fmt.Sprintf("cyclic alias detected for type: %s", e.Type)
}

// MetadataUnavailableError represents missing or unusable injection metadata
// for a type the pipeline needs to build.
type MetadataUnavailableError struct {
	Type   string
	Reason string
}

func (e *MetadataUnavailableError) Error() string {
	return fmt.Sprintf("injection metadata unavailable for type %s: %s", e.Type, e.Reason)
}

// OutOfOrderBuildError represents a builder stage invoked before its
// prerequisite stage.
type OutOfOrderBuildError struct {
	Stage string
	State string
}

func (e *OutOfOrderBuildError) Error() string {
	return fmt.Sprintf("builder stage %s called in state %s", e.Stage, e.State)
}

// TypeMismatchError represents a value that does not fit where the registry
// or an injection target expects it.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// ConstructionError represents a constructor or factory that returned an
// error while producing an instance.
type ConstructionError struct {
	Type string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction failed for type %s: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// InjectionError represents a property assignment or injected method call
// that failed on the product.
type InjectionError struct {
	Type   string
	Member string
	Err    error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("injection of %s.%s failed: %v", e.Type, e.Member, e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}

// NoContainerError represents an autowire attempt with no container
// registered for the instance's type and no default container set.
type NoContainerError struct {
	Type string
}

func (e *NoContainerError) Error() string {
	return fmt.Sprintf("no container available to autowire type: %s", e.Type)
}
