package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDependencyMissing = errors.New("cluster client configuration not found")

	ErrClusterUnreachable = errors.New("cluster unreachable")

	ErrNamespaceNotFound = errors.New("namespace not found")

	ErrMetricsNotAvailable = errors.New("metrics server not available")
)

// NamespaceNotFoundError carries the namespaces that do exist so callers can
// offer them as alternatives.
type NamespaceNotFoundError struct {
	Namespace string
	Available []string
}

func (e *NamespaceNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("namespace %q not found", e.Namespace)
	}
	return fmt.Sprintf("namespace %q not found (available: %s)", e.Namespace, strings.Join(e.Available, ", "))
}

func (e *NamespaceNotFoundError) Is(target error) bool {
	return target == ErrNamespaceNotFound
}
