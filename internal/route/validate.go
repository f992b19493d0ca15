package route

import (
	"fmt"

	"github.com/simp-lee/routekit/internal/domain"
)

// DescriptorError reports a structurally invalid route entry.
type DescriptorError struct {
	Service string
	Verb    Verb
	Path    string
	Reason  string
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	msg := fmt.Sprintf("misconfigured %s route: route path is %q", e.Verb.Key(), e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Service != "" {
		msg = e.Service + ": " + msg
	}
	return msg
}

// Unwrap classifies the error as a descriptor error for domain.IsDescriptor.
func (e *DescriptorError) Unwrap() error {
	return domain.NewAppError(domain.CodeDescriptor, "misconfigured route", nil)
}

// Validate checks every entry of every supported verb in d and returns the
// first violation. Entries need a non-empty path and at least one handler;
// nil handlers count as missing.
func Validate(d Descriptor) error {
	for _, verb := range Verbs {
		for _, entry := range d[verb] {
			if err := validateEntry(verb, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEntry(verb Verb, entry Entry) error {
	if entry.Path == "" {
		return &DescriptorError{Verb: verb, Path: entry.Path, Reason: "path is required"}
	}
	if len(entry.Handlers) == 0 {
		return &DescriptorError{Verb: verb, Path: entry.Path, Reason: "at least one handler is required"}
	}
	for i, h := range entry.Handlers {
		if h == nil {
			return &DescriptorError{Verb: verb, Path: entry.Path, Reason: fmt.Sprintf("handler %d is nil", i)}
		}
	}
	return nil
}
