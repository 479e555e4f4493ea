package config

import (
	"errors"
	"fmt"
)

var ErrMissingEnv = errors.New("missing required env")

// Require checks that every named variable holds a value and reports all
// missing ones at once.
func Require(vars map[string][]byte) error {
	var errs []error
	for name, v := range vars {
		if len(v) == 0 {
			errs = append(errs, fmt.Errorf("%w %s", ErrMissingEnv, name))
		}
	}
	return errors.Join(errs...)
}
