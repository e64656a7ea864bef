package repohistory

import (
	"github.com/jmgilman/go/errors"
)

// ErrNilHistory is returned by Save when it is given a nil slice.
var ErrNilHistory = errors.New(errors.CodeInvalidInput, "repositories must not be nil")
