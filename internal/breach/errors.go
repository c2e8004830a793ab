package breach

import "errors"

// ErrNoAnswer is the skip reason used when a provider gives none.
var ErrNoAnswer = errors.New("provider gave no answer")
