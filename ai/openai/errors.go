package openai

import "errors"

// ErrEmptyResponse indicates the API returned no completion choices.
var ErrEmptyResponse = errors.New("openai: empty response from model")
