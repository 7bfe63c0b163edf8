package domain

import "errors"

var (
	ErrTaskNotFound          = errors.New("generation task not found")
	ErrInvalidGenerationType = errors.New("invalid generation type")
	ErrMissingBusinessName   = errors.New("prompts.business_name is required")
	ErrMissingDescription    = errors.New("prompts.description is required")
)
