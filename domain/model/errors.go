package model

import "errors"

var (
	ErrDeploymentInvalid = errors.New("deployment invalid")
	ErrNoWorkspace       = errors.New("no logging workspace configured")
)
