package domain

import "errors"

var ErrInvalidSelection = errors.New("invalid selection")
var ErrUserNotFound = errors.New("user not found")
var ErrUpstream = errors.New("presence api unavailable")
var ErrUnknownView = errors.New("unknown dashboard view")
var ErrSessionNotFound = errors.New("dashboard session not found")
