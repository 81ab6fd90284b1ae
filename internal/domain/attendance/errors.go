package attendance

import "errors"

var (
	ErrInvalidPunch = errors.New("invalid punch time")
)
