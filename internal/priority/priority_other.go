//go:build !linux

package priority

import "errors"

func apply(c Class) (Result, error) {
	if c == Normal {
		return Result{Class: c}, nil
	}
	return Result{Class: c}, errors.New("scheduling classes are only supported on linux")
}
