//go:build !linux && !windows

package platform

import "errors"

// NewNativeBackend is unsupported here; use a fixture instead.
func NewNativeBackend() (Query, func(), error) {
	return nil, nil, errors.New("no native window system backend on this platform; use --fixture")
}
