package platform

import "github.com/pkg/errors"

// ErrCaptureFailed is returned by CaptureBuffer when the backend cannot
// allocate a snapshot buffer. Transactions tolerate this and proceed without
// a snapshot for the affected surface.
var ErrCaptureFailed = errors.New("platform: buffer capture failed")
