package scanner

import (
	"context"
	"image"
)

// Constraints describe the camera a scan session asks for.
type Constraints struct {
	FacingMode string `json:"facingMode"`
	Audio      bool   `json:"audio"`
}

// RearCamera requests the rear-facing camera, video only.
var RearCamera = Constraints{FacingMode: "environment", Audio: false}

// Camera grants access to a video stream. Acquire blocks until the user
// answers the permission prompt or ctx is done.
type Camera interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is an acquired camera stream. Frames is closed when the device
// goes away; Tracks must all be stopped to release the device. A stream
// that failed, rather than being closed by its owner, may say so through an
// optional Err() error method.
type Stream interface {
	Frames() <-chan image.Image
	Tracks() []Track
}

// Track is one media track of a stream. Stop must be idempotent.
type Track interface {
	Stop()
}
