// Package replay records frame timings to a compressed file and plays
// them back through a frame.Runner, reproducing the same game time.
//
// A replay file is a zstd stream of CBOR items: one Header followed by
// one Record per ticked frame.
package replay

import (
	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is written into every Header.
const FormatVersion = 2

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("replay: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("replay: CBOR decoder initialization failed: " + err.Error())
	}
}

// Header describes the loop a replay was recorded from.
type Header struct {
	Version       int     `cbor:"1,keyasint"`
	TargetFPS     float64 `cbor:"2,keyasint"`
	Multiplier    float64 `cbor:"3,keyasint"`
	StartWallTime int64   `cbor:"4,keyasint"` // unix nanos
	StartFrame    uint64  `cbor:"5,keyasint"`
}

// Record is a single frame. Times are nanoseconds.
type Record struct {
	Frame       uint64  `cbor:"1,keyasint"`
	WallTime    int64   `cbor:"2,keyasint"` // frame start, unix nanos
	ElapsedWall int64   `cbor:"3,keyasint"`
	ElapsedGame int64   `cbor:"4,keyasint"`
	Multiplier  float64 `cbor:"5,keyasint"` // the frame was ticked with
}
