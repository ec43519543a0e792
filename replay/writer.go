package replay

import (
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/go-glx/gametime/frame"
)

// Writer is a frame.TickObserver appending a Record for every ticked
// frame, failed frames included, so that a replay ticks the clock exactly
// as often as the recorded loop did. Observers cannot fail, so the first
// write error is kept and returned by Err and Close; later frames are
// dropped.
type Writer struct {
	mu sync.Mutex

	clock      *frame.GameClock
	multiplier float64

	zw  *zstd.Encoder
	enc *cbor.Encoder
	err error
	n   int
}

// HeaderOf describes a loop about to be recorded.
func HeaderOf(clock *frame.GameClock, counter frame.FrameCount) Header {
	return Header{
		Version:       FormatVersion,
		TargetFPS:     counter.TargetFrameRate(),
		Multiplier:    clock.Multiplier(),
		StartWallTime: clock.FrameWallTime().UnixNano(),
		StartFrame:    clock.CurrentFrameNumber(),
	}
}

// NewWriter starts recording the loop driven by clock and counter, and
// writes its Header to w. Close must be called to flush the stream; it
// does not close w.
func NewWriter(w io.Writer, clock *frame.GameClock, counter frame.FrameCount) (*Writer, error) {
	writer, err := newWriter(w, HeaderOf(clock, counter))
	if err != nil {
		return nil, err
	}

	writer.clock = clock
	return writer, nil
}

func newWriter(w io.Writer, header Header) (*Writer, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}

	writer := &Writer{
		multiplier: header.Multiplier,
		zw:         zw,
		enc:        encMode.NewEncoder(zw),
	}

	if err := writer.enc.Encode(header); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("failed to write replay header: %w", err)
	}

	return writer, nil
}

// ObserveTick records t together with the multiplier it was ticked with.
// Tick observers run before the frame function, so the clock still
// holds the multiplier this frame was ticked with.
func (w *Writer) ObserveTick(t frame.GameTime) {
	multiplier := w.multiplier
	if w.clock != nil {
		multiplier = w.clock.Multiplier()
	}

	_ = w.Write(Record{
		Frame:       t.FrameNumber(),
		WallTime:    t.FrameWallTime().UnixNano(),
		ElapsedWall: int64(t.ElapsedWallTime()),
		ElapsedGame: int64(t.ElapsedGameTime()),
		Multiplier:  multiplier,
	})
}

func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return w.err
	}

	if err := w.enc.Encode(rec); err != nil {
		w.err = fmt.Errorf("failed to write frame %d: %w", rec.Frame, err)
		return w.err
	}

	w.n++
	return nil
}

// Len is the number of records written.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.n
}

func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.err
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.zw.Close(); err != nil && w.err == nil {
		w.err = fmt.Errorf("failed to flush replay: %w", err)
	}

	return w.err
}
