package trace

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
)

const (
	colBack                 = "#fff"
	colText                 = "#001"
	colTimeline             = "#000"
	colTimelineStrokeSecond = "#111"
	colTimelineStrokeHalf   = "#333"
	colTimelineStroke100ms  = "#555"
	colTimelineStrokeBudget = "#999"
	colBlockThrottle        = "#777"
	colBlockFrame           = "#e40"
	colBlockTask            = "#02e"
	colBlockSlow            = "#c00"
)

const (
	sampleHeight   = float64(50)
	mainPaddingX   = float64(20)
	mainPaddingY   = float64(40)
	timeLineMargin = float64(4)
	infoHeight     = float64(15)
)

// Render draws the recorded frames. Every block is placed relative to the
// start of the oldest kept frame.
func (r *Recorder) Render() (image.Image, error) {
	dc, err := r.draw()
	if err != nil {
		return nil, err
	}

	return dc.Image(), nil
}

func (r *Recorder) SavePNG(path string) error {
	dc, err := r.draw()
	if err != nil {
		return err
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save trace %s: %w", path, err)
	}

	return nil
}

func (r *Recorder) draw() (*gg.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocks := blocksOf(r.frames)
	if len(blocks) == 0 {
		return nil, ErrNoFrames
	}

	widthPxPerMs := r.pxPerSecond / 1000
	startAt := blocks[0].StartAt
	endAt := startAt
	slowFrames := make(map[uint64]bool)

	for _, block := range blocks {
		if block.EndAt.After(endAt) {
			endAt = block.EndAt
		}
	}

	for _, stats := range r.frames {
		if stats.RunningSlow {
			slowFrames[stats.FrameNumber] = true
		}
	}

	xOf := func(at time.Time) float64 {
		return mainPaddingX + float64(at.Sub(startAt).Microseconds())/1000*widthPxPerMs
	}

	// calculate graph size
	timelineWidth := float64(endAt.Sub(startAt).Microseconds()) / 1000 * widthPxPerMs
	fullWidth := (mainPaddingX * 2) + timelineWidth
	timelineY := mainPaddingY + infoHeight + sampleHeight + timeLineMargin
	fullHeight := timelineY + timeLineMargin + mainPaddingY

	dc := gg.NewContext(int(fullWidth)+1, int(fullHeight))

	dc.SetHexColor(colBack)
	dc.Clear()

	// top info
	dc.SetHexColor(colText)
	infoText := fmt.Sprintf("%s: { frames: %d, target: %.1f/s, budget: %s }",
		r.title,
		len(r.frames),
		r.targetFPS,
		r.frameLimit,
	)
	dc.DrawStringAnchored(infoText, mainPaddingX, 15, 0, 0)

	// timeline
	dc.SetHexColor(colTimeline)
	dc.DrawLine(mainPaddingX, timelineY, mainPaddingX+timelineWidth, timelineY)
	dc.Stroke()

	drawStroke := func(interval time.Duration, color string, halfHeight float64, withText bool) {
		if interval <= 0 {
			return
		}

		curTime := time.Duration(0)
		step := float64(interval.Microseconds()) / 1000 * widthPxPerMs
		for x := mainPaddingX; x <= mainPaddingX+timelineWidth; x += step {
			dc.SetHexColor(color)
			dc.DrawLine(x, timelineY-halfHeight, x, timelineY+halfHeight)
			dc.SetLineWidth(1)
			if halfHeight >= 10 {
				// big line
				dc.SetLineWidth(2)
			}

			dc.Stroke()

			if withText {
				dc.DrawStringAnchored(fmt.Sprintf("%dms", curTime.Milliseconds()), x, timelineY+halfHeight+5, 0.5, 0.5)
			}

			curTime += interval
		}
	}

	drawStroke(time.Second, colTimelineStrokeSecond, 10, false)
	drawStroke(time.Millisecond*500, colTimelineStrokeHalf, 8, false)
	drawStroke(time.Millisecond*100, colTimelineStroke100ms, 4, true)
	drawStroke(r.frameLimit, colTimelineStrokeBudget, 1, false)

	// blocks
	for _, block := range blocks {
		color := colBlockThrottle
		switch block.Type {
		case BlockFrame:
			color = colBlockFrame
			if slowFrames[block.Frame] {
				color = colBlockSlow
			}
		case BlockTask:
			color = colBlockTask
		}

		dc.SetHexColor(color)
		dc.DrawRectangle(
			xOf(block.StartAt),
			timelineY-timeLineMargin-sampleHeight,
			float64(block.Duration().Microseconds())/1000*widthPxPerMs,
			sampleHeight,
		)
		dc.Fill()
	}

	return dc, nil
}
