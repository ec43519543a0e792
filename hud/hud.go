// Package hud shows live frame loop statistics in a terminal.
package hud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/go-glx/gametime/frame"
)

const budgetBarWidth = 40

var (
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSlow    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWork    = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleTasks   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleIdle    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleOverrun = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

type (
	// HUD is a frame.Observer redrawing a small status panel after every
	// frame. The screen must already be initialized.
	HUD struct {
		mu     sync.Mutex
		screen tcell.Screen
		title  string
		every  uint64

		slowFrames uint64
	}

	HUDInitializer = func(*HUD)
)

func WithTitle(title string) HUDInitializer {
	return func(h *HUD) {
		h.title = title
	}
}

// WithRedrawEvery redraws only every n-th frame.
func WithRedrawEvery(n uint64) HUDInitializer {
	return func(h *HUD) {
		if n > 0 {
			h.every = n
		}
	}
}

func NewHUD(screen tcell.Screen, initializers ...HUDInitializer) *HUD {
	h := &HUD{
		screen: screen,
		title:  "gametime",
		every:  1,
	}

	for _, init := range initializers {
		init(h)
	}

	return h
}

func (h *HUD) ObserveFrame(stats frame.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if stats.RunningSlow {
		h.slowFrames++
	}

	if stats.FrameNumber%h.every != 0 {
		return
	}

	h.draw(stats)
}

func (h *HUD) draw(stats frame.Stats) {
	h.screen.Clear()

	drawText(h.screen, 1, 0, styleTitle, h.title)

	slow := "no"
	slowStyle := styleValue
	if stats.RunningSlow {
		slow = "yes"
		slowStyle = styleSlow
	}

	rows := []struct {
		label string
		value string
		style tcell.Style
	}{
		{"frame", fmt.Sprintf("%d", stats.FrameNumber), styleValue},
		{"fps", fmt.Sprintf("%.1f / %.1f", stats.AverageFPS, stats.TargetFPS), styleValue},
		{"slow", fmt.Sprintf("%s (%d frames)", slow, h.slowFrames), slowStyle},
		{"game", round(stats.FrameGameTime).String(), styleValue},
		{"elapsed", round(stats.ElapsedWallTime).String(), styleValue},
		{"work", round(stats.Frame.Duration).String(), styleValue},
		{"tasks", round(stats.Tasks.Duration).String(), styleValue},
		{"sleep", round(stats.ThrottleTime).String(), styleValue},
	}

	for i, row := range rows {
		drawText(h.screen, 1, i+2, styleLabel, row.label)
		drawText(h.screen, 10, i+2, row.style, row.value)
	}

	drawBudget(h.screen, 1, len(rows)+3, stats)
	drawText(h.screen, 1, len(rows)+5, styleLabel, "q: quit")

	h.screen.Show()
}

// drawBudget draws the frame period as a bar split into work, tasks and
// idle time.
func drawBudget(screen tcell.Screen, x, y int, stats frame.Stats) {
	if stats.FrameTimeLimit <= 0 {
		return
	}

	cells := func(d time.Duration) int {
		n := int(float64(d) / float64(stats.FrameTimeLimit) * budgetBarWidth)
		return min(max(n, 0), budgetBarWidth)
	}

	work := cells(stats.Frame.Duration)
	tasks := min(cells(stats.Tasks.Duration), budgetBarWidth-work)

	screen.SetContent(x, y, '[', nil, styleLabel)
	for i := 0; i < budgetBarWidth; i++ {
		ch, style := '░', styleIdle

		switch {
		case stats.FrameFreeTime < 0:
			ch, style = '█', styleOverrun
		case i < work:
			ch, style = '█', styleWork
		case i < work+tasks:
			ch, style = '█', styleTasks
		}

		screen.SetContent(x+1+i, y, ch, nil, style)
	}
	screen.SetContent(x+1+budgetBarWidth, y, ']', nil, styleLabel)
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}

// WatchQuit cancels the loop when q, Escape or Ctrl-C is pressed, and
// returns once that happened or ctx is done.
func WatchQuit(ctx context.Context, screen tcell.Screen, cancel context.CancelFunc) {
	events := make(chan tcell.Event, 8)
	go screen.ChannelEvents(events, ctx.Done())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}

			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC ||
				(key.Key() == tcell.KeyRune && key.Rune() == 'q') {
				cancel()
				return
			}
		}
	}
}
