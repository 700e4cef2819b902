// demo draws boxes, colors and text with a tuikit Graphics and follows the
// mouse. Press s to save a snapshot, q or ctrl+c to quit.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/exp/slog"

	"git.sr.ht/~tuikit/tuikit"
	"git.sr.ht/~tuikit/tuikit/log"
	"git.sr.ht/~tuikit/tuikit/snapshot"
)

type model struct {
	term    *tuikit.Terminal
	stroke  tuikit.Stroke
	mouse   tuikit.MouseMove
	clicks  int
	last    string
	now     time.Time
	shot    string
	focused bool
}

func (m *model) update(ev tuikit.Event) {
	switch ev := ev.(type) {
	case tuikit.Key:
		if ev.Matches('c', tuikit.ModCtrl) {
			m.term.Quit()
			return
		}
		m.last = ev.String()
	case tuikit.Typed:
		switch ev.Char {
		case 'q':
			m.term.Quit()
			return
		case 'b':
			m.stroke = (m.stroke + 1) % 3
		case 's':
			m.save()
		}
		m.last = string(ev.Char)
	case tuikit.MouseMove:
		m.mouse = ev
	case tuikit.MouseDrag:
		m.mouse = tuikit.MouseMove{X: ev.X, Y: ev.Y, Col: ev.Col, Row: ev.Row}
	case tuikit.MouseClick:
		m.clicks += ev.Count
		m.last = fmt.Sprintf("click x%d", ev.Count)
	case tuikit.Paste:
		m.last = fmt.Sprintf("paste of %d bytes", len(ev.Text))
	case tuikit.FocusIn:
		m.focused = true
	case tuikit.FocusOut:
		m.focused = false
	case tuikit.Resize:
		m.last = fmt.Sprintf("resize %dx%d", ev.Cols, ev.Rows)
	}
	m.draw()
}

func (m *model) save() {
	if m.shot == "" {
		return
	}
	f, err := os.Create(m.shot)
	if err != nil {
		log.Error("snapshot: %v", err)
		return
	}
	defer f.Close()
	img := snapshot.Render(m.term.Grid(), snapshot.Options{ColorMode: m.term.ColorMode()})
	if err := snapshot.EncodePNG(f, img); err != nil {
		log.Error("snapshot: %v", err)
		return
	}
	log.Info("snapshot saved to %s", m.shot)
}

func (m *model) draw() {
	m.term.Grid().Clear()
	rows, cols := m.term.Size()
	gfx := m.term.Graphics()
	gfx.SetStroke(m.stroke)
	gfx.SetForeground(tuikit.Palette16Color(12))
	gfx.DrawRoundedRect(0, 0, cols, rows)
	gfx.SetForeground(0)
	gfx.DrawString(2, 0, " tuikit demo ", tuikit.AttrBold)

	body := gfx.Create(2, 2, cols-4, rows-4)
	for i := 0; i < 16; i += 1 {
		body.SetBackground(tuikit.Palette16Color(uint8(i)))
		body.FillRect(i*2, 0, 2, 1)
	}
	for i := 0; i < 24; i += 1 {
		body.SetBackground(tuikit.IndexColor(uint8(232 + i)))
		body.FillRect(i*2, 1, 2, 1)
	}
	for i := 0; i < 48; i += 1 {
		v := uint8(i * 255 / 47)
		body.SetBackground(tuikit.RGBColor(v, 0x40, 0xff-v))
		body.FillRect(i, 2, 1, 1)
	}
	body.SetBackground(0)

	styles := []struct {
		name string
		attr tuikit.AttributeMask
	}{
		{"bold", tuikit.AttrBold},
		{"dim", tuikit.AttrDim},
		{"italic", tuikit.AttrItalic},
		{"underline", tuikit.AttrUnderline},
		{"double", tuikit.AttrDoubleUnderline},
		{"blink", tuikit.AttrBlink},
		{"inverse", tuikit.AttrInverse},
		{"crossed", tuikit.AttrCrossedOut},
	}
	col := 0
	for _, s := range styles {
		col += body.DrawString(col, 4, s.name, s.attr) + 1
	}
	body.DrawString(0, 5, "wide: 日本語 emoji: 👍 combining: é")

	body.SetStroke(tuikit.StrokeDouble)
	body.DrawRect(0, 7, 30, 5)
	inner := body.Create(1, 8, 28, 3)
	inner.DrawString(0, 0, fmt.Sprintf("mouse %d,%d", m.mouse.Col, m.mouse.Row))
	inner.DrawString(0, 1, fmt.Sprintf("clicks %d  focus %v", m.clicks, m.focused))
	inner.DrawString(0, 2, "last "+m.last)

	gfx.SetForeground(tuikit.Palette16Color(8))
	status := fmt.Sprintf(" %s  %s  b:border s:snapshot q:quit ", m.now.Format("15:04:05"), m.term.ColorMode())
	gfx.DrawString(2, rows-1, status)

	gfx.SetForeground(0)
	gfx.SetAttributes(tuikit.AttrInverse)
	if m.mouse.X > 0 {
		gfx.DrawChar(m.mouse.Col, m.mouse.Row, '+')
	}

	if err := m.term.Flush(); err != nil {
		log.Error("flush: %v", err)
	}
}

func main() {
	var (
		logFile string
		shot    string
		sync    bool
	)
	flag.StringVar(&logFile, "log", "", "write logs to `file`")
	flag.StringVar(&shot, "snapshot", "tuikit.png", "save snapshots to `file`")
	flag.BoolVar(&sync, "sync", false, "use synchronized output")
	flag.Parse()

	opts := tuikit.Options{
		MouseMode:          tuikit.MouseMotion,
		SynchronizedUpdate: sync,
	}
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		opts.Logger = slog.New(tint.NewHandler(f, &tint.Options{
			AddSource:  true,
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		}))
	}

	term, err := tuikit.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer term.Close()
	term.SetTitle("tuikit demo")

	m := &model{
		term: term,
		shot: shot,
		now:  time.Now(),
	}

	// Tick the clock on the event loop
	done := make(chan struct{})
	defer close(done)
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-tick.C:
				term.Invoke(func() {
					m.now = now
					m.draw()
				})
			}
		}
	}()

	m.draw()
	term.Run(m.update)
}
