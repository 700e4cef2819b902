// keys prints every event decoded from the terminal input. It is useful to
// see what a terminal sends for a key or mouse action. Press ctrl+c to quit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lmittmann/tint"
	"golang.org/x/exp/slog"

	"git.sr.ht/~tuikit/tuikit"
	"git.sr.ht/~tuikit/tuikit/log"
)

func describe(ev tuikit.Event) string {
	switch ev := ev.(type) {
	case tuikit.Key:
		return fmt.Sprintf("Key %s", ev)
	case tuikit.Typed:
		return fmt.Sprintf("Typed %q mods=%d", ev.Char, ev.Modifiers)
	case tuikit.Paste:
		return fmt.Sprintf("Paste %q", ev.Text)
	default:
		return fmt.Sprintf("%T %+v", ev, ev)
	}
}

func main() {
	var (
		logFile string
		trace   bool
		motion  bool
	)
	flag.StringVar(&logFile, "log", "", "write logs to `file`")
	flag.BoolVar(&trace, "trace", false, "log at trace level")
	flag.BoolVar(&motion, "motion", false, "report mouse motion without a button held")
	flag.Parse()

	opts := tuikit.Options{
		MouseMode: tuikit.MouseDrags,
	}
	if motion {
		opts.MouseMode = tuikit.MouseMotion
	}
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		level := slog.LevelDebug
		if trace {
			level = log.LevelTrace
		}
		opts.Logger = slog.New(tint.NewHandler(f, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		}))
	}

	term, err := tuikit.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer term.Close()
	term.SetTitle("keys")

	lines := []string{"press keys, ctrl+c quits"}
	draw := func() {
		g := term.Grid()
		g.Clear()
		gfx := term.Graphics()
		rows, _ := term.Size()
		start := 0
		if len(lines) > rows {
			start = len(lines) - rows
		}
		for i, line := range lines[start:] {
			gfx.DrawString(0, i, line)
		}
		if err := term.Flush(); err != nil {
			log.Error("flush: %v", err)
		}
	}
	draw()
	term.Run(func(ev tuikit.Event) {
		if key, ok := ev.(tuikit.Key); ok && key.Matches('c', tuikit.ModCtrl) {
			term.Quit()
			return
		}
		lines = append(lines, describe(ev))
		draw()
	})
}
