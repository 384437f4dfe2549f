package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kaleido/audio"
	"github.com/lixenwraith/kaleido/config"
	"github.com/lixenwraith/kaleido/engine"
	"github.com/lixenwraith/kaleido/plugin"
)

var (
	configFlag = flag.String("config", "", "Path to a configuration file (YAML/TOML/JSON)")
	inputFlag  = flag.String("input", "", "Path to a WAV file to visualize (loops)")
	toneFlag   = flag.Float64("tone", 0, "Demo mode: synthesize a sine at this frequency instead of reading input")
	playFlag   = flag.Bool("play", false, "Also play the input file through the system output")
	seedFlag   = flag.Int64("seed", time.Now().UnixNano(), "Particle RNG seed")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	reg := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Plugin registration failed: %v\n", err)
		os.Exit(1)
	}

	var source audio.Source
	if *toneFlag > 0 {
		source, err = audio.NewTone(cfg.SampleRate, *toneFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Tone generator failed: %v (continuing without audio)\n", err)
			source = audio.NewSilent(cfg.SampleRate)
		}
	} else {
		source, err = audio.Open(*inputFlag, cfg.SampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Audio open failed: %v (continuing without audio)\n", err)
		}
	}
	defer source.Close()

	if *playFlag && *inputFlag != "" {
		if stop, err := audio.Monitor(*inputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Playback failed: %v (continuing without audio playback)\n", err)
		} else {
			defer stop()
		}
	}

	renderer, err := newTermRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Panic recovery: reset the terminal before the stack trace so it stays
	// readable.
	defer func() {
		if r := recover(); r != nil {
			renderer.Fini()
			fmt.Fprintf(os.Stderr, "\nKALEIDO CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer renderer.Fini()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	pipeline, err := engine.New(cfg, reg, source, renderer, *seedFlag, logger)
	if err != nil {
		renderer.Fini()
		fmt.Fprintf(os.Stderr, "Pipeline setup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				renderer.Fini()
				fmt.Fprintf(os.Stderr, "\r\nPIPELINE CRASHED: %v\r\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
				os.Exit(1)
			}
		}()
		runDone <- pipeline.Run(ctx)
	}()

	for {
		ev := renderer.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			renderer.screen.Sync()
		case *tcell.EventKey:
			if !handleKey(ev, pipeline) {
				pipeline.Stop()
				<-runDone
				return
			}
		case nil:
			// Screen closed underneath us.
			pipeline.Stop()
			<-runDone
			return
		}
	}
}

// handleKey processes one key event; returns false to quit.
func handleKey(ev *tcell.EventKey, p *engine.Pipeline) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			p.TogglePause()
		case 'm', 'M':
			p.CycleSymmetryMode()
		case 'r', 'R':
			if err := p.ResetDefaults(); err != nil {
				log.Printf("reset failed: %v", err)
			}
		}
	}
	return true
}
