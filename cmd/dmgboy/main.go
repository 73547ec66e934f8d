// Command dmgboy runs a Game Boy ROM in an SDL2 window. It is the
// reference host for the core in internal/gameboy: it owns the
// display, the keyboard, and the optional websocket stream and
// performance plot, none of which the core itself knows about.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rookgb/dmgboy/internal/gameboy"
	"github.com/rookgb/dmgboy/internal/joypad"
	"github.com/rookgb/dmgboy/internal/ppu"
	"github.com/rookgb/dmgboy/pkg/log"
	"github.com/rookgb/dmgboy/pkg/streaming"
	"github.com/rookgb/dmgboy/pkg/utils"
	"github.com/veandco/go-sdl2/sdl"
)

const defaultWindowScale = 4

func main() {
	webAddr := flag.String("web", "", "if set, also stream frames over websocket on this address (e.g. :8090)")
	perfPath := flag.String("perf", "", "if set, write a frame-time plot to this PNG path on exit")
	debug := flag.Bool("debug", false, "print CPU registers after a frame in which LD B,B ran")
	scale := flag.Int("scale", defaultWindowScale, "window scale factor, 1-8")
	flag.Parse()

	windowScale := utils.Clamp(1, *scale, 8)

	romPath := flag.Arg(0)
	if romPath == "" {
		picked, err := pickROM()
		if err != nil || picked == "" {
			fmt.Fprintln(os.Stderr, "usage: dmgboy [flags] <rom>")
			os.Exit(1)
		}
		romPath = picked
	}

	rom, err := loadROM(romPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var opts []gameboy.Opt
	opts = append(opts, gameboy.WithLogger(log.New()))
	if *debug {
		opts = append(opts, gameboy.WithDebug())
	}
	opts = append(opts, gameboy.WithSerialObserver(func(b byte) {
		fmt.Fprint(os.Stderr, string(rune(b)))
	}))

	gb := gameboy.New(opts...)
	if err := gb.LoadCartridge(rom); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var hub *streaming.Hub
	if *webAddr != "" {
		hub = streaming.NewHub()
		hub.OnButtons = gb.SetButtons
		go func() {
			if err := hub.ListenAndServe(*webAddr); err != nil {
				fmt.Fprintln(os.Stderr, "streaming:", err)
			}
		}()
	}

	var perf *perfTracker
	if *perfPath != "" {
		perf = newPerfTracker(3600)
	}

	if err := run(gb, hub, perf, windowScale); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if perf != nil {
		if err := perf.writePlot(*perfPath); err != nil {
			fmt.Fprintln(os.Stderr, "perf:", err)
		}
	}
}

func run(gb *gameboy.GameBoy, hub *streaming.Hub, perf *perfTracker, windowScale int) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("dmgboy",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(ppu.ScreenWidth*windowScale), int32(ppu.ScreenHeight*windowScale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Destroy()

	var mask uint8
	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)

	running := true
	for running {
		frameStart := time.Now()

		frame := gb.StepFrame()

		if gb.CPU.DebugBreakpoint {
			printRegisters(gb)
			gb.CPU.DebugBreakpoint = false
		}

		for y := 0; y < ppu.ScreenHeight; y++ {
			for x := 0; x < ppu.ScreenWidth; x++ {
				c := dmgPalette[frame[y][x]&3]
				i := (y*ppu.ScreenWidth + x) * 4
				pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = c.R, c.G, c.B, c.A
			}
		}
		if err := texture.Update(nil, pixels, ppu.ScreenWidth*4); err != nil {
			return fmt.Errorf("update texture: %w", err)
		}
		if hub != nil {
			hub.Broadcast(pixels)
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if button, ok := keyButton(e.Keysym.Sym); ok {
					if e.State == sdl.PRESSED {
						mask |= 1 << button
					} else {
						mask &^= 1 << button
					}
				}
				if e.State == sdl.PRESSED {
					switch e.Keysym.Sym {
					case sdl.K_ESCAPE:
						running = false
					case sdl.K_F2:
						snapshot := *frame
						go saveScreenshot(&snapshot)
					case sdl.K_F3:
						snapshot := *frame
						go copyScreenshot(&snapshot)
					}
				}
			}
		}
		gb.SetButtons(mask)

		if perf != nil {
			perf.record(time.Since(frameStart))
		}
	}

	return nil
}

// printRegisters dumps CPU state when LD B,B trips the debug
// breakpoint, in the same Z/N/H/C flag notation the teacher's own
// debug views used.
func printRegisters(gb *gameboy.GameBoy) {
	c := gb.CPU
	fmt.Fprintf(os.Stderr, "PC=%04X SP=%04X A=%02X F=%02X BC=%04X DE=%04X HL=%04X Z%s N%s H%s C%s\n",
		c.PC, c.SP, c.A, c.F, c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(),
		utils.BoolToString(c.F&0x80 != 0), utils.BoolToString(c.F&0x40 != 0),
		utils.BoolToString(c.F&0x20 != 0), utils.BoolToString(c.F&0x10 != 0))
}

// keyButton maps a keyboard key to the joypad button it stands in
// for. Cursor keys drive the d-pad; Z/X are A/B, as is conventional
// for single-handed keyboard play; Enter/RShift are Start/Select.
func keyButton(key sdl.Keycode) (joypad.Button, bool) {
	switch key {
	case sdl.K_UP:
		return joypad.ButtonUp, true
	case sdl.K_DOWN:
		return joypad.ButtonDown, true
	case sdl.K_LEFT:
		return joypad.ButtonLeft, true
	case sdl.K_RIGHT:
		return joypad.ButtonRight, true
	case sdl.K_z:
		return joypad.ButtonA, true
	case sdl.K_x:
		return joypad.ButtonB, true
	case sdl.K_RETURN:
		return joypad.ButtonStart, true
	case sdl.K_RSHIFT:
		return joypad.ButtonSelect, true
	}
	return 0, false
}
