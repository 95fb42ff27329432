// Command demo opens a native window and shows the widget gallery
// through the GLFW + OpenGL host. Collapsed headers and scroll
// positions are saved next to the binary and restored on the next run.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gfx/glrender"
	"github.com/hubastard/canopy/gui"
	"github.com/hubastard/canopy/paint"
	"github.com/hubastard/canopy/platform"
	"golang.org/x/image/font/gofont/goregular"
)

const stateFile = "demo_state.toml"

type demo struct {
	counter int
	extras  bool
	volume  float32
	name    string
}

func (d *demo) body(ui *gui.Ui) {
	ui.Heading("Widget gallery")
	ui.Separator()

	ui.Horizontal(func(row *gui.Ui) {
		if row.Button("Click me").Clicked {
			d.counter++
		}
		row.Label(fmt.Sprintf("clicked %d times", d.counter))
	})
	ui.Checkbox("Enable extras", &d.extras)
	ui.Slider("Volume", &d.volume, 0, 1)
	ui.TextEdit("Name", &d.name)
	ui.Separator()

	ui.CollapsingHeader("About", func(body *gui.Ui) {
		body.Label("Widgets are declared every frame; only the interaction " +
			"state in Memory persists between frames.")
		body.WeakLabel("Collapse this header and restart: the demo remembers.")
	})
	ui.CollapsingHeader("Long list", func(body *gui.Ui) {
		body.ScrollArea("rows", 180, func(list *gui.Ui) {
			for i := 0; i < 100; i++ {
				list.ScopeId(i, func(row *gui.Ui) {
					row.Label(fmt.Sprintf("row %d", i))
				})
			}
		})
	})
	if d.extras {
		ui.Separator()
		ui.ColoredLabel("Extras enabled", paint.Yellow)
	}
}

func main() {
	win, err := platform.New(platform.Config{
		Title:  "canopy demo",
		Width:  960,
		Height: 640,
		VSync:  true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer win.Destroy()

	rend, err := glrender.New()
	if err != nil {
		log.Fatal(err)
	}
	defer rend.Destroy()

	rast, err := font.NewOpenType(goregular.TTF, 16)
	if err != nil {
		log.Fatal(err)
	}
	ctx := gui.New(gui.Options{}, rast)

	if data, err := os.ReadFile(stateFile); err == nil {
		if err := ctx.Memory().Restore(data); err != nil {
			log.Printf("discarding saved state: %v", err)
		}
	}

	d := &demo{volume: 0.5, name: "Ada"}
	background := paint.RGB(20, 22, 26)

	for !win.ShouldClose() {
		raw := win.PollInput()
		out := ctx.RunFrame(raw, d.body)
		win.ApplyOutput(out.Platform)

		fbW, fbH := win.FramebufferSize()
		rend.Clear(background)
		rend.Paint(out, fbW, fbH)
		win.SwapBuffers()
	}

	if data, err := ctx.Memory().Serialize(); err == nil {
		if err := os.WriteFile(stateFile, data, 0o644); err != nil {
			log.Printf("save state: %v", err)
		}
	}
}
