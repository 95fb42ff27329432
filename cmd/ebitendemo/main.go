// Command ebitendemo shows the widget gallery through the ebiten
// host, which works on every platform ebiten supports, including the
// browser.
package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hubastard/canopy/font"
	"github.com/hubastard/canopy/gfx/ebitenrender"
	"github.com/hubastard/canopy/gui"
	"golang.org/x/image/font/gofont/goregular"
)

type demo struct {
	counter int
	volume  float32
	name    string
}

func (d *demo) body(ui *gui.Ui) {
	ui.Heading("Widget gallery (ebiten)")
	ui.Separator()

	ui.Horizontal(func(row *gui.Ui) {
		if row.Button("Click me").Clicked {
			d.counter++
		}
		row.Label(fmt.Sprintf("clicked %d times", d.counter))
	})
	ui.Slider("Volume", &d.volume, 0, 1)
	ui.TextEdit("Name", &d.name)

	ui.CollapsingHeader("Long list", func(body *gui.Ui) {
		body.ScrollArea("rows", 180, func(list *gui.Ui) {
			for i := 0; i < 100; i++ {
				list.ScopeId(i, func(row *gui.Ui) {
					row.Label(fmt.Sprintf("row %d", i))
				})
			}
		})
	})
}

func main() {
	rast, err := font.NewOpenType(goregular.TTF, 16)
	if err != nil {
		log.Fatal(err)
	}
	ctx := gui.New(gui.Options{}, rast)

	d := &demo{volume: 0.5, name: "Ada"}
	host := ebitenrender.NewHost(ctx, d.body)

	ebiten.SetWindowSize(960, 640)
	ebiten.SetWindowTitle("canopy demo (ebiten)")
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
