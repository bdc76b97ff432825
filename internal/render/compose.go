package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Compose places the presentation, UI and picking layers side by side, each
// scaled into a width×height panel. Presentation and UI sit on a white
// background. The picking panel is scaled with nearest-neighbour sampling
// so its colors stay exact.
func Compose(width, height int, presentation, ui, picking image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width*3, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	panel := func(i int) image.Rectangle {
		return image.Rect(i*width, 0, (i+1)*width, height)
	}
	if presentation != nil {
		draw.ApproxBiLinear.Scale(dst, panel(0), presentation, presentation.Bounds(), draw.Over, nil)
	}
	if ui != nil {
		draw.ApproxBiLinear.Scale(dst, panel(1), ui, ui.Bounds(), draw.Over, nil)
	}
	if picking != nil {
		draw.NearestNeighbor.Scale(dst, panel(2), picking, picking.Bounds(), draw.Src, nil)
	}
	return dst
}

// Flatten draws layers over each other on a white background at the size
// of the first layer.
func Flatten(layers ...image.Image) *image.RGBA {
	if len(layers) == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	bounds := layers[0].Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
	return dst
}
