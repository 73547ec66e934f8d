package main

import (
	"image"

	"github.com/rookgb/dmgboy/internal/ppu"
	"github.com/rookgb/dmgboy/pkg/utils"
	"golang.org/x/image/draw"
)

// screenshotScale is the upscale factor applied before a frame is
// saved or copied, since the native 160x144 resolution is too small
// to be useful pasted directly into most image editors.
const screenshotScale = 4

// frameToImage renders a raw framebuffer through dmgPalette into a
// standard image.Image.
func frameToImage(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			img.Set(x, y, dmgPalette[frame[y][x]&3])
		}
	}
	return img
}

func upscale(src image.Image, scale int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// saveScreenshot prompts the user for a destination and writes the
// current frame there as a PNG.
func saveScreenshot(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) error {
	return utils.SaveImage(upscale(frameToImage(frame), screenshotScale))
}

// copyScreenshot puts the current frame on the system clipboard as
// an image, so it can be pasted directly into another application.
func copyScreenshot(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) error {
	return utils.CopyImage(upscale(frameToImage(frame), screenshotScale))
}
