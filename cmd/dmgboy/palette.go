package main

import "image/color"

// dmgPalette maps the core's four palette-agnostic colour indices
// (0 = lightest, 3 = darkest) to the shades of green most people
// associate with the original hardware's LCD. The core itself never
// makes this choice; a host is free to pick any four colours here.
var dmgPalette = [4]color.RGBA{
	{0x9B, 0xBC, 0x0F, 0xFF},
	{0x8B, 0xAC, 0x0F, 0xFF},
	{0x30, 0x62, 0x30, 0xFF},
	{0x0F, 0x38, 0x0F, 0xFF},
}
