// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/bureau-foundation/canvascast/lib/canvas"
)

// barGlyphs shade the bars from light to solid.
var barGlyphs = []rune{'░', '▒', '▓', '█'}

// pattern draws frame number tick: diagonal colour bars that shift one
// column per tick, a row of every style, and a centred banner.
func pattern(width, height, tick int) *canvas.Canvas {
	picture := canvas.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			band := (x + y + tick) / 2
			attr := canvas.Attr{
				Foreground: canvas.Color(band % 16),
				Background: canvas.Color((band / 16) % 8),
			}
			picture.Set(x, y, barGlyphs[(x+tick)%len(barGlyphs)], attr)
		}
	}

	if height > 2 {
		styles := []canvas.Style{canvas.Bold, canvas.Italic, canvas.Underline, canvas.Blink}
		for x := 0; x < width; x++ {
			picture.Set(x, height-1, rune('a'+x%26), canvas.Attr{
				Foreground: canvas.DefaultColor,
				Background: canvas.DefaultColor,
				Style:      styles[x%len(styles)],
			})
		}
	}

	banner := fmt.Sprintf(" canvascast %dx%d frame %d ", width, height, tick)
	bannerAttr := canvas.Attr{Foreground: 15, Background: 0, Style: canvas.Bold}
	x := (width - len(banner)) / 2
	if x < 0 {
		x = 0
	}
	picture.PutString(x, height/2, banner, bannerAttr)
	return picture
}
