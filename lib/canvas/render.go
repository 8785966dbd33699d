// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// LineEnd terminates every rendered row, including the last one.
const LineEnd = "\r\n"

// Render returns the ANSI representation of the canvas. Control
// characters are drawn as spaces so a canvas can never inject its own
// escape sequences.
func Render(canvas *Canvas) []byte {
	var out bytes.Buffer
	out.Grow(canvas.Width*canvas.Height*2 + canvas.Height*16)

	for y := 0; y < canvas.Height; y++ {
		row := canvas.Cells[y*canvas.Width : (y+1)*canvas.Width]
		for x, cell := range row {
			if x == 0 || cell.Attr != row[x-1].Attr {
				out.WriteString(sgr(cell.Attr))
			}
			out.WriteRune(printable(cell.Rune))
		}
		out.WriteString(ansi.ResetStyle)
		out.WriteString(LineEnd)
	}
	return out.Bytes()
}

// sgr returns the select-graphic-rendition sequence that sets attr from
// a clean state.
func sgr(attr Attr) string {
	params := []string{"0"}
	if attr.Style&Bold != 0 {
		params = append(params, "1")
	}
	if attr.Style&Italic != 0 {
		params = append(params, "3")
	}
	if attr.Style&Underline != 0 {
		params = append(params, "4")
	}
	if attr.Style&Blink != 0 {
		params = append(params, "5")
	}
	if attr.Foreground != DefaultColor {
		params = append(params, termenv.ANSIColor(attr.Foreground).Sequence(false))
	}
	if attr.Background != DefaultColor {
		params = append(params, termenv.ANSIColor(attr.Background).Sequence(true))
	}
	return termenv.CSI + strings.Join(params, ";") + "m"
}

func printable(r rune) rune {
	if r < 0x20 || (r >= 0x7f && r < 0xa0) {
		return ' '
	}
	return r
}
