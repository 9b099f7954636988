package calendarview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/username/vacation-calendar/pkg/palette"
)

const (
	imageMargin  = 10
	titleHeight  = 36
	headerHeight = 24
	swatchTop    = 22
	swatchHeight = 16
	swatchGap    = 2

	titleSize = 18
	textSize  = 12
)

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorEmptyCell  = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}
	colorHoliday    = color.RGBA{0xff, 0xd1, 0xd1, 0xff}
	colorHolidayRim = color.RGBA{0xe5, 0x39, 0x35, 0xff}
	colorGrid       = color.RGBA{0xbd, 0xbd, 0xbd, 0xff}
	colorText       = color.RGBA{0x21, 0x21, 0x21, 0xff}
	colorMuted      = color.RGBA{0x75, 0x75, 0x75, 0xff}
	colorSwatch     = color.RGBA{0x6e, 0xc6, 0xff, 0xff}
)

var (
	facesOnce sync.Once
	titleFace font.Face
	textFace  font.Face
)

// faces returns the title and body faces. Go Regular covers Latin-1, so Spanish
// names and the Mié/Sáb headers draw correctly; the ASCII-only basic face is a
// last-resort fallback.
func faces() (font.Face, font.Face) {
	facesOnce.Do(func() {
		titleFace, textFace = basicfont.Face7x13, basicfont.Face7x13

		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		title, err := opentype.NewFace(f, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		text, err := opentype.NewFace(f, &opentype.FaceOptions{Size: textSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		titleFace, textFace = title, text
	})
	return titleFace, textFace
}

// ImageSize returns the pixel size of a rendered month
func ImageSize(month *Month, opts Options) (int, int) {
	opts = opts.withDefaults()
	w := 2*imageMargin + 7*opts.CellWidth
	h := 2*imageMargin + titleHeight + headerHeight + len(month.Weeks)*opts.CellHeight
	return w, h
}

// Rasterize draws the month grid into an RGBA image
func Rasterize(month *Month, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	w, h := ImageSize(month, opts)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), colorBackground)

	title, face := faces()
	drawText(img, title, imageMargin, imageMargin+22, month.Title, colorText)

	headerY := imageMargin + titleHeight
	for i, name := range month.Headers {
		x := imageMargin + i*opts.CellWidth
		drawText(img, face, x+opts.CellWidth/2-textWidth(face, name)/2, headerY+16, name, colorMuted)
	}

	gridY := headerY + headerHeight
	for row, week := range month.Weeks {
		for col, cell := range week {
			x := imageMargin + col*opts.CellWidth
			y := gridY + row*opts.CellHeight
			drawCell(img, face, image.Rect(x, y, x+opts.CellWidth, y+opts.CellHeight), cell)
		}
	}

	return img
}

// RenderPNG rasterizes the month and encodes it as PNG
func RenderPNG(month *Month, w io.Writer, opts Options) error {
	if err := png.Encode(w, Rasterize(month, opts)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawCell(img *image.RGBA, face font.Face, r image.Rectangle, cell Cell) {
	switch {
	case cell.IsEmpty:
		fillRect(img, r, colorEmptyCell)
		strokeRect(img, r, colorGrid, 1)
		return
	case cell.IsHoliday:
		fillRect(img, r, colorHoliday)
		strokeRect(img, r.Inset(1), colorHolidayRim, 2)
	default:
		fillRect(img, r, colorBackground)
	}
	strokeRect(img, r, colorGrid, 1)

	drawText(img, face, r.Min.X+6, r.Min.Y+15, strconv.Itoa(cell.Day), colorText)

	y := r.Min.Y + swatchTop
	for _, label := range cell.Labels {
		swatch := image.Rect(r.Min.X+4, y, r.Max.X-4, y+swatchHeight)
		fillRect(img, swatch, palette.RGBA(label.Color, colorSwatch))
		drawText(img, face, swatch.Min.X+4, swatch.Min.Y+12, label.Text, colorText)
		y += swatchHeight + swatchGap
	}

	if cell.Overflow > 0 {
		more := fmt.Sprintf("+%d", cell.Overflow)
		drawText(img, face, r.Max.X-6-textWidth(face, more), r.Min.Y+15, more, colorMuted)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color, width int) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawText(img *image.RGBA, face font.Face, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func textWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}
