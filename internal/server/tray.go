//go:build windows

package server

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// TrayApp represents system tray application
type TrayApp struct {
	url      string
	shutdown func()
	logger   *zap.Logger
	quit     chan struct{}
	once     sync.Once
}

// NewTrayApp creates a new system tray application. shutdown stops the HTTP server.
func NewTrayApp(url string, shutdown func(), logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		url:      url,
		shutdown: shutdown,
		logger:   logger,
		quit:     make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(calendarIcon())
	systray.SetTitle("Vacaciones")
	systray.SetTooltip("Calendario de Vacaciones - " + t.url)

	mOpen := systray.AddMenuItem("Abrir calendario", "Abrir el tablero en el navegador")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Salir", "Detener el servidor")

	go func() {
		for {
			select {
			case <-mOpen.ClickedCh:
				t.logger.Info("Open clicked from tray")
				if err := exec.Command("rundll32", "url.dll,FileProtocolHandler", t.url).Start(); err != nil {
					t.logger.Warn("Failed to open browser", zap.Error(err))
				}
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.shutdown()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	t.once.Do(func() { close(t.quit) })
}

// calendarIcon draws a 32x32 calendar glyph wrapped in a single-image ICO container
func calendarIcon() []byte {
	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0xff, 0xff, 0xff, 0xff}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, size, 9), image.NewUniform(color.RGBA{0xe5, 0x39, 0x35, 0xff}), image.Point{}, draw.Src)
	for i, c := range []color.RGBA{{0x6e, 0xc6, 0xff, 0xff}, {0x81, 0xc7, 0x84, 0xff}, {0xff, 0xcc, 0x80, 0xff}} {
		y := 12 + i*7
		draw.Draw(img, image.Rect(4, y, size-4, y+5), image.NewUniform(c), image.Point{}, draw.Src)
	}

	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return nil
	}

	var ico bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image
	_ = binary.Write(&ico, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY with the PNG stored inline right after the header
	ico.Write([]byte{size, size, 0, 0})
	_ = binary.Write(&ico, binary.LittleEndian, [2]uint16{1, 32})
	_ = binary.Write(&ico, binary.LittleEndian, [2]uint32{uint32(payload.Len()), 6 + 16})
	ico.Write(payload.Bytes())
	return ico.Bytes()
}
