package debug

import (
	"fmt"
	"runtime"
	"strings"

	"game-engine/internal/engine"
	"game-engine/internal/gpu"
	"game-engine/internal/logger"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
	// maxWarningLen truncates the last warning line.
	maxWarningLen = 96
)

var (
	green  = gpu.Color{0, 0.89, 0.19, 1}
	yellow = gpu.Color{0.99, 0.98, 0, 1}
)

// Overlay draws runtime debugging text (FPS, heap, last warning) in the top-right corner.
// Stats come from the engine loop; nothing here is global.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	// ShowWarnings draws the most recent warning logged through log.
	ShowWarnings bool

	stats       *engine.FrameStats
	log         *logger.Logger
	frameCount  uint32
	lastFpsText string
	lastMemText string
	lastWarning string
	memStats    runtime.MemStats
}

// New returns an overlay reading stats and log, with all overlays hidden.
func New(stats *engine.FrameStats, log *logger.Logger) *Overlay {
	return &Overlay{stats: stats, log: log}
}

// Toggle flips every overlay on or off together (bound to F3).
func (d *Overlay) Toggle() {
	on := !(d.ShowFPS || d.ShowMemAlloc || d.ShowWarnings)
	d.ShowFPS, d.ShowMemAlloc, d.ShowWarnings = on, on, on
}

// Lines returns the text currently shown, top to bottom.
func (d *Overlay) Lines() []string {
	var out []string
	if d.ShowFPS && d.lastFpsText != "" {
		out = append(out, d.lastFpsText)
	}
	if d.ShowMemAlloc && d.lastMemText != "" {
		out = append(out, d.lastMemText)
	}
	if d.ShowWarnings && d.lastWarning != "" {
		out = append(out, d.lastWarning)
	}
	return out
}

// Draw renders the enabled overlays for a surface of the given pixel width. Call last in the
// frame. Text is only recomputed every updateInterval frames to limit allocations.
func (d *Overlay) Draw(dev gpu.Device, width int) {
	d.refresh()
	y := int32(fpsPadding)
	draw := func(text string, c gpu.Color) {
		w := dev.MeasureText(text, fpsFontSize)
		dev.DrawText(text, int32(width)-w-fpsPadding, y, fpsFontSize, c)
		y += fpsLineHeight
	}
	if d.ShowFPS && d.lastFpsText != "" {
		draw(d.lastFpsText, green)
	}
	if d.ShowMemAlloc && d.lastMemText != "" {
		draw(d.lastMemText, green)
	}
	if d.ShowWarnings && d.lastWarning != "" {
		draw(d.lastWarning, yellow)
	}
}

func (d *Overlay) refresh() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") {
		update = true
	}
	if !update {
		return
	}
	if d.ShowFPS && d.stats != nil {
		d.lastFpsText = fmt.Sprintf("FPS: %d", d.stats.FPS)
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		mb := float64(d.memStats.Alloc) / (1024 * 1024)
		d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
	}
	if d.ShowWarnings && d.log != nil {
		d.lastWarning = lastWarning(d.log.Lines())
	}
}

func lastWarning(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "WARN") {
			line := strings.ReplaceAll(lines[i], "\t", " ")
			if len(line) > maxWarningLen {
				line = line[:maxWarningLen-3] + "..."
			}
			return line
		}
	}
	return ""
}
