package main

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Common colors used in rendering
var (
	colorBackground = color.RGBA{24, 24, 24, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorGray       = color.RGBA{180, 180, 180, 255}
	colorLightGray  = color.RGBA{192, 192, 192, 255}
	colorYellow     = color.RGBA{255, 255, 100, 255}
	colorCyan       = color.RGBA{100, 255, 255, 255}
	colorLightBlue  = color.RGBA{200, 200, 255, 255}
	colorGreen      = color.RGBA{100, 255, 100, 255}
	colorOrange     = color.RGBA{255, 200, 100, 255}
	colorLightRed   = color.RGBA{255, 150, 150, 255}
	colorButton     = color.RGBA{60, 60, 60, 255}
	colorToolbar    = color.RGBA{36, 36, 36, 240}
	colorEmpty      = color.RGBA{48, 48, 48, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const (
	toolbarFontSize = 14.0
	minHelpFontSize = 12.0
	helpPadding     = 40.0
	maxHelpWarnings = 2
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) (*Renderer, error) {
	if _, err := FontSource(); err != nil {
		return nil, err
	}
	return &Renderer{renderState: renderState}, nil
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	rs := r.renderState

	if rs.IsLibraryMode() {
		r.drawLibrary(screen)
	} else {
		r.drawPages(screen)
		if !rs.GetReadingState().DirectoryLoaded && !rs.IsLoading() {
			r.drawCenteredMessage(screen, "Drop a folder or comic archive here, or press O", colorGray)
		}
	}

	switch {
	case rs.IsWaitingForFolder():
		r.drawCenteredMessage(screen, "Waiting for a folder drop (Escape cancels)", colorWhite)
	case rs.IsLoading():
		r.drawCenteredMessage(screen, "Loading...", colorWhite)
	}

	if rs.IsShowingInfo() && !rs.IsLibraryMode() && rs.GetReadingState().DirectoryLoaded {
		r.drawInfoDisplay(screen)
	}
	if rs.IsToolbarVisible() {
		r.drawToolbar(screen)
	}
	if rs.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}
	if rs.IsInPageInputMode() {
		r.drawPageInputOverlay(screen)
	}
	if rs.GetOverlayMessage() != "" && time.Since(rs.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// drawPages draws both slots. In two-page view the pages meet at the gutter.
func (r *Renderer) drawPages(screen *ebiten.Image) {
	twoPages := r.renderState.GetReadingState().PagesPerView == 2
	regions := r.renderState.GetSlotRegions()

	for slot := Slot(0); slot < slotCount; slot++ {
		img := r.renderState.GetSlotImage(slot)
		if img == nil {
			continue
		}
		align := 0
		if twoPages {
			if slot == SlotLeft {
				align = 1
			} else {
				align = -1
			}
		}
		b := img.Bounds()
		rect, _ := FitRect(regions[slot], b.Dx(), b.Dy(), align, r.renderState.IsFullscreen())
		DrawImageInRect(screen, img, rect)
	}
}

func (r *Renderer) drawLibrary(screen *ebiten.Image) {
	font := FontFace(toolbarFontSize)
	screenH := float64(screen.Bounds().Dy())

	for _, cell := range r.renderState.GetLibraryCells() {
		if cell.Rect.Y+cell.Rect.H < 0 || cell.Rect.Y > screenH {
			continue
		}
		thumbArea := Rect{X: cell.Rect.X, Y: cell.Rect.Y, W: cell.Rect.W, H: float64(thumbnailHeight)}
		if cell.Thumb != nil {
			b := cell.Thumb.Bounds()
			rect, _ := FitRect(thumbArea, b.Dx(), b.Dy(), 0, false)
			DrawImageInRect(screen, cell.Thumb, rect)
		} else {
			DrawFilledRect(screen, thumbArea.X, thumbArea.Y, thumbArea.W, thumbArea.H, colorEmpty)
		}
		label := truncateText(cell.Name, font, cell.Rect.W)
		labelX := cell.Rect.X + (cell.Rect.W-MeasureText(label, font))/2
		DrawText(screen, label, font, labelX, thumbArea.Y+thumbArea.H+4, colorLightGray)
	}
}

func (r *Renderer) drawToolbar(screen *ebiten.Image) {
	font := FontFace(toolbarFontSize)
	toolbar := r.renderState.GetToolbar()
	w := float64(screen.Bounds().Dx())
	toolbar.Layout(w, func(s string) float64 { return MeasureText(s, font) })

	DrawFilledRect(screen, 0, 0, w, toolbar.Height(), colorToolbar)
	for _, b := range toolbar.Buttons() {
		DrawFilledRect(screen, b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, colorButton)
		DrawText(screen, b.Label, font, b.Rect.X+toolbarPadding, b.Rect.Y+4, colorWhite)
	}

	// Current settings at the right end of the bar
	st := r.renderState.GetReadingState()
	status := fmt.Sprintf("%s  %s  %d  %s", st.Direction, st.Parity, st.PagesPerView, r.renderState.GetSortMethodName())
	statusX := w - MeasureText(status, font) - toolbarPadding
	if buttons := toolbar.Buttons(); len(buttons) > 0 {
		last := buttons[len(buttons)-1].Rect
		if statusX < last.X+last.W+toolbarGap {
			return // no room on narrow windows
		}
	}
	DrawText(screen, status, font, statusX, 8, colorGray)
}

func (r *Renderer) drawCenteredMessage(screen *ebiten.Image, message string, c color.RGBA) {
	font := FontFace(r.renderState.GetFontSize())
	w := MeasureText(message, font)
	x := (float64(screen.Bounds().Dx()) - w) / 2
	y := float64(screen.Bounds().Dy()) / 2
	DrawText(screen, message, font, x, y, c)
}

// helpRow is one action line of the help overlay
type helpRow struct {
	action string
	keys   string
	mouse  string
	desc   string
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpRows lists every action that has a binding, sorted by name
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		desc := descriptions[action]
		if desc == "" {
			desc = "No description available"
		}
		rows = append(rows, helpRow{
			action: action,
			keys:   strings.Join(keys, ", "),
			mouse:  strings.Join(mouse, ", "),
			desc:   desc,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

// helpColumns are the x offsets of the help table relative to the panel
type helpColumns struct {
	action, arrow, input, desc, width float64
}

func measureHelpColumns(rows []helpRow, font *text.GoTextFace) helpColumns {
	var actionW, inputW, descW float64
	for _, row := range rows {
		actionW = max(actionW, MeasureText(row.action, font))
		inputW = max(inputW, MeasureText(row.input(), font))
		descW = max(descW, MeasureText(row.desc, font))
	}
	c := helpColumns{action: 40}
	c.arrow = c.action + actionW + 20
	c.input = c.arrow + 30
	c.desc = c.input + inputW + 20
	c.width = c.desc + descW + helpPadding
	return c
}

func (r *Renderer) helpWarnings() []string {
	warnings := r.renderState.GetConfigStatus().Warnings
	if len(warnings) > maxHelpWarnings {
		warnings = warnings[:maxHelpWarnings]
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		if len(w) > 50 {
			w = w[:47] + "..."
		}
		out[i] = "• " + w
	}
	return out
}

// helpSize returns the panel size needed at fontSize
func (r *Renderer) helpSize(rows []helpRow, warnings []string, fontSize float64) (float64, float64) {
	font := FontFace(fontSize)
	lineHeight := fontSize * 1.5

	height := helpPadding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * 3 // spacing, "System:", config status
	height += float64(len(warnings)) * lineHeight

	width := measureHelpColumns(rows, font).width
	for _, line := range append([]string{"Controls (Keyboard | Mouse):", r.configStatusText()}, warnings...) {
		width = max(width, MeasureText(line, font)+helpPadding*2+80)
	}
	return width, height
}

// helpFontSize finds the largest font size that fits, by binary search
func (r *Renderer) helpFontSize(rows []helpRow, warnings []string, availW, availH float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.helpSize(rows, warnings, size)
		return w <= availW && h <= availH
	}

	maxSize := r.renderState.GetFontSize()
	if !fits(minHelpFontSize) {
		return minHelpFontSize, false
	}
	if fits(maxSize) {
		return maxSize, true
	}
	low, high := minHelpFontSize, maxSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) configStatusText() string {
	return fmt.Sprintf("Config Status: %s", r.renderState.GetConfigStatus().Status)
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	rows := r.helpRows()
	warnings := r.helpWarnings()

	fontSize, canFit := r.helpFontSize(rows, warnings, w-helpPadding*2, h-helpPadding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}
	font := FontFace(fontSize)
	lineHeight := fontSize * 1.5

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	titleY := helpPadding + 30
	DrawText(screen, "HELP:", font, helpPadding+20, titleY, colorWhite)
	y := titleY + fontSize*2
	DrawText(screen, "Controls (Keyboard | Mouse):", font, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	cols := measureHelpColumns(rows, font)
	for _, row := range rows {
		DrawText(screen, row.action, font, helpPadding+cols.action, y, colorLightBlue)
		DrawText(screen, "→", font, helpPadding+cols.arrow, y, colorWhite)

		x := helpPadding + cols.input
		if row.keys != "" {
			DrawText(screen, row.keys, font, x, y, colorYellow)
			x += MeasureText(row.keys, font)
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			x += MeasureText(" | ", font)
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, font, x, y, colorCyan)
		}
		DrawText(screen, row.desc, font, helpPadding+cols.desc, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", font, helpPadding+20, y, colorWhite)
	y += lineHeight

	status := r.renderState.GetConfigStatus().Status
	statusColor := colorGreen
	if status == "Warning" || status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, r.configStatusText(), font, helpPadding+40, y, statusColor)
	y += lineHeight

	for _, warning := range warnings {
		DrawText(screen, warning, font, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := FontFace(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	DrawText(screen, message, font, w/2-MeasureText(message, font)/2, h/2-8, colorWhite)
	DrawText(screen, subtitle, font, w/2-MeasureText(subtitle, font)/2, h/2+18, colorGray)
}

func (r *Renderer) drawPageInputOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	fontSize := r.renderState.GetFontSize()
	inputFont := FontFace(fontSize)
	rangeFont := FontFace(fontSize * 0.8)

	inputText := fmt.Sprintf("Go to page: %s_", r.renderState.GetPageInputBuffer())
	rangeText := fmt.Sprintf("(1-%d)", r.renderState.GetTotalPagesCount())
	inputW := MeasureText(inputText, inputFont)
	rangeW := MeasureText(rangeText, rangeFont)

	padding := 20.0
	boxW := max(inputW, rangeW) + padding*2
	boxH := fontSize*1.8 + 10 + padding*2
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, inputText, inputFont, boxX+(boxW-inputW)/2, boxY+padding, colorWhite)
	DrawText(screen, rangeText, rangeFont, boxX+(boxW-rangeW)/2, boxY+padding+fontSize+10, colorLightGray)
}

// drawInfoDisplay shows the page readout in the bottom right corner
func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	font := FontFace(r.renderState.GetFontSize())
	infoText := r.renderState.GetPageReadout()
	if name := r.renderState.GetDirectoryName(); name != "" {
		infoText = name + "  " + infoText
	}

	textW := MeasureText(infoText, font)
	textH := r.renderState.GetFontSize() * 1.2
	padding := 10.0
	x := float64(screen.Bounds().Dx()) - textW - padding
	y := float64(screen.Bounds().Dy()) - textH - padding

	DrawFilledRect(screen, x-5, y-5, textW+10, textH+10, bgColorLight)
	DrawText(screen, infoText, font, x, y, colorWhite)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := FontFace(r.renderState.GetFontSize())
	message := r.renderState.GetOverlayMessage()

	padding := 20.0
	boxW := MeasureText(message, font) + padding*2
	boxH := r.renderState.GetFontSize()*1.2 + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
