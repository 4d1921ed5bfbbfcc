package main

// Size is a width/height pair in pixels
type Size struct {
	W, H int
}

func (s Size) valid() bool { return s.W > 0 && s.H > 0 }

// ChoosePagesPerView picks single or double page view for a page of size
// page shown in a viewport of size view. A viewport taller (relative to its
// width) than the page always gets one page. Otherwise the choice is the one
// that wastes less screen: a single page uses (pw/ph)/(vw/vh) of the width,
// a half-width page pair uses (ph/(pw*2))/(vh/vw) of the height.
func ChoosePagesPerView(view, page Size) int {
	if !view.valid() || !page.valid() {
		return 0
	}
	vw, vh := float64(view.W), float64(view.H)
	pw, ph := float64(page.W), float64(page.H)

	if vh/vw > ph/pw {
		return 1
	}
	single := (pw / ph) / (vw / vh)
	double := (ph / pw / 2) / (vh / vw)
	if single > double {
		return 1
	}
	return 2
}

// Rect is an axis-aligned screen region
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// SlotRegions splits area into the slot regions. Each populated slot takes
// 100/pagesPerView percent of the width; in single-page view the slot
// showing the page takes the whole area and the other one is empty.
func SlotRegions(area Rect, pagesPerView int, firstSlot Slot) [slotCount]Rect {
	var regions [slotCount]Rect
	if pagesPerView <= 1 {
		regions[firstSlot] = area
		return regions
	}
	half := area.W / 2
	regions[SlotLeft] = Rect{X: area.X, Y: area.Y, W: half, H: area.H}
	regions[SlotRight] = Rect{X: area.X + half, Y: area.Y, W: area.W - half, H: area.H}
	return regions
}

// FitRect returns the largest rectangle with the image's aspect ratio that
// fits in region, and the scale applied. Small images keep their size unless
// upscale is set. align is -1 to hug the left edge, 1 to hug the right edge
// and 0 to center horizontally, so a spread meets at the gutter.
func FitRect(region Rect, imgW, imgH int, align int, upscale bool) (Rect, float64) {
	if imgW <= 0 || imgH <= 0 || region.W <= 0 || region.H <= 0 {
		return Rect{}, 0
	}
	scale := min(region.W/float64(imgW), region.H/float64(imgH))
	if !upscale {
		scale = min(scale, 1)
	}
	w := float64(imgW) * scale
	h := float64(imgH) * scale

	x := region.X + (region.W-w)/2
	switch {
	case align < 0:
		x = region.X
	case align > 0:
		x = region.X + region.W - w
	}
	y := region.Y + (region.H-h)/2
	return Rect{X: x, Y: y, W: w, H: h}, scale
}
