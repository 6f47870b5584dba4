package geom

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// BoundedRect shrinks rect so that its size fits inside the size of bounds
// while keeping its aspect ratio. The lower-left corner of rect is kept; only
// the upper-right corner moves. A rect that already fits is returned as is.
//
// Whichever axis overflows is clamped to its bound and the other axis is
// scaled by the same factor; the loop settles after at most one pass of each
// axis because the second clamp scales the first axis by a factor below one.
func BoundedRect(rect, bounds r2.Rect) r2.Rect {
	w, h := rect.X.Length(), rect.Y.Length()
	wBound, hBound := bounds.X.Length(), bounds.Y.Length()
	if wBound < 0 {
		wBound = 0
	}
	if hBound < 0 {
		hBound = 0
	}

	for w > wBound || h > hBound {
		if w > wBound {
			k := wBound / w
			w = wBound
			h *= k
		}
		if h > hBound {
			k := hBound / h
			h = hBound
			w *= k
		}
	}

	return r2.Rect{
		X: r1.Interval{Lo: rect.X.Lo, Hi: rect.X.Lo + w},
		Y: r1.Interval{Lo: rect.Y.Lo, Hi: rect.Y.Lo + h},
	}
}
