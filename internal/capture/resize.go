package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// fitFrame resizes mat in place to width x height. Devices are free to
// ignore the requested resolution, and the canvas layout assumes the
// configured capture size.
func fitFrame(mat *gocv.Mat, width, height int) error {
	if mat.Cols() == width && mat.Rows() == height {
		return nil
	}

	resized := gocv.NewMat()
	gocv.Resize(*mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	if resized.Empty() {
		resized.Close()
		return fmt.Errorf("resize frame to %dx%d failed", width, height)
	}

	mat.Close()
	*mat = resized
	return nil
}
