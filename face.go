package carvers

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"

	"github.com/esimov/carvers/utils"
)

// minFaceQuality is the detection score below which a face is ignored.
const minFaceQuality = 5.0

// LoadFaceDetector unpacks a pigo cascade classifier file.
func LoadFaceDetector(path string) (*pigo.Pigo, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the cascade file")
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return classifier, nil
}

// detectFaces returns the bounding boxes of the faces found in the raster.
func detectFaces(fd *pigo.Pigo, r *Raster, angle float64) []image.Rectangle {
	if fd == nil || r.Width == 0 || r.Height == 0 {
		return nil
	}
	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     utils.Max(r.Width, r.Height),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: Grayscale(r),
			Rows:   r.Height,
			Cols:   r.Width,
			Dim:    r.Width,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := fd.RunCascade(cParams, angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = fd.ClusterDetections(faces, 0.2)

	var rects []image.Rectangle
	for _, face := range faces {
		if face.Q > minFaceQuality {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects
}
