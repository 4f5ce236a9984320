// Package proj builds coordinate transform functions between EPSG-coded
// coordinate reference systems.
//
// The cartographic math is delegated to github.com/wroge/wgs84, a pure-Go
// EPSG transformation library. This package only parses CRS descriptors,
// resolves them against the EPSG repository, and adapts the resulting
// transformation to [spatial.TransformFunc], keeping the projection
// collaborator opaque to the rest of the system.
//
// CRS descriptors are strings of the form "EPSG:4326" (case-insensitive) or
// a bare numeric EPSG code.
package proj

import (
	"math"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// ParseCRS extracts the numeric EPSG code from a CRS descriptor.
// Accepted forms: "EPSG:4326", "epsg:4326", "4326".
func ParseCRS(crs string) (int, error) {
	s := strings.TrimSpace(crs)
	if rest, ok := cutPrefixFold(s, "EPSG:"); ok {
		s = rest
	}
	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, sderrors.New(sderrors.ErrCodeProjection, "cannot parse CRS descriptor %q", crs)
	}
	return code, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// Transform builds a coordinate transform from srcCRS to dstCRS.
// Unknown or unparsable CRS descriptors fail with a projection error before
// any coordinate is touched. The returned function reports an error for
// coordinates the transformation cannot represent (NaN/Inf results).
func Transform(srcCRS, dstCRS string) (spatial.TransformFunc, error) {
	srcCode, err := ParseCRS(srcCRS)
	if err != nil {
		return nil, err
	}
	dstCode, err := ParseCRS(dstCRS)
	if err != nil {
		return nil, err
	}

	epsg := wgs84.EPSG()
	from := epsg.Code(srcCode)
	if from == nil {
		return nil, sderrors.New(sderrors.ErrCodeProjection, "unknown EPSG code %d", srcCode)
	}
	to := epsg.Code(dstCode)
	if to == nil {
		return nil, sderrors.New(sderrors.ErrCodeProjection, "unknown EPSG code %d", dstCode)
	}

	t := wgs84.Transform(from, to)
	return func(x, y float64) (float64, float64, error) {
		a, b, _ := t(x, y, 0)
		if !isFinite(a) || !isFinite(b) {
			return 0, 0, sderrors.New(sderrors.ErrCodeProjection,
				"coordinate (%v, %v) is not representable in EPSG:%d", x, y, dstCode)
		}
		return a, b, nil
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Reproject rewrites g in place from its current CRS into targetCRS.
// It is the convenience composition of [Transform] and [spatial.Graph.Reproject].
func Reproject(g *spatial.Graph, targetCRS string) error {
	fn, err := Transform(g.CRS(), targetCRS)
	if err != nil {
		return err
	}
	return g.Reproject(targetCRS, fn)
}
