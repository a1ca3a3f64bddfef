package geocode

import (
	"math"
	"sort"
)

type point [3]float64

// toPoint projects a coordinate onto the unit sphere.
func toPoint(lat, lon float64) point {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	cosPhi := math.Cos(phi)
	return point{cosPhi * math.Cos(lambda), cosPhi * math.Sin(lambda), math.Sin(phi)}
}

func dist2(a, b point) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}

type kdNode struct {
	p   point
	idx int
}

// kdTree is a static 3-d tree stored in a slice: the median of every
// sub-range is its root, with the left and right halves on either side.
type kdTree struct {
	nodes []kdNode
}

func buildTree(places []Place) *kdTree {
	nodes := make([]kdNode, len(places))
	for i, p := range places {
		nodes[i] = kdNode{p: toPoint(p.Latitude, p.Longitude), idx: i}
	}
	t := &kdTree{nodes: nodes}
	t.build(0, len(nodes), 0)
	return t
}

func (t *kdTree) build(lo, hi, depth int) {
	if hi-lo <= 1 {
		return
	}
	axis := depth % 3
	sub := t.nodes[lo:hi]
	sort.Slice(sub, func(i, j int) bool { return sub[i].p[axis] < sub[j].p[axis] })
	mid := lo + (hi-lo)/2
	t.build(lo, mid, depth+1)
	t.build(mid+1, hi, depth+1)
}

// nearest returns the index of the place closest to target, or -1 when the
// tree is empty.
func (t *kdTree) nearest(target point) int {
	if t == nil || len(t.nodes) == 0 {
		return -1
	}
	best, bestDist := -1, math.Inf(1)
	t.search(0, len(t.nodes), 0, target, &best, &bestDist)
	return best
}

func (t *kdTree) search(lo, hi, depth int, target point, best *int, bestDist *float64) {
	if lo >= hi {
		return
	}
	mid := lo + (hi-lo)/2
	node := t.nodes[mid]
	if d := dist2(node.p, target); d < *bestDist {
		*best, *bestDist = node.idx, d
	}

	axis := depth % 3
	diff := target[axis] - node.p[axis]
	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if diff > 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}
	t.search(nearLo, nearHi, depth+1, target, best, bestDist)
	if diff*diff < *bestDist {
		t.search(farLo, farHi, depth+1, target, best, bestDist)
	}
}
