package geom

// Self-intersection repair for relaxed lines.
//
// Vertex relaxation moves each vertex independently, so a tight meander
// can fold the new line over itself. Repair excises the loop: when segment
// i intersects a later non-adjacent segment j, the vertices between them
// are replaced by the intersection point.

// segmentIntersection returns the intersection point of segments ab and cd
// and whether they properly intersect. Collinear overlaps and shared
// endpoints are not treated as intersections; loop excision only cares
// about genuine crossings.
func segmentIntersection(a, b, c, d Point) (Point, bool) {
	r := Point{b[0] - a[0], b[1] - a[1]}
	s := Point{d[0] - c[0], d[1] - c[1]}
	denom := r[0]*s[1] - r[1]*s[0]
	if denom == 0 {
		return Point{}, false // parallel or collinear
	}
	acx, acy := c[0]-a[0], c[1]-a[1]
	t := (acx*s[1] - acy*s[0]) / denom
	u := (acx*r[1] - acy*r[0]) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return Point{}, false
	}
	return Point{a[0] + t*r[0], a[1] + t*r[1]}, true
}

// RepairSelfIntersections removes loops from a vertex sequence. For each
// segment, the farthest later non-adjacent segment that crosses it is
// found, and everything between the crossing is cut out and replaced by
// the intersection point. The input slice is not modified.
//
// After an excision the same segment is re-checked, so chained loops are
// removed in a single call. Sequences with fewer than 4 vertices cannot
// self-intersect and are returned as-is (copied).
func RepairSelfIntersections(pts []Point) []Point {
	out := make([]Point, len(pts))
	copy(out, pts)

	for i := 0; i+1 < len(out); i++ {
		// Farthest crossing first removes the largest loop in one cut.
		for j := len(out) - 2; j > i+1; j-- {
			x, ok := segmentIntersection(out[i], out[i+1], out[j], out[j+1])
			if !ok {
				continue
			}
			repaired := make([]Point, 0, i+2+len(out)-(j+1))
			repaired = append(repaired, out[:i+1]...)
			repaired = append(repaired, x)
			repaired = append(repaired, out[j+1:]...)
			out = repaired
			i--
			break
		}
	}
	return out
}
