package geometry

import "math"

// minBucketSide keeps buckets from degenerating into per-point cells for
// tiny thresholds; segment spans are tens of units, so a floor of 25 keeps
// the per-bucket segment count small without exploding the bucket count.
const minBucketSide = 25.0

type bucketKey struct {
	col int
	row int
}

type indexedSegment struct {
	seg  AblationSegment
	bbox Rect // pre-expanded by the threshold
}

// SegmentIndex answers "is this point within threshold of any ablation
// segment" in near-constant time by bucket-hashing the segments. Grid node
// counts reach hundreds of thousands per solve, so the per-query cost must
// not depend on the total segment count. The index is immutable after Build
// and safe for concurrent queries.
type SegmentIndex struct {
	side        float64
	thresholdSq float64
	count       int
	buckets     map[bucketKey][]indexedSegment
}

// BuildSegmentIndex files every segment, expanded by threshold, into each
// bucket its bounding box touches. Bucket side is max(25, 4·threshold).
func BuildSegmentIndex(segments []AblationSegment, threshold float64) *SegmentIndex {
	idx := &SegmentIndex{
		side:        math.Max(minBucketSide, 4*threshold),
		thresholdSq: threshold * threshold,
		count:       len(segments),
		buckets:     make(map[bucketKey][]indexedSegment),
	}
	for _, seg := range segments {
		entry := indexedSegment{seg: seg, bbox: seg.BBox(threshold)}
		c0 := int(math.Floor(entry.bbox.MinX / idx.side))
		c1 := int(math.Floor(entry.bbox.MaxX / idx.side))
		r0 := int(math.Floor(entry.bbox.MinY / idx.side))
		r1 := int(math.Floor(entry.bbox.MaxY / idx.side))
		for col := c0; col <= c1; col++ {
			for row := r0; row <= r1; row++ {
				key := bucketKey{col: col, row: row}
				idx.buckets[key] = append(idx.buckets[key], entry)
			}
		}
	}
	return idx
}

// IsNearAny reports whether (x, y) lies within the build threshold of any
// segment. It probes the 3×3 bucket neighborhood around the point, rejects
// by bounding box, and only then computes the exact squared distance.
func (idx *SegmentIndex) IsNearAny(x, y float64) bool {
	if len(idx.buckets) == 0 {
		return false
	}
	col := int(math.Floor(x / idx.side))
	row := int(math.Floor(y / idx.side))
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			for _, entry := range idx.buckets[bucketKey{col: col + dc, row: row + dr}] {
				if x < entry.bbox.MinX || x > entry.bbox.MaxX ||
					y < entry.bbox.MinY || y > entry.bbox.MaxY {
					continue
				}
				if entry.seg.DistSqToPoint(x, y) <= idx.thresholdSq {
					return true
				}
			}
		}
	}
	return false
}

// Len returns the number of indexed segments.
func (idx *SegmentIndex) Len() int {
	return idx.count
}
