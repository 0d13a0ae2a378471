package ocr

import (
	"sort"
	"strings"
)

// iouThreshold above which two regions are treated as duplicate detections.
const iouThreshold = 0.5

// IoU returns intersection-over-union of two boxes.
func IoU(a, b Region) float64 {
	ix := overlap(a.X, a.X+a.W, b.X, b.X+b.W)
	iy := overlap(a.Y, a.Y+a.H, b.Y, b.Y+b.H)
	inter := ix * iy
	if inter <= 0 {
		return 0
	}
	union := a.W*a.H + b.W*b.H - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func overlap(a1, a2, b1, b2 float64) float64 {
	lo, hi := a1, a2
	if b1 > lo {
		lo = b1
	}
	if b2 < hi {
		hi = b2
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// MergeDuplicates drops regions overlapping an already-kept region above the
// IoU threshold, keeping the higher-confidence detection.
func MergeDuplicates(regions []Region) []Region {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var kept []Region
	for _, r := range sorted {
		dup := false
		for _, k := range kept {
			if IoU(r, k) > iouThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, r)
		}
	}
	return kept
}

// Lines reconstructs line-level text blocks from recognition output. Words
// are assigned to the block containing them (largest overlap wins); each
// block's words are read left to right, blocks top to bottom. Without
// blocks, words are grouped into lines by vertical proximity.
func Lines(res *Result) []string {
	blocks := MergeDuplicates(res.Blocks)
	words := MergeDuplicates(res.Words)

	if len(words) == 0 {
		if len(blocks) == 0 {
			return splitNonEmpty(res.Text)
		}
		sortReadingOrder(blocks)
		var lines []string
		for _, b := range blocks {
			if t := strings.TrimSpace(b.Text); t != "" {
				lines = append(lines, t)
			}
		}
		return lines
	}

	if len(blocks) == 0 {
		return groupWordLines(words)
	}

	sortReadingOrder(blocks)
	assigned := make([][]Region, len(blocks))
	var orphans []Region
	for _, w := range words {
		best, bestArea := -1, 0.0
		for i, b := range blocks {
			area := overlap(w.X, w.X+w.W, b.X, b.X+b.W) * overlap(w.Y, w.Y+w.H, b.Y, b.Y+b.H)
			if area > bestArea {
				best, bestArea = i, area
			}
		}
		if best < 0 {
			orphans = append(orphans, w)
			continue
		}
		assigned[best] = append(assigned[best], w)
	}

	var lines []string
	for _, ws := range assigned {
		lines = append(lines, groupWordLines(ws)...)
	}
	lines = append(lines, groupWordLines(orphans)...)
	return lines
}

// groupWordLines clusters words into lines by vertical-center proximity and
// joins each line left to right.
func groupWordLines(words []Region) []string {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]Region, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y+sorted[i].H/2 < sorted[j].Y+sorted[j].H/2
	})

	var lines [][]Region
	for _, w := range sorted {
		placed := false
		if n := len(lines); n > 0 {
			last := lines[n-1]
			cy := w.Y + w.H/2
			lcy := last[0].Y + last[0].H/2
			tol := maxf(w.H, last[0].H) * 0.6
			if cy-lcy <= tol {
				lines[n-1] = append(last, w)
				placed = true
			}
		}
		if !placed {
			lines = append(lines, []Region{w})
		}
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		var parts []string
		for _, w := range line {
			if t := strings.TrimSpace(w.Text); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " "))
		}
	}
	return out
}

func sortReadingOrder(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
}

func splitNonEmpty(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
