package fuzz

import "sort"

// matchBlock is a run of equal runes: a[A:A+Size] == b[B:B+Size].
type matchBlock struct {
	A, B, Size int
}

// longestMatch finds the longest block of equal runes between a[alo:ahi]
// and b[blo:bhi]. Among blocks of equal size the one starting earliest in
// a wins, then earliest in b. b2j indexes each rune of b to its positions,
// ascending.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) matchBlock {
	best := matchBlock{A: alo, B: blo, Size: 0}

	// j2len[j] is the length of the longest run of equal runes ending at
	// a[i-1], b[j]; rebuilt for each i.
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.Size {
				best = matchBlock{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		j2len = newJ2len
	}
	return best
}

// matchingBlocks returns the non-overlapping matching blocks of a and b in
// ascending order, adjacent blocks merged, terminated by a zero-size block
// at (len(a), len(b)).
func matchingBlocks(a, b []rune) []matchBlock {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	var found []matchBlock
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi, b2j)
		if m.Size == 0 {
			continue
		}
		found = append(found, m)
		if s.alo < m.A && s.blo < m.B {
			queue = append(queue, span{s.alo, m.A, s.blo, m.B})
		}
		if m.A+m.Size < s.ahi && m.B+m.Size < s.bhi {
			queue = append(queue, span{m.A + m.Size, s.ahi, m.B + m.Size, s.bhi})
		}
	}

	sort.Slice(found, func(x, y int) bool {
		if found[x].A != found[y].A {
			return found[x].A < found[y].A
		}
		return found[x].B < found[y].B
	})

	// Merge blocks that sit directly against each other.
	var blocks []matchBlock
	cur := matchBlock{}
	for _, m := range found {
		if cur.Size > 0 && cur.A+cur.Size == m.A && cur.B+cur.Size == m.B {
			cur.Size += m.Size
			continue
		}
		if cur.Size > 0 {
			blocks = append(blocks, cur)
		}
		cur = m
	}
	if cur.Size > 0 {
		blocks = append(blocks, cur)
	}
	return append(blocks, matchBlock{A: len(a), B: len(b), Size: 0})
}

// blockRatio is the similarity of a and b in [0,1]: twice the matched rune
// count over the combined length. Two empty sequences are identical.
func blockRatio(a, b []rune) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	matched := 0
	for _, m := range matchingBlocks(a, b) {
		matched += m.Size
	}
	return 2 * float64(matched) / float64(len(a)+len(b))
}
