package game

import (
	"slices"

	"github.com/lazharichir/threethirteen/cards"
)

// ScoreHand returns the minimum total penalty achievable by partitioning
// the hand into legal combinations. A combination is a set (three or more
// cards of one rank) or a run (three or more cards of one suit at
// consecutive rank positions, ace low, at most 13 long); wilds substitute
// anywhere. Cards left outside every combination pay their rank's penalty.
func ScoreHand(hand cards.Stack, wild cards.Rank) int {
	points, _ := BestPartition(hand, wild)
	return points
}

// BestPartition returns the minimum penalty together with the unmatched
// cards of a partition achieving it. The input hand is never modified and
// the result does not depend on its order.
func BestPartition(hand cards.Stack, wild cards.Rank) (int, cards.Stack) {
	s := &partitionSearch{hand: hand, wild: wild}

	all := make([]int, len(hand))
	total := 0
	for i := range hand {
		all[i] = i
		total += hand[i].Rank.PenaltyValue()
	}

	// Upper bound: everything unmatched
	s.bestPenalty = total
	s.bestUnmatched = all

	s.search(all, nil, 0)

	unmatched := make(cards.Stack, 0, len(s.bestUnmatched))
	for _, i := range s.bestUnmatched {
		unmatched = append(unmatched, hand[i])
	}
	return s.bestPenalty, unmatched
}

// partitionSearch is a branch-and-bound over (remaining, unmatched).
// Cards are tracked as indexes into the hand so that physically distinct
// copies of the same rank and suit stay independent.
type partitionSearch struct {
	hand          cards.Stack
	wild          cards.Rank
	bestPenalty   int
	bestUnmatched []int
}

func (s *partitionSearch) isWild(i int) bool {
	return s.hand[i].IsWildFor(s.wild)
}

// search either spends the head card inside a combination or leaves it
// unmatched, and recurses on what is left. Branches that already carry
// at least the best known penalty are cut.
func (s *partitionSearch) search(remaining []int, unmatched []int, penalty int) {
	if penalty >= s.bestPenalty {
		return
	}
	if len(remaining) == 0 {
		s.bestPenalty = penalty
		s.bestUnmatched = append([]int(nil), unmatched...)
		return
	}

	head := remaining[0]
	rest := remaining[1:]

	for _, combo := range s.combosWithHead(head, rest) {
		s.search(subtract(rest, combo), unmatched, penalty)
	}

	left := make([]int, len(unmatched)+1)
	copy(left, unmatched)
	left[len(unmatched)] = head
	s.search(rest, left, penalty+s.hand[head].Rank.PenaltyValue())
}

// combosWithHead lists every way to complete a combination around the
// head card using cards from rest. Combos name the other participants;
// the head is implicit.
func (s *partitionSearch) combosWithHead(head int, rest []int) [][]int {
	if !s.isWild(head) {
		return s.partnerSets(head, rest, -1)
	}

	var combos [][]int

	// A wild anchors nothing by itself: hand the anchor role to each
	// natural card, keeping the wild as a mandatory participant.
	for idx, n := range rest {
		if s.isWild(n) {
			continue
		}
		pool := make([]int, 0, len(rest))
		pool = append(pool, rest[:idx]...)
		pool = append(pool, rest[idx+1:]...)
		pool = append(pool, head)

		for _, partners := range s.partnerSets(n, pool, head) {
			combo := make([]int, 0, len(partners))
			combo = append(combo, n)
			for _, p := range partners {
				if p != head {
					combo = append(combo, p)
				}
			}
			combos = append(combos, combo)
		}
	}

	// Three or more wilds stand alone as a set
	var wilds []int
	for _, i := range rest {
		if s.isWild(i) {
			wilds = append(wilds, i)
		}
	}
	combos = append(combos, subsetsOfSize(wilds, 2)...)

	return combos
}

// partnerSets enumerates the partner groups that make a legal combination
// with the anchor: every subset of same-rank-or-wild cards of size >= 2,
// and every filling of every run window covering the anchor. When
// required is a card index, only groups spending that card qualify.
func (s *partitionSearch) partnerSets(anchor int, pool []int, required int) [][]int {
	var out [][]int

	var eligible []int
	for _, i := range pool {
		if s.hand[i].Rank == s.hand[anchor].Rank || s.isWild(i) {
			eligible = append(eligible, i)
		}
	}
	for _, subset := range subsetsOfSize(eligible, 2) {
		if required < 0 || slices.Contains(subset, required) {
			out = append(out, subset)
		}
	}

	anchorPos := s.hand[anchor].Rank.Position()
	suit := s.hand[anchor].Suit
	for length := 3; length <= len(cards.RankOrder) && length <= len(pool)+1; length++ {
		for lo := anchorPos - length + 1; lo <= anchorPos; lo++ {
			hi := lo + length - 1
			if lo < 0 || hi >= len(cards.RankOrder) {
				continue
			}
			s.fillRun(lo, hi, anchorPos, suit, pool, required, nil, &out)
		}
	}

	return out
}

// cardClass collapses physically distinct but interchangeable cards so
// run filling does not fork on which copy it spends
type cardClass struct {
	rank cards.Rank
	suit cards.Suit
	wild bool
}

// fillRun assigns pool cards to the rank positions pos..hi of a run
// window. Each open position takes either a natural card of the run's
// suit at that position or any wild; complete assignments are appended
// to out.
func (s *partitionSearch) fillRun(pos, hi, anchorPos int, suit cards.Suit, pool []int, required int, used []int, out *[][]int) {
	if pos > hi {
		if required < 0 || slices.Contains(used, required) {
			*out = append(*out, append([]int(nil), used...))
		}
		return
	}
	if pos == anchorPos {
		s.fillRun(pos+1, hi, anchorPos, suit, pool, required, used, out)
		return
	}

	seen := map[cardClass]bool{}
	for _, i := range pool {
		if slices.Contains(used, i) {
			continue
		}
		c := s.hand[i]
		natural := !s.isWild(i) && c.Suit == suit && c.Rank.Position() == pos
		if !natural && !s.isWild(i) {
			continue
		}
		key := cardClass{c.Rank, c.Suit, c.IsWild}
		if seen[key] {
			continue
		}
		seen[key] = true
		s.fillRun(pos+1, hi, anchorPos, suit, pool, required, append(used, i), out)
	}
}

// subsetsOfSize returns every subset of items with at least minSize
// elements
func subsetsOfSize(items []int, minSize int) [][]int {
	var out [][]int
	var build func(idx int, current []int)
	build = func(idx int, current []int) {
		if idx == len(items) {
			if len(current) >= minSize {
				out = append(out, append([]int(nil), current...))
			}
			return
		}
		build(idx+1, current)
		build(idx+1, append(current, items[idx]))
	}
	build(0, nil)
	return out
}

func subtract(items []int, remove []int) []int {
	kept := make([]int, 0, len(items))
	for _, i := range items {
		if !slices.Contains(remove, i) {
			kept = append(kept, i)
		}
	}
	return kept
}
