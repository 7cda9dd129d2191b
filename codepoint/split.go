package codepoint

import (
	"fmt"
	"strings"
)

// SplitStrategy selects how a codepoint set is partitioned into groups, each
// of which will become a font file of its own.
type SplitStrategy int

const (
	Single  SplitStrategy = iota // one group
	ByRange                      // groups follow Unicode block structure
	ByCount                      // groups of a fixed maximum size
)

var splitNames = [...]string{"single", "byRange", "byCount"}

func (s SplitStrategy) String() string {
	if s >= 0 && int(s) < len(splitNames) {
		return splitNames[s]
	}
	return fmt.Sprintf("SplitStrategy(%d)", int(s))
}

// ParseSplitStrategy maps a name (single, byRange, byCount) to a
// SplitStrategy. Names are matched case-insensitively.
func ParseSplitStrategy(name string) (SplitStrategy, error) {
	for i, n := range splitNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return SplitStrategy(i), nil
		}
	}
	return Single, fmt.Errorf("%w: split strategy %q (expected single|byRange|byCount)",
		ErrUnknownStrategy, name)
}

// BlockSize is the width of the fixed blocks used by strategy ByRange.
const BlockSize = 1024

// Split partitions seq into groups, preserving order. The concatenation of
// the groups is seq; groups share storage with seq.
//
// ByRange walks seq and starts a new group whenever a codepoint neither
// directly follows its predecessor nor lies in the same BlockSize-wide block.
// Two codepoints of one block stay together however far apart they are.
//
// ByCount cuts seq into chunks of maxCount codepoints, the last chunk
// possibly shorter. maxCount is ignored by the other strategies.
func Split(seq Set, s SplitStrategy, maxCount int) ([]Set, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	var groups []Set
	switch s {
	case Single:
		groups = []Set{seq}
	case ByRange:
		groups = splitByRange(seq)
	case ByCount:
		if maxCount <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, maxCount)
		}
		groups = splitByCount(seq, maxCount)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
	tracer().Debugf("split %d codepoints into %d groups (%s)", len(seq), len(groups), s)
	return groups, nil
}

func splitByRange(seq Set) []Set {
	groups := make([]Set, 0, 4)
	start := 0
	for i := 1; i < len(seq); i++ {
		prev, c := seq[i-1], seq[i]
		if c == prev+1 || c/BlockSize == prev/BlockSize {
			continue
		}
		groups = append(groups, seq[start:i:i])
		start = i
	}
	return append(groups, seq[start:len(seq):len(seq)])
}

func splitByCount(seq Set, maxCount int) []Set {
	groups := make([]Set, 0, (len(seq)+maxCount-1)/maxCount)
	for i := 0; i < len(seq); i += maxCount {
		end := min(i+maxCount, len(seq))
		groups = append(groups, seq[i:end:end])
	}
	return groups
}
