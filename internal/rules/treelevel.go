package rules

import (
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

// TreeLevel is a gamification tier derived from a student's cumulative
// qualifying post count.
type TreeLevel struct {
	Level    int    `json:"level"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	MinPosts int    `json:"min_posts"`
	// MaxPosts is -1 for the unbounded top level.
	MaxPosts int `json:"max_posts"`
}

// treeLevels are contiguous, ordered, non-overlapping ranges. The boundaries
// are fixed course content and must not be altered.
var treeLevels = []TreeLevel{
	{Level: 1, Name: "씨앗", Emoji: "🌱", MinPosts: 0, MaxPosts: 5},
	{Level: 2, Name: "새싹", Emoji: "🌿", MinPosts: 6, MaxPosts: 15},
	{Level: 3, Name: "묘목", Emoji: "🪴", MinPosts: 16, MaxPosts: 30},
	{Level: 4, Name: "나무", Emoji: "🌳", MinPosts: 31, MaxPosts: 50},
	{Level: 5, Name: "꽃나무", Emoji: "🌸", MinPosts: 51, MaxPosts: 70},
	{Level: 6, Name: "열매나무", Emoji: "🍎", MinPosts: 71, MaxPosts: 100},
	{Level: 7, Name: "거목", Emoji: "🌲", MinPosts: 101, MaxPosts: -1},
}

// ResolveTreeLevel maps a cumulative post count to its growth level.
// Every non-negative count maps to exactly one level; negative counts are
// rejected as invalid input.
func ResolveTreeLevel(postCount int) (TreeLevel, error) {
	if postCount < 0 {
		return TreeLevel{}, appErrors.Clone(appErrors.ErrValidation, "post count must be non-negative")
	}
	for _, lv := range treeLevels {
		if postCount >= lv.MinPosts && (lv.MaxPosts < 0 || postCount <= lv.MaxPosts) {
			return lv, nil
		}
	}
	// Unreachable: the top level has no upper bound.
	return treeLevels[len(treeLevels)-1], nil
}

// TreeLevels returns the full ordered level table for display.
func TreeLevels() []TreeLevel {
	out := make([]TreeLevel, len(treeLevels))
	copy(out, treeLevels)
	return out
}
