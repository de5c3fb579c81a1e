// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package periods

import (
	"slices"

	"github.com/danielhkuo/bookclub/models"
)

// RankOptions orders tallies by vote count, highest first. The sort is
// stable, so options with equal counts keep their creation order and the
// first-created option wins a tie. The input is not modified.
func RankOptions(tallies []models.OptionTally) []models.OptionTally {
	ranked := slices.Clone(tallies)
	slices.SortStableFunc(ranked, func(a, b models.OptionTally) int {
		return b.Votes - a.Votes
	})
	return ranked
}

// Winner returns the top-ranked option. ok is false when there are no options.
func Winner(tallies []models.OptionTally) (winner models.OptionTally, ok bool) {
	if len(tallies) == 0 {
		return models.OptionTally{}, false
	}
	return RankOptions(tallies)[0], true
}

// TotalVotes sums the live votes across options.
func TotalVotes(tallies []models.OptionTally) int {
	total := 0
	for _, t := range tallies {
		total += t.Votes
	}
	return total
}

// Results flattens ranked tallies into the public results list
func Results(ranked []models.OptionTally) []models.ResultEntry {
	results := make([]models.ResultEntry, len(ranked))
	for i, t := range ranked {
		results[i] = models.ResultEntry{
			BookTitle: t.ClubBook.Book.Title,
			Votes:     t.Votes,
		}
	}
	return results
}
