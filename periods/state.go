// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package periods

import "github.com/danielhkuo/bookclub/models"

// State is what a club is doing right now: Inactive, Voting, or Reading.
type State interface {
	Status() string
	// Detail is nil for Inactive.
	Detail() *models.PeriodDetail
	state()
}

// Inactive means the club has no VOTACION or LEYENDO period.
type Inactive struct{}

func (Inactive) Status() string { return models.StatusInactive }
func (Inactive) Detail() *models.PeriodDetail { return nil }
func (Inactive) state() {}

// Voting carries the open period with live tallies and voter usernames.
type Voting struct {
	Period models.PeriodDetail
}

func (v Voting) Status() string { return models.StatusVoting }
func (v Voting) Detail() *models.PeriodDetail { return &v.Period }
func (Voting) state() {}

// Reading carries the period being read and its winning book.
type Reading struct {
	Period models.PeriodDetail
}

func (r Reading) Status() string { return models.StatusReading }
func (r Reading) Detail() *models.PeriodDetail { return &r.Period }
func (Reading) state() {}
