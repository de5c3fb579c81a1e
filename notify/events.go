// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/bookclub/models"
)

// Event is one broadcast to every member of a club except ExcludeUserID.
type Event struct {
	ClubID        string
	Type          string
	Title         string
	Message       string
	Data          map[string]any
	ExcludeUserID string
}

// relTimeES renders relative times the way the club UI speaks ("en 3 días").
var relTimeES = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "ahora", DivBy: time.Second},
	{D: 2 * time.Second, Format: "%s 1 segundo", DivBy: 1},
	{D: time.Minute, Format: "%s %d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%s %d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 día", DivBy: 1},
	{D: humanize.Week, Format: "%s %d días", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "%s 1 semana", DivBy: 1},
	{D: humanize.Month, Format: "%s %d semanas", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "%s 1 mes", DivBy: 1},
	{D: humanize.Year, Format: "%s %d meses", DivBy: humanize.Month},
	{D: 18 * humanize.Month, Format: "%s 1 año", DivBy: 1},
	{D: 2 * humanize.Year, Format: "%s 2 años", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d años", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%s mucho tiempo", DivBy: 1},
}

// RelTime describes deadline relative to now, e.g. "en 3 días" or "hace 2 horas".
func RelTime(deadline, now time.Time) string {
	return humanize.CustomRelTime(deadline, now, "hace", "en", relTimeES)
}

func PeriodOpened(p models.ReadingPeriod, actorID string, now time.Time) Event {
	return Event{
		ClubID:  p.ClubID,
		Type:    models.NotifyVotingOpened,
		Title:   "Nueva votación abierta",
		Message: fmt.Sprintf("Vota por el próximo libro en \"%s\". La votación cierra %s.", p.Name, RelTime(p.VotingEndsAt, now)),
		Data: map[string]any{
			"periodoId":        p.ID,
			"nombre":           p.Name,
			"fechaFinVotacion": p.VotingEndsAt,
		},
		ExcludeUserID: actorID,
	}
}

func VotingClosed(p models.ReadingPeriod, winner models.ClubBook, votes int, actorID string) Event {
	return Event{
		ClubID:  p.ClubID,
		Type:    models.NotifyVotingClosed,
		Title:   "Votación cerrada",
		Message: fmt.Sprintf("\"%s\" ganó la votación de \"%s\" con %d voto(s).", winner.Book.Title, p.Name, votes),
		Data: map[string]any{
			"periodoId":  p.ID,
			"clubBookId": winner.ID,
			"libro":      winner.Book.Title,
			"votos":      votes,
		},
		ExcludeUserID: actorID,
	}
}

func ReadingConcluded(p models.ReadingPeriod, book models.ClubBook, actorID string) Event {
	return Event{
		ClubID:  p.ClubID,
		Type:    models.NotifyReadingFinished,
		Title:   "Lectura concluida",
		Message: fmt.Sprintf("El período \"%s\" terminó. \"%s\" quedó marcado como leído.", p.Name, book.Book.Title),
		Data: map[string]any{
			"periodoId":  p.ID,
			"clubBookId": book.ID,
			"libro":      book.Book.Title,
		},
		ExcludeUserID: actorID,
	}
}
