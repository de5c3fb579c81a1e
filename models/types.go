package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Reading period status constants
const (
	StatusVoting  = "VOTACION"
	StatusReading = "LEYENDO"
	StatusClosed  = "CERRADO"

	// StatusInactive is never stored; a club with no active period reports it.
	StatusInactive = "INACTIVO"
)

// Club book status constants
const (
	BookToRead  = "por_leer"
	BookReading = "leyendo"
	BookRead    = "leido"
)

// Role is a caller's effective role inside a club.
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleModerator Role = "MODERATOR"
	RoleMember    Role = "MEMBER"
	RoleNone      Role = "NONE"
)

// Notification type constants
const (
	NotifyVotingOpened    = "NUEVA_VOTACION"
	NotifyVotingClosed    = "VOTACION_CERRADA"
	NotifyReadingFinished = "LECTURA_CONCLUIDA"
)

// Request types

type CreatePeriodRequest struct {
	Name          string    `json:"nombre"`
	VotingEndsAt  time.Time `json:"fechaFinVotacion"`
	ReadingEndsAt time.Time `json:"fechaFinLectura"`
	ClubBookIDs   []string  `json:"clubBookIds"`
	Username      string    `json:"username"`
}

// ErrInvalidDate is returned when a request date is neither RFC 3339 nor YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// UnmarshalJSON accepts either a full RFC 3339 timestamp or a bare date,
// read as midnight UTC. Missing dates stay zero.
func (r *CreatePeriodRequest) UnmarshalJSON(data []byte) error {
	type alias CreatePeriodRequest
	aux := struct {
		*alias
		VotingEndsAt  string `json:"fechaFinVotacion"`
		ReadingEndsAt string `json:"fechaFinLectura"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.VotingEndsAt, err = parseRequestDate(aux.VotingEndsAt); err != nil {
		return fmt.Errorf("fechaFinVotacion: %w", err)
	}
	if r.ReadingEndsAt, err = parseRequestDate(aux.ReadingEndsAt); err != nil {
		return fmt.Errorf("fechaFinLectura: %w", err)
	}
	return nil
}

func parseRequestDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

type CastVoteRequest struct {
	OptionID string `json:"opcionId"`
	Username string `json:"username"`
}

// CallerRequest is the body of the transition endpoints.
type CallerRequest struct {
	Username string `json:"username"`
}

// Response types

type CurrentStateResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"estado"`
	Period  *PeriodDetail `json:"periodo"`
}

type CreatePeriodResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Period  PeriodDetail `json:"periodo"`
}

type CastVoteResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Vote    VoteReceipt `json:"voto"`
}

type CloseVotingResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Winner  WinnerSummary `json:"ganador"`
	Results []ResultEntry `json:"resultados"`
	Period  ReadingPeriod `json:"periodo"`
}

type ConcludeReadingResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Period   ReadingPeriod `json:"periodo"`
	BookRead *Book         `json:"libroLeido"`
}

type HistoryResponse struct {
	Success bool           `json:"success"`
	History []PeriodDetail `json:"historial"`
}

type NotificationsResponse struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notificaciones"`
	Total         int            `json:"total"`
}

type UnreadCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type NotificationResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Notification Notification `json:"notificacion"`
}

// NotificationCountResponse reports a bulk inbox update.
type NotificationCountResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Domain types

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type ClubBook struct {
	ID     string `json:"id"`
	ClubID string `json:"clubId"`
	Status string `json:"estado"`
	Book   Book   `json:"book"`
}

type ReadingPeriod struct {
	ID               string    `json:"id"`
	ClubID           string    `json:"clubId"`
	Name             string    `json:"nombre"`
	Status           string    `json:"estado"`
	VotingEndsAt     time.Time `json:"fechaFinVotacion"`
	ReadingEndsAt    time.Time `json:"fechaFinLectura"`
	WinnerClubBookID *string   `json:"libroGanadorId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type VotingOption struct {
	ID         string   `json:"id"`
	PeriodID   string   `json:"periodoId"`
	ClubBookID string   `json:"clubBookId"`
	Position   int      `json:"-"`
	ClubBook   ClubBook `json:"clubBook"`
}

// OptionTally is a voting option with its live votes at read time.
type OptionTally struct {
	VotingOption
	Votes  int      `json:"totalVotos"`
	Voters []string `json:"votantes"`
}

type PeriodDetail struct {
	ReadingPeriod
	Options     []OptionTally `json:"opciones"`
	TotalVotes  int           `json:"totalVotosEmitidos"`
	WinningBook *ClubBook     `json:"libroGanador,omitempty"`
}

type Vote struct {
	ID        string    `json:"id"`
	OptionID  string    `json:"opcionId"`
	PeriodID  string    `json:"periodoId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type VoteReceipt struct {
	Vote
	BookTitle string `json:"libro"`
}

type WinnerSummary struct {
	Book  Book `json:"libro"`
	Votes int  `json:"votos"`
}

type ResultEntry struct {
	BookTitle string `json:"libro"`
	Votes     int    `json:"votos"`
}

type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"tipo"`
	Title     string         `json:"titulo"`
	Message   string         `json:"mensaje"`
	Data      map[string]any `json:"datos"`
	Read      bool           `json:"leida"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
