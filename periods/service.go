// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package periods

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/auth"
	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/notify"
	"github.com/danielhkuo/bookclub/permissions"
	"github.com/danielhkuo/bookclub/store"
)

// Notifier receives side effects after a transition has committed.
type Notifier interface {
	Dispatch(event notify.Event)
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(notify.Event) {}

// Service runs the reading period lifecycle for every club.
type Service struct {
	store    *store.Store
	perms    *permissions.Evaluator
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for deadline checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(st *store.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		perms:    permissions.NewEvaluator(st),
		notifier: nopNotifier{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreatePeriodInput struct {
	ClubID        string
	Name          string
	VotingEndsAt  time.Time
	ReadingEndsAt time.Time
	ClubBookIDs   []string
	Username      string
}

// CloseResult is the outcome of a closed vote. Results is ranked.
type CloseResult struct {
	Winner  models.OptionTally
	Results []models.OptionTally
	Period  models.ReadingPeriod
}

type ConcludeResult struct {
	Period   models.ReadingPeriod
	BookRead models.ClubBook
}

// CurrentState reports the club's active period, VOTACION before LEYENDO.
func (s *Service) CurrentState(ctx context.Context, clubID string) (State, error) {
	p, ok, err := s.store.PeriodByStatus(ctx, clubID, models.StatusVoting)
	if err != nil {
		return nil, err
	}
	if ok {
		detail, err := s.detail(ctx, s.store.Queries, p)
		if err != nil {
			return nil, err
		}
		return Voting{Period: detail}, nil
	}

	p, ok, err = s.store.PeriodByStatus(ctx, clubID, models.StatusReading)
	if err != nil {
		return nil, err
	}
	if ok {
		detail, err := s.detail(ctx, s.store.Queries, p)
		if err != nil {
			return nil, err
		}
		return Reading{Period: detail}, nil
	}

	return Inactive{}, nil
}

// CreatePeriod opens voting on a set of to-read club books.
func (s *Service) CreatePeriod(ctx context.Context, in CreatePeriodInput) (models.PeriodDetail, error) {
	caller, err := s.caller(ctx, in.Username)
	if err != nil {
		return models.PeriodDetail{}, err
	}

	role, err := s.role(ctx, caller.ID, in.ClubID)
	if err != nil {
		return models.PeriodDetail{}, err
	}
	if !permissions.CanManage(role) {
		return models.PeriodDetail{}, newError(KindForbidden, "Solo owners y moderadores pueden crear períodos de lectura")
	}

	active, ok, err := s.store.ActivePeriod(ctx, in.ClubID)
	if err != nil {
		return models.PeriodDetail{}, err
	}
	if ok {
		return models.PeriodDetail{}, newError(KindConflict, "Ya existe un período activo en estado %s", active.Status)
	}

	now := s.now().UTC()
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return models.PeriodDetail{}, newError(KindInvalidInput, "El nombre del período es obligatorio")
	case !in.VotingEndsAt.After(now):
		return models.PeriodDetail{}, newError(KindInvalidInput, "La fecha de fin de votación debe ser futura")
	case !in.ReadingEndsAt.After(in.VotingEndsAt):
		return models.PeriodDetail{}, newError(KindInvalidInput, "La fecha de fin de lectura debe ser posterior a la votación")
	case len(in.ClubBookIDs) == 0:
		return models.PeriodDetail{}, newError(KindInvalidInput, "Debe nominar al menos un libro")
	}

	books, err := s.store.AvailableClubBooks(ctx, in.ClubID, in.ClubBookIDs)
	if err != nil {
		return models.PeriodDetail{}, err
	}
	// Duplicated ids resolve to a single row and fail the count as well.
	if len(books) != len(in.ClubBookIDs) {
		return models.PeriodDetail{}, newError(KindInvalidInput, "Algunos libros no están disponibles o no están en estado 'por leer'")
	}

	period := models.ReadingPeriod{
		ID:            auth.NewID(),
		ClubID:        in.ClubID,
		Name:          name,
		Status:        models.StatusVoting,
		VotingEndsAt:  in.VotingEndsAt.UTC(),
		ReadingEndsAt: in.ReadingEndsAt.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var detail models.PeriodDetail
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if active, ok, err := q.ActivePeriod(ctx, in.ClubID); err != nil {
			return err
		} else if ok {
			return newError(KindConflict, "Ya existe un período activo en estado %s", active.Status)
		}

		if err := q.InsertPeriod(ctx, period); err != nil {
			return err
		}
		for i, id := range in.ClubBookIDs {
			option := models.VotingOption{
				ID:         auth.NewID(),
				PeriodID:   period.ID,
				ClubBookID: id,
				Position:   i,
			}
			if err := q.InsertOption(ctx, option); err != nil {
				return err
			}
		}

		d, err := s.detail(ctx, q, period)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	if errors.Is(err, store.ErrConflict) {
		return models.PeriodDetail{}, newError(KindConflict, "Ya existe un período activo para este club")
	}
	if err != nil {
		return models.PeriodDetail{}, err
	}

	s.logger.Info("reading period created",
		zap.String("club_id", in.ClubID),
		zap.String("period_id", period.ID),
		zap.Int("options", len(in.ClubBookIDs)))
	s.notifier.Dispatch(notify.PeriodOpened(period, caller.ID, now))

	return detail, nil
}

// CastVote records the caller's vote, replacing any earlier vote they
// hold in the same period.
func (s *Service) CastVote(ctx context.Context, periodID, optionID, username string) (models.VoteReceipt, error) {
	caller, err := s.caller(ctx, username)
	if err != nil {
		return models.VoteReceipt{}, err
	}

	period, err := s.period(ctx, periodID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if period.Status != models.StatusVoting {
		return models.VoteReceipt{}, errNotVoting()
	}

	role, err := s.role(ctx, caller.ID, period.ClubID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if !permissions.CanVote(role) {
		return models.VoteReceipt{}, newError(KindForbidden, "No eres miembro de este club")
	}

	option, ok, err := s.store.OptionInPeriod(ctx, optionID, periodID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if !ok {
		return models.VoteReceipt{}, newError(KindInvalidInput, "Opción de votación no válida")
	}

	exists, err := s.store.VoteExists(ctx, optionID, caller.ID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if exists {
		return models.VoteReceipt{}, errDuplicateVote()
	}

	now := s.now().UTC()
	vote := models.Vote{
		ID:        auth.NewID(),
		OptionID:  optionID,
		PeriodID:  periodID,
		UserID:    caller.ID,
		CreatedAt: now,
	}

	var replaced int64
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.LockPeriod(ctx, periodID, models.StatusVoting, now); err != nil {
			return err
		}
		// A concurrent identical submission may have committed since the
		// first check.
		exists, err := q.VoteExists(ctx, optionID, caller.ID)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicateVote()
		}

		if replaced, err = q.DeletePeriodVotes(ctx, periodID, caller.ID); err != nil {
			return err
		}
		return q.InsertVote(ctx, vote)
	})
	switch {
	case errors.Is(err, store.ErrStale):
		return models.VoteReceipt{}, errNotVoting()
	case errors.Is(err, store.ErrConflict):
		return models.VoteReceipt{}, errDuplicateVote()
	case err != nil:
		return models.VoteReceipt{}, err
	}

	s.logger.Debug("vote cast",
		zap.String("period_id", periodID),
		zap.String("option_id", optionID),
		zap.String("user_id", caller.ID),
		zap.Bool("replaced", replaced > 0))

	return models.VoteReceipt{Vote: vote, BookTitle: option.ClubBook.Book.Title}, nil
}

// CloseVoting picks the winner and moves the period and its winning book to
// reading in one transaction.
func (s *Service) CloseVoting(ctx context.Context, periodID, username string) (CloseResult, error) {
	caller, period, err := s.authorizeTransition(ctx, periodID, username,
		"Solo owners y moderadores pueden cerrar votaciones")
	if err != nil {
		return CloseResult{}, err
	}
	if period.Status != models.StatusVoting {
		return CloseResult{}, errNotVoting()
	}

	now := s.now().UTC()
	var result CloseResult
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.LockPeriod(ctx, periodID, models.StatusVoting, now); err != nil {
			return err
		}

		tallies, err := q.OptionTallies(ctx, periodID)
		if err != nil {
			return err
		}
		winner, ok := Winner(tallies)
		if !ok {
			return newError(KindInvalidInput, "No hay opciones de votación")
		}

		if err := q.TransitionPeriod(ctx, periodID, models.StatusVoting, models.StatusReading, &winner.ClubBookID, now); err != nil {
			return err
		}
		if err := q.SetClubBookStatus(ctx, winner.ClubBookID, models.BookReading); err != nil {
			return fmt.Errorf("failed to mark winning book: %w", err)
		}

		updated, err := q.PeriodByID(ctx, periodID)
		if err != nil {
			return err
		}

		result = CloseResult{Winner: winner, Results: RankOptions(tallies), Period: updated}
		return nil
	})
	if errors.Is(err, store.ErrStale) {
		return CloseResult{}, errNotVoting()
	}
	if err != nil {
		return CloseResult{}, err
	}

	s.logger.Info("voting closed",
		zap.String("period_id", periodID),
		zap.String("winner_club_book_id", result.Winner.ClubBookID),
		zap.Int("votes", result.Winner.Votes))
	s.notifier.Dispatch(notify.VotingClosed(result.Period, result.Winner.ClubBook, result.Winner.Votes, caller.ID))

	return result, nil
}

// ConcludeReading closes the period and marks its book as read.
func (s *Service) ConcludeReading(ctx context.Context, periodID, username string) (ConcludeResult, error) {
	caller, period, err := s.authorizeTransition(ctx, periodID, username,
		"Solo owners y moderadores pueden concluir períodos")
	if err != nil {
		return ConcludeResult{}, err
	}
	if period.Status != models.StatusReading {
		return ConcludeResult{}, errNotReading()
	}
	if period.WinnerClubBookID == nil {
		return ConcludeResult{}, fmt.Errorf("period %s is reading without a winning book", periodID)
	}
	bookID := *period.WinnerClubBookID

	now := s.now().UTC()
	var result ConcludeResult
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.TransitionPeriod(ctx, periodID, models.StatusReading, models.StatusClosed, nil, now); err != nil {
			return err
		}
		if err := q.SetClubBookStatus(ctx, bookID, models.BookRead); err != nil {
			return fmt.Errorf("failed to mark book read: %w", err)
		}

		updated, err := q.PeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		book, err := q.ClubBookByID(ctx, bookID)
		if err != nil {
			return fmt.Errorf("failed to load book read: %w", err)
		}

		result = ConcludeResult{Period: updated, BookRead: book}
		return nil
	})
	if errors.Is(err, store.ErrStale) {
		return ConcludeResult{}, errNotReading()
	}
	if err != nil {
		return ConcludeResult{}, err
	}

	s.logger.Info("reading concluded",
		zap.String("period_id", periodID),
		zap.String("club_book_id", bookID))
	s.notifier.Dispatch(notify.ReadingConcluded(result.Period, result.BookRead, caller.ID))

	return result, nil
}

// History lists the club's closed periods, newest first, with final tallies.
func (s *Service) History(ctx context.Context, clubID string) ([]models.PeriodDetail, error) {
	closed, err := s.store.ClosedPeriods(ctx, clubID)
	if err != nil {
		return nil, err
	}

	history := make([]models.PeriodDetail, 0, len(closed))
	for _, p := range closed {
		detail, err := s.detail(ctx, s.store.Queries, p)
		if err != nil {
			return nil, err
		}
		history = append(history, detail)
	}
	return history, nil
}

// detail expands a period with its tallies and, once decided, its winning book.
func (s *Service) detail(ctx context.Context, q *store.Queries, p models.ReadingPeriod) (models.PeriodDetail, error) {
	tallies, err := q.OptionTallies(ctx, p.ID)
	if err != nil {
		return models.PeriodDetail{}, err
	}

	detail := models.PeriodDetail{
		ReadingPeriod: p,
		Options:       tallies,
		TotalVotes:    TotalVotes(tallies),
	}
	if p.WinnerClubBookID != nil {
		book, err := q.ClubBookByID(ctx, *p.WinnerClubBookID)
		if err != nil {
			return models.PeriodDetail{}, fmt.Errorf("failed to load winning book: %w", err)
		}
		detail.WinningBook = &book
	}
	return detail, nil
}

func (s *Service) authorizeTransition(ctx context.Context, periodID, username, forbidden string) (models.User, models.ReadingPeriod, error) {
	caller, err := s.caller(ctx, username)
	if err != nil {
		return models.User{}, models.ReadingPeriod{}, err
	}

	period, err := s.period(ctx, periodID)
	if err != nil {
		return models.User{}, models.ReadingPeriod{}, err
	}

	role, err := s.role(ctx, caller.ID, period.ClubID)
	if err != nil {
		return models.User{}, models.ReadingPeriod{}, err
	}
	if !permissions.CanManage(role) {
		return models.User{}, models.ReadingPeriod{}, newError(KindForbidden, "%s", forbidden)
	}
	return caller, period, nil
}

func (s *Service) caller(ctx context.Context, username string) (models.User, error) {
	user, err := auth.ResolveCaller(ctx, s.store, username)
	switch {
	case errors.Is(err, auth.ErrMissingUsername), errors.Is(err, auth.ErrInvalidUsername):
		return models.User{}, newError(KindInvalidInput, "Nombre de usuario inválido")
	case errors.Is(err, auth.ErrUnknownUser):
		return models.User{}, newError(KindNotFound, "Usuario no encontrado")
	}
	return user, err
}

func (s *Service) period(ctx context.Context, periodID string) (models.ReadingPeriod, error) {
	p, err := s.store.PeriodByID(ctx, periodID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ReadingPeriod{}, newError(KindNotFound, "Período de lectura no encontrado")
	}
	return p, err
}

func (s *Service) role(ctx context.Context, userID, clubID string) (models.Role, error) {
	role, err := s.perms.RoleFor(ctx, userID, clubID)
	if errors.Is(err, permissions.ErrClubNotFound) {
		return models.RoleNone, newError(KindNotFound, "Club no encontrado")
	}
	return role, err
}

func errNotVoting() *Error {
	return newError(KindInvalidState, "Este período no está en votación")
}

func errNotReading() *Error {
	return newError(KindInvalidState, "Este período no está en lectura")
}

func errDuplicateVote() *Error {
	return newError(KindConflict, "Ya has votado por esta opción")
}
