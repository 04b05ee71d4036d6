package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pable/go-teamsheet/internal/model"
)

// SuggestionError blocks a teamsheet write because some names look like typos of existing
// players. Resubmitting with force skips the check.
type SuggestionError struct {
	Suggestions []string
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("possible duplicate players: %s", strings.Join(e.Suggestions, "; "))
}

// Is makes a SuggestionError match model.ErrValidation.
func (e *SuggestionError) Is(target error) bool {
	return target == model.ErrValidation
}

func (s *Service) advise(ctx context.Context, sheet model.Teamsheet, force bool) error {
	if force {
		return nil
	}
	msgs, err := s.CheckTeamsheet(ctx, sheet.Players)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return &SuggestionError{Suggestions: msgs}
	}
	return nil
}

// RecordTeamsheet stores a new match. Unless force is set, names that look like typos of
// existing players reject the write with a *SuggestionError.
func (s *Service) RecordTeamsheet(ctx context.Context, sheet model.Teamsheet, force bool) (int64, error) {
	if err := s.advise(ctx, sheet, force); err != nil {
		return 0, err
	}
	id, err := s.store.RecordTeamsheet(ctx, sheet)
	if err != nil {
		s.logWriteErr("record teamsheet", err)
		return 0, err
	}
	s.invalidate()
	s.log.Info("teamsheet recorded",
		zap.Int64("match_id", id),
		zap.String("season", sheet.Season),
		zap.String("opposition", sheet.Opposition),
		zap.Bool("forced", force))
	return id, nil
}

// UpdateTeamsheet replaces an existing match and its appearances.
func (s *Service) UpdateTeamsheet(ctx context.Context, id int64, sheet model.Teamsheet, force bool) error {
	if err := s.advise(ctx, sheet, force); err != nil {
		return err
	}
	if err := s.store.UpdateTeamsheet(ctx, id, sheet); err != nil {
		s.logWriteErr("update teamsheet", err)
		return err
	}
	s.invalidate()
	s.log.Info("teamsheet updated", zap.Int64("match_id", id))
	return nil
}

// DeleteMatch removes a match and its appearances.
func (s *Service) DeleteMatch(ctx context.Context, id int64) error {
	if err := s.store.DeleteMatch(ctx, id); err != nil {
		s.logWriteErr("delete match", err)
		return err
	}
	s.invalidate()
	s.log.Info("match deleted", zap.Int64("match_id", id))
	return nil
}

// ImportTeamsheets stores a batch of legacy sheets without fuzzy checks.
func (s *Service) ImportTeamsheets(ctx context.Context, sheets []model.Teamsheet) (int, error) {
	n, err := s.store.ImportTeamsheets(ctx, sheets)
	if err != nil {
		s.logWriteErr("import teamsheets", err)
		return 0, err
	}
	s.invalidate()
	s.log.Info("teamsheets imported", zap.Int("matches", n))
	return n, nil
}

// MergePlayers folds names into canonical. See storage.DB.MergePlayers for the rules.
func (s *Service) MergePlayers(ctx context.Context, names []string, canonical string) (*model.MergeResult, error) {
	res, err := s.store.MergePlayers(ctx, names, canonical)
	if err != nil {
		s.logWriteErr("merge players", err)
		return nil, err
	}
	s.invalidate()
	s.log.Info("players merged",
		zap.String("canonical", res.Canonical),
		zap.Strings("merged", res.Merged),
		zap.Int("reassigned", res.Reassigned),
		zap.String("audit_id", res.AuditID))
	return res, nil
}

func (s *Service) logWriteErr(op string, err error) {
	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		s.log.Warn("write rolled back", zap.String("op", op), zap.Error(err))
	}
}
