package domain

import (
	"context"
	"errors"
	"time"

	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/domain/progression"
	"github.com/mushroomhunter/backend/internal/domain/questengine"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// progressSession is the state of a user loaded for one read-modify-write.
type progressSession struct {
	progression  *entity.Progression
	achievements *achievement.State
	events       []event.Event
	isNew        bool
}

// progressWriter owns the steps shared by every write on the progression of a
// user. All methods must run inside a transaction holding the user lock.
type progressWriter struct {
	progressionRepo repository.ProgressionRepository
	achievementRepo repository.UnlockedAchievementRepository
	questRepo       repository.QuestRepository
	findRepo        repository.FindRepository
	ledger          *progression.Ledger
	achievements    *achievement.Manager
}

func (w *progressWriter) load(ctx context.Context, userID string) (*progressSession, error) {
	s := &progressSession{}

	p, err := w.progressionRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get progression: %v", err)
			return nil, errorx.Unknown
		}

		p = w.ledger.NewState(userID)
		s.isNew = true
	}
	s.progression = p

	unlocked, err := w.achievementRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get unlocked achievements: %v", err)
		return nil, errorx.Unknown
	}

	codes := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		codes = append(codes, a.Code)
	}
	s.achievements = achievement.NewState(userID, codes...)

	return s, nil
}

func (w *progressWriter) addPoints(s *progressSession, points int, source string) error {
	events, err := w.ledger.AddPoints(s.progression, points, source)
	if err != nil {
		return err
	}

	if points > 0 {
		common.PromCounters[common.PointsAwardedTotal].WithLabelValues(source).Add(float64(points))
	}

	s.events = append(s.events, events...)
	return nil
}

func (w *progressWriter) updateStreak(s *progressSession, now time.Time) {
	// Replayed offline activities may be older than the last active date, they
	// cannot extend a streak anymore.
	if last := s.progression.LastActiveDate; last.Valid && now.Before(last.Time) {
		return
	}

	s.events = append(s.events, w.ledger.UpdateDailyStreak(s.progression, now)...)
}

func (w *progressWriter) grant(s *progressSession, code string) error {
	points, events := w.achievements.Grant(s.achievements, code)
	s.events = append(s.events, events...)
	return w.addPoints(s, points, "achievement")
}

// trackQuests applies track to every active quest, then completes and rewards
// the quests whose requirements are all met.
func (w *progressWriter) trackQuests(
	ctx context.Context,
	s *progressSession,
	now time.Time,
	track func(*entity.Quest) (bool, error),
) error {
	quests, err := w.questRepo.GetActive(ctx, s.progression.UserID, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active quests: %v", err)
		return errorx.Unknown
	}

	for i := range quests {
		quest := &quests[i]
		changed, err := track(quest)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot track quest %s: %v", quest.ID, err)
			continue
		}

		if !changed {
			continue
		}

		reward, completed := questengine.EvaluateCompletion(quest, now)
		if err := w.questRepo.UpdateProgress(ctx, quest); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update quest progress: %v", err)
			return errorx.Unknown
		}

		if !completed {
			continue
		}

		common.PromCounters[common.QuestCompletedTotal].WithLabelValues(string(quest.Type)).Inc()
		s.events = append(s.events, event.New(event.QuestCompleted, s.progression.UserID,
			event.QuestCompletedPayload{
				QuestID:           quest.ID,
				Title:             quest.Title,
				RewardPoints:      reward.Points,
				RewardAchievement: reward.Achievement,
			}))

		if err := w.addPoints(s, reward.Points, "quest"); err != nil {
			return err
		}

		if reward.Achievement != "" {
			if err := w.grant(s, reward.Achievement); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *progressWriter) scanAchievements(
	ctx context.Context, s *progressSession, trigger achievement.Trigger,
) error {
	species, err := w.findRepo.CountDistinctSpecies(ctx, s.progression.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count distinct species: %v", err)
		return errorx.Unknown
	}

	stats := achievement.Stats{
		MushroomsFound:  s.progression.MushroomsFound,
		RareFinds:       s.progression.RareFinds,
		DistinctSpecies: int(species),
		SpotsShared:     s.progression.SpotsShared,
		DailyStreak:     s.progression.DailyStreak,
	}

	points, events := w.achievements.Scan(s.achievements, stats, trigger)
	s.events = append(s.events, events...)
	return w.addPoints(s, points, "achievement")
}

func (w *progressWriter) save(ctx context.Context, s *progressSession, now time.Time) error {
	var err error
	if s.isNew {
		err = w.progressionRepo.Create(ctx, s.progression)
	} else {
		err = w.progressionRepo.Update(ctx, s.progression)
	}

	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			xcontext.Logger(ctx).Infof("Progression of user %s was updated concurrently", s.progression.UserID)
			return errorx.New(errorx.Conflict, "Progression was updated concurrently, please retry")
		}

		xcontext.Logger(ctx).Errorf("Cannot save progression: %v", err)
		return errorx.Unknown
	}

	unlocked := make([]*entity.UnlockedAchievement, 0, len(s.achievements.Newly))
	for _, code := range s.achievements.Newly {
		unlocked = append(unlocked, &entity.UnlockedAchievement{
			UserID:     s.progression.UserID,
			Code:       code,
			UnlockedAt: now,
		})

		common.PromCounters[common.AchievementUnlockedTotal].WithLabelValues(code).Inc()
	}

	if err := w.achievementRepo.Create(ctx, unlocked...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save unlocked achievements: %v", err)
		return errorx.Unknown
	}

	return nil
}
