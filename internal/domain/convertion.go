package domain

import (
	"strconv"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
)

const defaultDateLayout string = "2006-01-02"

func convertProgression(p *entity.Progression) model.Progression {
	if p == nil {
		return model.Progression{}
	}

	result := model.Progression{
		UserID:                p.UserID,
		TotalPoints:           p.TotalPoints,
		Experience:            p.Experience,
		Level:                 p.Level,
		ExperienceToNextLevel: p.ExperienceToNextLevel,
		DailyStreak:           p.DailyStreak,
		LongestStreak:         p.LongestStreak,
		MushroomsFound:        p.MushroomsFound,
		RareFinds:             p.RareFinds,
		SpotsShared:           p.SpotsShared,
	}

	if p.LastActiveDate.Valid {
		result.LastActiveDate = p.LastActiveDate.Time.Format(defaultDateLayout)
	}

	return result
}

func convertEvents(events []event.Event) []model.Event {
	result := []model.Event{}
	for _, e := range events {
		result = append(result, model.Event{Kind: string(e.Kind), Payload: e.Payload})
	}

	return result
}

func convertUser(u *entity.User) model.User {
	if u == nil {
		return model.User{}
	}

	return model.User{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

func convertQuest(q *entity.Quest) model.Quest {
	requirements := []model.Requirement{}
	for _, r := range q.Requirements {
		requirements = append(requirements, model.Requirement{
			Type:     string(r.Type),
			Target:   r.Target,
			Current:  r.Current,
			Metadata: r.Metadata,
		})
	}

	var completedAt *time.Time
	if q.CompletedAt.Valid {
		completedAt = &q.CompletedAt.Time
	}

	return model.Quest{
		ID:                q.ID,
		Title:             q.Title,
		Description:       q.Description,
		Type:              string(q.Type),
		Requirements:      requirements,
		RewardPoints:      q.RewardPoints,
		RewardAchievement: q.RewardAchievement.String,
		ExpiresAt:         q.ExpiresAt,
		CompletedAt:       completedAt,
	}
}

func convertQueuedAction(a *entity.QueuedAction) model.QueuedAction {
	return model.QueuedAction{
		ID:         strconv.FormatInt(a.ID, 10),
		Type:       string(a.Type),
		Data:       a.Data,
		Timestamp:  a.Timestamp,
		RetryCount: a.RetryCount,
		LastError:  a.LastError,
	}
}
