package domain

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/domain/questengine"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/enum"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type QuestDomain interface {
	Create(context.Context, *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
	GetActive(context.Context, *model.GetActiveQuestsRequest) (*model.GetActiveQuestsResponse, error)
	GetCompleted(context.Context, *model.GetCompletedQuestsRequest) (*model.GetCompletedQuestsResponse, error)
}

type questDomain struct {
	questRepo    repository.QuestRepository
	achievements *achievement.Manager
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	achievements *achievement.Manager,
) *questDomain {
	return &questDomain{questRepo: questRepo, achievements: achievements}
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	questType, err := enum.ToEnum[entity.QuestType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid quest type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", req.Type)
	}

	if !req.ExpiresAt.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "Quest must expire in the future")
	}

	quest := &entity.Quest{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         questType,
		RewardPoints: req.RewardPoints,
		ExpiresAt:    req.ExpiresAt,
	}

	if req.RewardAchievement != "" {
		if _, ok := d.achievements.Get(req.RewardAchievement); !ok {
			return nil, errorx.New(errorx.BadRequest, "Unknown reward achievement %s", req.RewardAchievement)
		}

		quest.RewardAchievement = sql.NullString{Valid: true, String: req.RewardAchievement}
	}

	for _, r := range req.Requirements {
		reqType, err := enum.ToEnum[entity.RequirementType](r.Type)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid requirement type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid requirement type %s", r.Type)
		}

		requirement := entity.Requirement{
			Type:     reqType,
			Target:   r.Target,
			Current:  r.Current,
			Metadata: r.Metadata,
		}

		// Reject metadata which cannot be decoded now rather than at the first
		// tracked event.
		if _, err := questengine.DecodeMetadata(requirement); err != nil {
			xcontext.Logger(ctx).Debugf("Invalid requirement metadata: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid metadata of requirement %s", r.Type)
		}

		quest.Requirements = append(quest.Requirements, requirement)
	}

	if err := d.questRepo.Create(ctx, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestResponse{ID: quest.ID}, nil
}

func (d *questDomain) GetActive(
	ctx context.Context, req *model.GetActiveQuestsRequest,
) (*model.GetActiveQuestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	quests, err := d.questRepo.GetActive(ctx, userID, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active quests: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Quest{}
	for i := range quests {
		result = append(result, convertQuest(&quests[i]))
	}

	return &model.GetActiveQuestsResponse{Quests: result}, nil
}

func (d *questDomain) GetCompleted(
	ctx context.Context, req *model.GetCompletedQuestsRequest,
) (*model.GetCompletedQuestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	quests, err := d.questRepo.GetCompleted(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completed quests: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Quest{}
	for i := range quests {
		result = append(result, convertQuest(&quests[i]))
	}

	return &model.GetCompletedQuestsResponse{Quests: result}, nil
}
