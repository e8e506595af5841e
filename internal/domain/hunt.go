package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/domain/leaderboard"
	"github.com/mushroomhunter/backend/internal/domain/progression"
	"github.com/mushroomhunter/backend/internal/domain/questengine"
	"github.com/mushroomhunter/backend/internal/domain/scoring"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/dateutil"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// maxClockSkew is how far in the future a capture time may be.
const maxClockSkew = 5 * time.Minute

type HuntDomain interface {
	RecordFind(context.Context, *model.RecordFindRequest) (*model.RecordFindResponse, error)
	DailyLogin(context.Context, *model.DailyLoginRequest) (*model.DailyLoginResponse, error)
	ShareSpot(context.Context, *model.ShareSpotRequest) (*model.ShareSpotResponse, error)
	GetProgress(context.Context, *model.GetProgressRequest) (*model.GetProgressResponse, error)
}

type huntDomain struct {
	writer      *progressWriter
	findRepo    repository.FindRepository
	leaderboard leaderboard.Leaderboard
	publisher   pubsub.Publisher
	scoring     *scoring.Model
	locker      *userLocker
	clock       func() time.Time
}

func NewHuntDomain(
	progressionRepo repository.ProgressionRepository,
	achievementRepo repository.UnlockedAchievementRepository,
	questRepo repository.QuestRepository,
	findRepo repository.FindRepository,
	leaderboard leaderboard.Leaderboard,
	achievements *achievement.Manager,
	publisher pubsub.Publisher,
	ledger *progression.Ledger,
	scoring *scoring.Model,
) *huntDomain {
	return &huntDomain{
		writer: &progressWriter{
			progressionRepo: progressionRepo,
			achievementRepo: achievementRepo,
			questRepo:       questRepo,
			findRepo:        findRepo,
			ledger:          ledger,
			achievements:    achievements,
		},
		findRepo:    findRepo,
		leaderboard: leaderboard,
		publisher:   publisher,
		scoring:     scoring,
		locker:      newUserLocker(),
		clock:       time.Now,
	}
}

func (d *huntDomain) RecordFind(
	ctx context.Context, req *model.RecordFindRequest,
) (*model.RecordFindResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	// Quests expire and achievements unlock by the server clock, foundAt is
	// only used for scoring, the streak and the leaderboard periods.
	now := d.clock()
	foundAt := req.FoundAt
	if foundAt.IsZero() {
		foundAt = now
	}

	if foundAt.After(now.Add(maxClockSkew)) {
		return nil, errorx.New(errorx.BadRequest, "Found time is in the future")
	}

	unlock := d.locker.Lock(userID)
	defer unlock()

	txCtx := xcontext.BeginTx(ctx)
	defer xcontext.RollbackTx(txCtx)

	s, err := d.writer.load(txCtx, userID)
	if err != nil {
		return nil, err
	}

	conditions, err := d.findConditions(txCtx, userID, req, foundAt)
	if err != nil {
		return nil, err
	}

	rarity := entity.Rarity(req.Rarity)
	find := &entity.Find{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		MushroomID:   req.MushroomID,
		Rarity:       rarity,
		Confidence:   req.Confidence,
		Points:       d.scoring.ComputePoints(rarity, conditions),
		FoundAt:      foundAt,
		Zone:         req.Zone,
		IsFirstOfDay: conditions.IsFirstOfDay,
		IsNewZone:    conditions.IsNewZone,
		PerfectPhoto: conditions.PerfectPhoto,
		GroupHunt:    conditions.GroupHunt,
		WeatherBonus: conditions.WeatherBonus,
	}

	if req.Latitude != nil && req.Longitude != nil {
		find.Latitude = sql.NullFloat64{Valid: true, Float64: *req.Latitude}
		find.Longitude = sql.NullFloat64{Valid: true, Float64: *req.Longitude}
	}

	if err := d.findRepo.Create(txCtx, find); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create find: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.updateStreak(s, foundAt)
	if err := d.writer.addPoints(s, find.Points, "find"); err != nil {
		return nil, err
	}

	s.progression.MushroomsFound++
	if rarity.AtLeast(entity.RarityRare) {
		s.progression.RareFinds++
	}

	err = d.writer.trackQuests(txCtx, s, now, func(q *entity.Quest) (bool, error) {
		return questengine.TrackFind(q, find, now)
	})
	if err != nil {
		return nil, err
	}

	trigger := achievement.Trigger{Find: find, Now: now}
	if err := d.writer.scanAchievements(txCtx, s, trigger); err != nil {
		return nil, err
	}

	if err := d.writer.save(txCtx, s, now); err != nil {
		return nil, err
	}

	if err := xcontext.CommitTx(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	// The leaderboard only counts the points of finds, so it can be rebuilt
	// from the find history.
	if err := d.leaderboard.ChangePointLeaderboard(ctx, int64(find.Points), foundAt, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot change leaderboard: %v", err)
	}

	d.publish(ctx, s.events)

	return &model.RecordFindResponse{
		FindID:      find.ID,
		Points:      find.Points,
		Progression: convertProgression(s.progression),
		Events:      convertEvents(s.events),
	}, nil
}

func (d *huntDomain) DailyLogin(
	ctx context.Context, req *model.DailyLoginRequest,
) (*model.DailyLoginResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	now := d.clock()
	unlock := d.locker.Lock(userID)
	defer unlock()

	txCtx := xcontext.BeginTx(ctx)
	defer xcontext.RollbackTx(txCtx)

	s, err := d.writer.load(txCtx, userID)
	if err != nil {
		return nil, err
	}

	d.writer.updateStreak(s, now)
	if err := d.writer.scanAchievements(txCtx, s, achievement.Trigger{Now: now}); err != nil {
		return nil, err
	}

	if len(s.events) > 0 || s.isNew {
		if err := d.writer.save(txCtx, s, now); err != nil {
			return nil, err
		}
	}

	if err := xcontext.CommitTx(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, s.events)

	return &model.DailyLoginResponse{
		Progression: convertProgression(s.progression),
		Events:      convertEvents(s.events),
	}, nil
}

func (d *huntDomain) ShareSpot(
	ctx context.Context, req *model.ShareSpotRequest,
) (*model.ShareSpotResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	now := d.clock()
	unlock := d.locker.Lock(userID)
	defer unlock()

	txCtx := xcontext.BeginTx(ctx)
	defer xcontext.RollbackTx(txCtx)

	if req.FindID != "" {
		find, err := d.findRepo.GetByID(txCtx, req.FindID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found find")
			}

			xcontext.Logger(ctx).Errorf("Cannot get find: %v", err)
			return nil, errorx.Unknown
		}

		if find.UserID != userID {
			return nil, errorx.New(errorx.PermissionDenied, "Only the finder can share the spot")
		}
	}

	s, err := d.writer.load(txCtx, userID)
	if err != nil {
		return nil, err
	}

	s.progression.SpotsShared++

	err = d.writer.trackQuests(txCtx, s, now, func(q *entity.Quest) (bool, error) {
		return questengine.TrackShare(q, now), nil
	})
	if err != nil {
		return nil, err
	}

	if err := d.writer.scanAchievements(txCtx, s, achievement.Trigger{Now: now}); err != nil {
		return nil, err
	}

	if err := d.writer.save(txCtx, s, now); err != nil {
		return nil, err
	}

	if err := xcontext.CommitTx(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, s.events)

	return &model.ShareSpotResponse{
		Progression: convertProgression(s.progression),
		Events:      convertEvents(s.events),
	}, nil
}

func (d *huntDomain) GetProgress(
	ctx context.Context, req *model.GetProgressRequest,
) (*model.GetProgressResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	s, err := d.writer.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes := []string{}
	for _, def := range d.writer.achievements.All() {
		if s.achievements.Unlocked[def.Code] {
			codes = append(codes, def.Code)
		}
	}

	return &model.GetProgressResponse{
		Progression:  convertProgression(s.progression),
		Achievements: codes,
	}, nil
}

func (d *huntDomain) findConditions(
	ctx context.Context, userID string, req *model.RecordFindRequest, foundAt time.Time,
) (scoring.Conditions, error) {
	conditions := scoring.Conditions{
		PerfectPhoto: req.PerfectPhoto,
		GroupHunt:    req.GroupHunt,
		WeatherBonus: req.WeatherBonus,
	}

	if conditions.WeatherBonus <= 0 && req.Weather != "" {
		conditions.WeatherBonus = d.scoring.WeatherBonus(req.Weather)
	}

	today, err := d.findRepo.Count(ctx, repository.FindFilter{
		UserID:    userID,
		StartTime: dateutil.BeginningOfDay(foundAt),
		EndTime:   dateutil.NextDay(foundAt),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count finds of day: %v", err)
		return scoring.Conditions{}, errorx.Unknown
	}
	conditions.IsFirstOfDay = today == 0

	if req.Zone != "" {
		inZone, err := d.findRepo.Count(ctx, repository.FindFilter{UserID: userID, Zone: req.Zone})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count finds in zone: %v", err)
			return scoring.Conditions{}, errorx.Unknown
		}
		conditions.IsNewZone = inZone == 0
	}

	return conditions, nil
}

func (d *huntDomain) publish(ctx context.Context, events []event.Event) {
	event.Publish(ctx, d.publisher, xcontext.Configs(ctx).Kafka.EventTopic, events...)
}
