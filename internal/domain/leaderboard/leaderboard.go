package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/mushroomhunter/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]Entry, error)

	// GetRank returns 0 if the user has no find in the period.
	GetRank(ctx context.Context, userID string, period entity.LeaderBoardPeriodType) (uint64, error)

	ChangePointLeaderboard(ctx context.Context, value int64, foundAt time.Time, userID string) error

	// WarmUp rebuilds the cached board of the period from the database.
	WarmUp(ctx context.Context, period entity.LeaderBoardPeriodType) error
}

type leaderboard struct {
	findRepo    repository.FindRepository
	redisClient xredis.Client
}

func New(findRepo repository.FindRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{findRepo: findRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]Entry, error) {
	key := redisKeyPointLeaderBoard(period)
	if err := l.ensureLoaded(ctx, key, period); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	if len(results) == 0 {
		return []Entry{}, nil
	}

	// Redis breaks ties by member in reverse order. Load every member in the
	// score band of the page, so the users tied at the page boundaries can be
	// re-ranked by user id.
	high := int64(results[0].Score)
	low := int64(results[len(results)-1].Score)

	above, err := l.redisClient.ZCountAbove(ctx, key, high)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count members above score: %v", err)
		return nil, errorx.Unknown
	}

	band, err := l.redisClient.ZRangeByScoreWithScores(ctx, key, low, high)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get range by score redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := make([]Entry, 0, len(band))
	for _, z := range band {
		entries = append(entries, toEntry(z))
	}

	ranked := Rank(entries)
	for i := range ranked {
		ranked[i].Rank += int(above)
	}

	start := offset - int(above)
	if start < 0 {
		start = 0
	}
	if start > len(ranked) {
		return []Entry{}, nil
	}

	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	return ranked[start:end], nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, period entity.LeaderBoardPeriodType,
) (uint64, error) {
	key := redisKeyPointLeaderBoard(period)
	if err := l.ensureLoaded(ctx, key, period); err != nil {
		return 0, err
	}

	score, err := l.redisClient.ZScore(ctx, key, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get score redis: %v", err)
		return 0, errorx.Unknown
	}

	above, err := l.redisClient.ZCountAbove(ctx, key, score)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count members above score: %v", err)
		return 0, errorx.Unknown
	}

	tied, err := l.redisClient.ZRangeByScoreWithScores(ctx, key, score, score)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get range by score redis: %v", err)
		return 0, errorx.Unknown
	}

	before := 0
	for _, z := range tied {
		if member, _ := z.Member.(string); member < userID {
			before++
		}
	}

	return above + uint64(before) + 1, nil
}

// ChangePointLeaderboard adds the points of a find to every cached board
// containing it. Boards which are not cached yet will be loaded with the find
// from the database.
//
// The Exist check is not atomic with a concurrent load: a find committed
// between the Statistic query and the ZAdd of the loader is counted twice or
// not at all. Every board expires after common.LeaderboardTTL, so the drift
// lasts until the next rebuild.
func (l *leaderboard) ChangePointLeaderboard(
	ctx context.Context, value int64, foundAt time.Time, userID string,
) error {
	for _, period := range AllPeriods(foundAt) {
		key := redisKeyPointLeaderBoard(period)
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			return errorx.Unknown
		}

		// If the key didn't exist in redis, no need to update.
		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		}
	}

	return nil
}

func (l *leaderboard) WarmUp(ctx context.Context, period entity.LeaderBoardPeriodType) error {
	key := redisKeyPointLeaderBoard(period)
	if err := l.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete leaderboard key: %v", err)
		return errorx.Unknown
	}

	return l.loadLeaderboardFromDB(ctx, key, period)
}

func (l *leaderboard) ensureLoaded(
	ctx context.Context, key string, period entity.LeaderBoardPeriodType,
) error {
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		return l.loadLeaderboardFromDB(ctx, key, period)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(
	ctx context.Context, key string, period entity.LeaderBoardPeriodType,
) error {
	statistics, err := l.findRepo.Statistic(ctx, repository.FindFilter{
		StartTime: period.Start(),
		EndTime:   period.End(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load statistic from database: %v", err)
		return errorx.Unknown
	}

	members := make([]redis.Z, 0, len(statistics))
	for _, s := range statistics {
		members = append(members, redis.Z{Member: s.UserID, Score: float64(s.Points)})
	}

	if err := l.redisClient.ZAdd(ctx, key, members...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
		return errorx.Unknown
	}

	if err := l.redisClient.Expire(ctx, key, common.LeaderboardTTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set expiration of leaderboard: %v", err)
	}

	return nil
}

func toEntry(z redis.Z) Entry {
	member, _ := z.Member.(string)
	return Entry{UserID: member, Points: int(z.Score)}
}
