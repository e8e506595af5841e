package leaderboard

import (
	"fmt"

	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/internal/entity"
)

func redisKeyPointLeaderBoard(period entity.LeaderBoardPeriodType) string {
	return fmt.Sprintf("%s:point:%s", common.RedisKeyLeaderboardPrefix, period.Period())
}
