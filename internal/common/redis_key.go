package common

import "time"

const RedisKeyLeaderboardPrefix = "leaderboard"

// LeaderboardTTL bounds how long a cached leaderboard lives before it is
// rebuilt from the find history.
const LeaderboardTTL = time.Hour
