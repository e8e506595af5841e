package event

import (
	"context"
	"testing"

	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

type recordPublisher struct {
	packs []*pubsub.Pack
}

func (p *recordPublisher) Publish(_ context.Context, _ string, pack *pubsub.Pack) error {
	p.packs = append(p.packs, pack)
	return nil
}

func TestPublishAndDecode(t *testing.T) {
	publisher := &recordPublisher{}
	Publish(context.Background(), publisher, "events",
		New(LevelUp, "user1", LevelUpPayload{Level: 3, ExperienceToNextLevel: 225}),
		New(AchievementUnlocked, "user1", AchievementUnlockedPayload{Code: "first_find", Title: "First Find", Points: 50}),
	)
	require.Len(t, publisher.packs, 2)
	require.Equal(t, []byte("user1"), publisher.packs[0].Key)

	e, err := Parse(publisher.packs[0])
	require.NoError(t, err)
	require.Equal(t, LevelUp, e.Kind)

	levelUp, err := Decode[LevelUpPayload](e)
	require.NoError(t, err)
	require.Equal(t, LevelUpPayload{Level: 3, ExperienceToNextLevel: 225}, levelUp)

	e, err = Parse(publisher.packs[1])
	require.NoError(t, err)
	unlocked, err := Decode[AchievementUnlockedPayload](e)
	require.NoError(t, err)
	require.Equal(t, "first_find", unlocked.Code)
	require.Equal(t, 50, unlocked.Points)
}
