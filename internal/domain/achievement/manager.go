package achievement

import (
	"github.com/mushroomhunter/backend/internal/domain/event"
)

// State is the set of achievements unlocked by a user.
type State struct {
	UserID   string
	Unlocked map[string]bool

	// Newly keeps the codes unlocked since the state was loaded, in unlock
	// order, so the caller knows what to persist.
	Newly []string
}

func NewState(userID string, codes ...string) *State {
	state := &State{UserID: userID, Unlocked: make(map[string]bool, len(codes))}
	for _, c := range codes {
		state.Unlocked[c] = true
	}

	return state
}

type Manager struct {
	// This field is only written at initialization. After that, it is readonly.
	// So no need to use sync map here.
	definitions map[string]Definition
	order       []string
}

func NewManager(definitions ...Definition) *Manager {
	m := &Manager{definitions: make(map[string]Definition)}
	for _, d := range definitions {
		if _, ok := m.definitions[d.Code]; !ok {
			m.order = append(m.order, d.Code)
		}
		m.definitions[d.Code] = d
	}

	return m
}

func (m *Manager) Get(code string) (Definition, bool) {
	d, ok := m.definitions[code]
	return d, ok
}

func (m *Manager) All() []Definition {
	result := make([]Definition, 0, len(m.order))
	for _, code := range m.order {
		result = append(result, m.definitions[code])
	}

	return result
}

// CheckAndUnlock unlocks the achievement if its condition holds. It returns
// the reward points, an already unlocked or unknown code is a no-op.
func (m *Manager) CheckAndUnlock(
	state *State, stats Stats, trigger Trigger, code string,
) (int, []event.Event) {
	d, ok := m.definitions[code]
	if !ok || state.Unlocked[code] || d.Condition == nil {
		return 0, nil
	}

	if !d.Condition(trigger, stats) {
		return 0, nil
	}

	return m.unlock(state, d)
}

// Grant unlocks the achievement without checking its condition.
func (m *Manager) Grant(state *State, code string) (int, []event.Event) {
	d, ok := m.definitions[code]
	if !ok || state.Unlocked[code] {
		return 0, nil
	}

	return m.unlock(state, d)
}

// Scan runs CheckAndUnlock for every achievement of the catalog.
func (m *Manager) Scan(state *State, stats Stats, trigger Trigger) (int, []event.Event) {
	total := 0
	var events []event.Event
	for _, code := range m.order {
		points, unlocked := m.CheckAndUnlock(state, stats, trigger, code)
		total += points
		events = append(events, unlocked...)
	}

	return total, events
}

func (m *Manager) unlock(state *State, d Definition) (int, []event.Event) {
	if state.Unlocked == nil {
		state.Unlocked = make(map[string]bool)
	}

	state.Unlocked[d.Code] = true
	state.Newly = append(state.Newly, d.Code)

	return d.Points, []event.Event{
		event.New(event.AchievementUnlocked, state.UserID, event.AchievementUnlockedPayload{
			Code:        d.Code,
			Title:       d.Title,
			Description: d.Description,
			Points:      d.Points,
		}),
	}
}
