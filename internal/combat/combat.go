// Package combat resolves turn-based fights between the player and a
// creature.
package combat

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPlayerWin Status = "player_win"
	StatusEnemyWin  Status = "enemy_win"
	StatusFled      Status = "fled"
)

type Action string

const (
	ActionAttack          Action = "attack"
	ActionDefend          Action = "defend"
	ActionSpecialAttack   Action = "special_attack"
	ActionAnalyzeWeakness Action = "analyze_weakness"
	ActionFlee            Action = "flee"
)

const (
	// DefendBoost is added to defense on every defend.
	DefendBoost = 2
	// SpecialAttackPower multiplies the base roll of a special attack.
	SpecialAttackPower = 1.5
	// FleeChance is the probability an escape attempt succeeds.
	FleeChance = 0.7
	// EnemyDefendChance is the probability the enemy defends on its turn.
	EnemyDefendChance = 0.2
	// AnalyzeSkill and AnalyzeLevel gate analyze_weakness.
	AnalyzeSkill = "wilderness_survival"
	AnalyzeLevel = 3
)

// Session is one fight. Turns alternate strictly, player first.
type Session struct {
	ID         string
	CreatureID string
	Player     Fighter
	Enemy      Fighter
	Actions    []Action
	Status     Status
	Log        []string
	Outcome    *Outcome
}

func (s *Session) logf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	s.Log = append(s.Log, msg)
	return msg
}

func (s *Session) clone() Session {
	c := *s
	c.Actions = slices.Clone(s.Actions)
	c.Log = slices.Clone(s.Log)
	if s.Outcome != nil {
		o := *s.Outcome
		o.Loot = slices.Clone(s.Outcome.Loot)
		c.Outcome = &o
	}
	return c
}

// Looter receives loot as ordinary pickups.
type Looter interface {
	AddItem(itemID string, qty int) (game.ItemInstance, error)
}

// Manager owns the combat sessions of one game. Results are written to the
// store while the manager is locked, so store subscribers must not call back
// into it.
type Manager struct {
	mu       sync.Mutex
	store    *game.Store
	dict     *game.Dictionary
	rng      rng.Source
	looter   Looter
	tracker  game.ProgressTracker
	sessions map[string]*Session
}

// NewManager creates a combat Manager. tracker may be nil.
func NewManager(store *game.Store, dict *game.Dictionary, src rng.Source, looter Looter, tracker game.ProgressTracker) *Manager {
	return &Manager{
		store:    store,
		dict:     dict,
		rng:      src,
		looter:   looter,
		tracker:  tracker,
		sessions: make(map[string]*Session),
	}
}

// Start opens a session against creatureID. Only one fight may be active at
// a time; finished sessions are discarded.
func (m *Manager) Start(creatureID string) (Session, error) {
	c, err := m.dict.Creature(creatureID)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.Status == StatusActive {
			return Session{}, game.Fail(game.ErrActionUnavailable, "you are already fighting %s", s.Enemy.Name)
		}
		delete(m.sessions, id)
	}

	pl := m.store.Player()
	s := &Session{
		ID:         uuid.New().String(),
		CreatureID: creatureID,
		Player:     NewPlayerFighter(pl),
		Enemy:      NewEnemyFighter(m.rng, c, pl.Level),
		Actions:    AvailableActions(pl),
		Status:     StatusActive,
	}
	s.logf("Combat begins against %s (level %d)!", s.Enemy.Name, s.Enemy.Level)
	m.sessions[s.ID] = s
	return s.clone(), nil
}

// AvailableActions lists what the player may do in combat.
func AvailableActions(p game.PlayerState) []Action {
	actions := []Action{ActionAttack, ActionDefend}
	if _, ok := p.Equipment[game.SlotWeapon]; ok {
		actions = append(actions, ActionSpecialAttack)
	}
	if p.SkillLevel(AnalyzeSkill) >= AnalyzeLevel {
		actions = append(actions, ActionAnalyzeWeakness)
	}
	return append(actions, ActionFlee)
}

// Session returns a copy of a session.
func (m *Manager) Session(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// Active returns the running session, if any.
func (m *Manager) Active() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Status == StatusActive {
			return s.clone(), true
		}
	}
	return Session{}, false
}

// TurnResult is the outcome of one player action and the enemy's reply.
type TurnResult struct {
	Session  Session
	Messages []string
}

// Act resolves the player's action followed, if the fight goes on, by the
// enemy's turn.
func (m *Manager) Act(sessionID string, action Action) (TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return TurnResult{}, game.Fail(game.ErrCombatNotFound, "no such combat")
	}
	if s.Status != StatusActive {
		return TurnResult{}, game.Fail(game.ErrCombatNotActive, "this combat is already over")
	}
	if !slices.Contains(s.Actions, action) {
		return TurnResult{}, game.Fail(game.ErrActionUnavailable, "you cannot %s right now", action)
	}

	var msgs []string
	if action == ActionFlee {
		msgs = m.flee(s)
	} else {
		msgs = append(msgs, m.playerTurn(s, action))
		if !s.Enemy.IsAlive() {
			msgs = append(msgs, m.finish(s, StatusPlayerWin)...)
		} else {
			msgs = append(msgs, m.enemyTurn(s))
			if !s.Player.IsAlive() {
				msgs = append(msgs, m.finish(s, StatusEnemyWin)...)
			}
		}
	}

	return TurnResult{Session: s.clone(), Messages: msgs}, nil
}

func (m *Manager) playerTurn(s *Session, action Action) string {
	p, e := &s.Player, &s.Enemy
	switch action {
	case ActionAttack, ActionSpecialAttack:
		power := 1.0
		if action == ActionSpecialAttack {
			power = SpecialAttackPower
		}
		dmg := RollDamage(m.rng, p.Damage, power, e.EffectiveDefense())
		e.ApplyDamage(dmg)
		return s.logf("You %s %s for %d damage.", verbFor(action), e.Name, dmg)
	case ActionDefend:
		p.DefenseBoost += DefendBoost
		return s.logf("You brace yourself. Defense is now %d.", p.EffectiveDefense())
	case ActionAnalyzeWeakness:
		return s.logf("You study %s: level %d, health %d/%d, strength %d, defense %d.",
			e.Name, e.Level, e.Health, e.MaxHealth, e.Strength, e.EffectiveDefense())
	}
	return ""
}

func verbFor(action Action) string {
	if action == ActionSpecialAttack {
		return "unleash a special attack on"
	}
	return "strike"
}

func (m *Manager) enemyTurn(s *Session) string {
	e, p := &s.Enemy, &s.Player
	if rng.Chance(m.rng, EnemyDefendChance) {
		e.DefenseBoost += DefendBoost
		return s.logf("%s takes a defensive stance.", e.Name)
	}
	dmg := RollDamage(m.rng, e.Damage, 1, p.EffectiveDefense())
	p.ApplyDamage(dmg)
	return s.logf("%s %s you for %d damage.", e.Name, DamageVerb(dmg), dmg)
}

// flee ends the fight on success. On failure the enemy gets one free attack
// that ignores the player's defensive stance.
func (m *Manager) flee(s *Session) []string {
	if rng.Chance(m.rng, FleeChance) {
		msg := s.logf("You escape from %s!", s.Enemy.Name)
		m.finish(s, StatusFled)
		return []string{msg}
	}

	dmg := RollDamage(m.rng, s.Enemy.Damage, 1, s.Player.Defense)
	s.Player.ApplyDamage(dmg)
	msgs := []string{s.logf("You fail to escape! %s %s you for %d damage.", s.Enemy.Name, DamageVerb(dmg), dmg)}
	if !s.Player.IsAlive() {
		msgs = append(msgs, m.finish(s, StatusEnemyWin)...)
	}
	return msgs
}
