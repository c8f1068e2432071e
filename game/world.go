package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
	"github.com/beka-birhanu/vinom-roads/service/i"
)

// World-related errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidName     = fmt.Errorf("%w: invalid player name", ErrInvalidArgument)
	ErrMapNotFound     = errors.New("map not found")
	ErrTokenNotFound   = errors.New("token not found")
	ErrDuplicateMap    = errors.New("duplicate map id")
	ErrNoTokenizer     = errors.New("tokenizer is required")
)

const (
	defaultBagCapacity    = 3
	defaultRetirementTime = 60 * time.Second
	retiredWriteTimeout   = 5 * time.Second
	maxNameLength         = 100
	maxTokenAttempts      = 8
)

// Config holds the configuration and collaborators of a World.
type Config struct {
	Maps               []*roadmap.Map
	DefaultBagCapacity *int           // 3 when nil
	RetirementTime     time.Duration  // 60s when zero
	SnapshotPeriod     *time.Duration // no periodic snapshots when nil
	RandomSpawn        bool
	RetiredWriter      RetiredWriter // retired players are only logged when nil
	SnapshotStore      SnapshotStore // state is not persisted when nil
	Tokenizer          i.Tokenizer
	Rand               *rand.Rand
	Logger             i.Logger

	// NewLootGenerator is called once per map; generators keep per-map state
	// and must not be shared. No loot spawns when it is nil or returns nil.
	NewLootGenerator func(mapID string) (LootGenerator, error)
}

// MapSummary identifies a map.
type MapSummary struct {
	ID   string
	Name string
}

// State is what a player sees of its map.
type State struct {
	Players []Player
	Loot    []Loot
}

// World owns every map and all players and loot on them.
// All methods are safe for concurrent use; returned data never aliases world state.
type World struct {
	maps     map[string]*roadmap.Map
	mapOrder []string

	players       map[string][]*Player // by map id, in join order
	loot          map[string][]Loot    // by map id
	tokenToPlayer map[string]uint64
	tokenToMap    map[string]string
	playerNames   map[uint64]string

	now          time.Duration
	lastSnapshot time.Duration
	nextPlayerID uint64
	nextLootID   uint64

	defaultBagCapacity int
	retirementTime     time.Duration
	snapshotPeriod     *time.Duration
	randomSpawn        bool

	lootGenerators map[string]LootGenerator // by map id, nil entries spawn nothing
	retiredWriter  RetiredWriter
	store          SnapshotStore
	tokenizer      i.Tokenizer
	rng            *rand.Rand
	logger         i.Logger

	saveMu      sync.Mutex // serializes snapshot writes
	lastWritten time.Duration

	sync.RWMutex
}

// New creates a World for the given maps and restores the stored snapshot if one exists.
func New(c *Config) (*World, error) {
	if c.Tokenizer == nil {
		return nil, ErrNoTokenizer
	}

	w := &World{
		maps:               make(map[string]*roadmap.Map, len(c.Maps)),
		players:            make(map[string][]*Player),
		loot:               make(map[string][]Loot),
		tokenToPlayer:      make(map[string]uint64),
		tokenToMap:         make(map[string]string),
		playerNames:        make(map[uint64]string),
		defaultBagCapacity: defaultBagCapacity,
		retirementTime:     defaultRetirementTime,
		snapshotPeriod:     c.SnapshotPeriod,
		randomSpawn:        c.RandomSpawn,
		lootGenerators:     make(map[string]LootGenerator, len(c.Maps)),
		retiredWriter:      c.RetiredWriter,
		store:              c.SnapshotStore,
		tokenizer:          c.Tokenizer,
		rng:                c.Rand,
		logger:             c.Logger,
	}

	if c.DefaultBagCapacity != nil {
		w.defaultBagCapacity = *c.DefaultBagCapacity
	}
	if c.RetirementTime > 0 {
		w.retirementTime = c.RetirementTime
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if w.logger == nil {
		w.logger = nopLogger{}
	}

	for _, m := range c.Maps {
		if _, exists := w.maps[m.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMap, m.ID)
		}
		w.maps[m.ID] = m
		w.mapOrder = append(w.mapOrder, m.ID)

		if c.NewLootGenerator != nil {
			g, err := c.NewLootGenerator(m.ID)
			if err != nil {
				return nil, fmt.Errorf("loot generator for map %s: %w", m.ID, err)
			}
			w.lootGenerators[m.ID] = g
		}
	}

	if w.store != nil {
		snap, ok, err := w.store.Load()
		if err != nil {
			return nil, fmt.Errorf("restoring world: %w", err)
		}
		if ok {
			w.restore(snap)
		}
	}

	return w, nil
}

// Join adds a player named userName to the map and returns its token and id.
func (w *World) Join(mapID, userName string) (string, uint64, error) {
	if userName == "" || len(userName) > maxNameLength {
		return "", 0, ErrInvalidName
	}

	w.Lock()
	defer w.Unlock()

	m, ok := w.maps[mapID]
	if !ok {
		return "", 0, ErrMapNotFound
	}

	token, err := w.newToken()
	if err != nil {
		return "", 0, err
	}

	spawn := w.spawnPoint(m)
	w.nextPlayerID++
	p := &Player{
		ID:    w.nextPlayerID,
		MapID: mapID,
		Name:  userName,
		Token: token,
		Pos:   spawn,
		Dir:   roadmap.North,
		Base:  spawn,
	}

	w.players[mapID] = append(w.players[mapID], p)
	w.tokenToPlayer[token] = p.ID
	w.tokenToMap[token] = mapID
	w.playerNames[p.ID] = userName

	w.logger.Info(fmt.Sprintf("player joined: ID=%d Name=%s Map=%s", p.ID, userName, mapID))
	return token, p.ID, nil
}

func (w *World) newToken() (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := w.tokenizer.Generate()
		if err != nil {
			return "", fmt.Errorf("generating token: %w", err)
		}
		if _, taken := w.tokenToMap[token]; !taken {
			return token, nil
		}
	}
	return "", errors.New("could not generate a unique token")
}

func (w *World) spawnPoint(m *roadmap.Map) geom.Vec2 {
	if w.randomSpawn {
		if p, ok := m.RandomRoadPoint(w.rng); ok {
			return p
		}
	}
	if len(m.Roads) > 0 {
		return m.Roads[0].Start().Vec()
	}
	return geom.Vec2{}
}

// Move steers the player holding token on map mapID.
// It reports false and changes nothing when the token or map is unknown.
func (w *World) Move(token, mapID string, dir roadmap.Direction) bool {
	w.Lock()
	defer w.Unlock()

	p := w.playerByToken(token)
	if p == nil || p.MapID != mapID {
		return false
	}
	m, ok := w.maps[mapID]
	if !ok {
		return false
	}

	p.steer(dir, m.DogSpeed)
	return true
}

// playerByToken must be called with the lock held.
func (w *World) playerByToken(token string) *Player {
	mapID, ok := w.tokenToMap[token]
	if !ok {
		return nil
	}
	for _, p := range w.players[mapID] {
		if p.Token == token && !p.Retired {
			return p
		}
	}
	return nil
}

// Players returns copies of the active players on a map.
func (w *World) Players(mapID string) ([]Player, error) {
	w.RLock()
	defer w.RUnlock()

	if _, ok := w.maps[mapID]; !ok {
		return nil, ErrMapNotFound
	}
	return w.copyPlayers(mapID), nil
}

func (w *World) copyPlayers(mapID string) []Player {
	out := make([]Player, 0, len(w.players[mapID]))
	for _, p := range w.players[mapID] {
		if !p.Retired {
			out = append(out, p.clone())
		}
	}
	return out
}

// Loot returns a copy of the loot lying on a map.
func (w *World) Loot(mapID string) ([]Loot, error) {
	w.RLock()
	defer w.RUnlock()

	if _, ok := w.maps[mapID]; !ok {
		return nil, ErrMapNotFound
	}
	return append([]Loot(nil), w.loot[mapID]...), nil
}

// MapIDForToken returns the map of the player holding token.
// Unknown and retired tokens yield false.
func (w *World) MapIDForToken(token string) (string, bool) {
	w.RLock()
	defer w.RUnlock()

	mapID, ok := w.tokenToMap[token]
	return mapID, ok
}

// PlayerByToken returns a copy of the player holding token.
func (w *World) PlayerByToken(token string) (Player, bool) {
	w.RLock()
	defer w.RUnlock()

	p := w.playerByToken(token)
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

// State returns the players and loot on the map of the player holding token.
func (w *World) State(token string) (State, error) {
	w.RLock()
	defer w.RUnlock()

	mapID, ok := w.tokenToMap[token]
	if !ok {
		return State{}, ErrTokenNotFound
	}
	return State{
		Players: w.copyPlayers(mapID),
		Loot:    append([]Loot(nil), w.loot[mapID]...),
	}, nil
}

// Maps lists the loaded maps in configuration order.
func (w *World) Maps() []MapSummary {
	out := make([]MapSummary, 0, len(w.mapOrder))
	for _, id := range w.mapOrder {
		out = append(out, MapSummary{ID: id, Name: w.maps[id].Name})
	}
	return out
}

// Map returns a copy of the map with the given id.
func (w *World) Map(id string) (*roadmap.Map, error) {
	m, ok := w.maps[id]
	if !ok {
		return nil, ErrMapNotFound
	}
	return m.Clone(), nil
}

// Now returns the simulation clock.
func (w *World) Now() time.Duration {
	w.RLock()
	defer w.RUnlock()
	return w.now
}

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}
