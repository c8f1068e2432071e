package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGame = `{
  "defaultDogSpeed": 3,
  "defaultBagCapacity": 2,
  "dogRetirementTime": 15,
  "lootGeneratorConfig": {"period": 5, "probability": 0.5},
  "maps": [
    {
      "id": "map1",
      "name": "Map 1",
      "dogSpeed": 4,
      "roads": [
        {"x0": 0, "y0": 0, "x1": 40},
        {"x0": 40, "y0": 0, "y1": 30}
      ],
      "buildings": [{"x": 5, "y": 5, "w": 30, "h": 20}],
      "offices": [{"id": "o0", "x": 40, "y": 30, "offsetX": 5, "offsetY": 0}],
      "lootTypes": [
        {"name": "key", "file": "assets/key.obj", "type": "obj", "rotation": 90, "color": "#338844", "scale": 0.03, "value": 10}
      ]
    },
    {
      "id": "town",
      "name": "Town",
      "bagCapacity": 5,
      "roads": [{"x0": 0, "y0": 0, "y1": 10}]
    }
  ]
}`

const sampleGameYAML = `
defaultDogSpeed: 2
maps:
  - id: map1
    name: Map 1
    roads:
      - {x0: 0, y0: 0, x1: 10}
    lootTypes:
      - {name: wallet, file: assets/wallet.obj, type: obj, scale: 0.01, value: 5}
`

func TestParseGameConfig(t *testing.T) {
	gc, err := ParseGameConfig([]byte(sampleGame))
	require.NoError(t, err)

	assert.Equal(t, 3.0, gc.DefaultDogSpeed)
	assert.Equal(t, 2, gc.DefaultBagCapacity)
	assert.Equal(t, 15*time.Second, gc.RetirementTime)
	require.NotNil(t, gc.Loot)
	assert.Equal(t, 5*time.Second, gc.Loot.Period)
	assert.Equal(t, 0.5, gc.Loot.Probability)

	require.Len(t, gc.Maps, 2)
	m := gc.Maps[0]
	assert.Equal(t, "map1", m.ID)
	assert.Equal(t, 4.0, m.DogSpeed)
	require.Len(t, m.Roads, 2)
	assert.True(t, m.Roads[0].IsHorizontal())
	assert.False(t, m.Roads[1].IsHorizontal())
	assert.Len(t, m.Buildings, 1)
	assert.Len(t, m.Offices, 1)
	require.Len(t, m.LootTypes, 1)
	assert.Equal(t, 10, m.LootTypes[0].Value)
	require.NotNil(t, m.LootTypes[0].Rotation)
	assert.Equal(t, 90, *m.LootTypes[0].Rotation)

	town := gc.Maps[1]
	assert.Equal(t, 3.0, town.DogSpeed, "falls back to the default speed")
	require.NotNil(t, town.BagCapacity)
	assert.Equal(t, 5, *town.BagCapacity)
}

func TestParseGameConfigDefaults(t *testing.T) {
	gc, err := ParseGameConfig([]byte(`{"maps": []}`))
	require.NoError(t, err)

	assert.Equal(t, 1.0, gc.DefaultDogSpeed)
	assert.Equal(t, 3, gc.DefaultBagCapacity)
	assert.Equal(t, 60*time.Second, gc.RetirementTime)
	assert.Nil(t, gc.Loot)
	assert.Empty(t, gc.Maps)
}

func TestParseGameConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing maps", `{}`},
		{"road with both ends", `{"maps": [{"id": "m", "name": "m", "roads": [{"x0": 0, "y0": 0, "x1": 1, "y1": 1}]}]}`},
		{"road with no end", `{"maps": [{"id": "m", "name": "m", "roads": [{"x0": 0, "y0": 0}]}]}`},
		{"bad probability", `{"lootGeneratorConfig": {"period": 1, "probability": 2}, "maps": []}`},
		{"duplicate office", `{"maps": [{"id": "m", "name": "m", "roads": [],
			"offices": [{"id": "o", "x": 0, "y": 0, "offsetX": 0, "offsetY": 0}, {"id": "o", "x": 1, "y": 1, "offsetX": 0, "offsetY": 0}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "game.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleGame), 0o644))

		gc, err := LoadGameConfig(path)
		require.NoError(t, err)
		assert.Len(t, gc.Maps, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "game.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleGameYAML), 0o644))

		gc, err := LoadGameConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2.0, gc.DefaultDogSpeed)
		require.Len(t, gc.Maps, 1)
		assert.Equal(t, 2.0, gc.Maps[0].DogSpeed)
		assert.Equal(t, 5, gc.Maps[0].LootValue(0))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGameConfig(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("HOST_IP", "127.0.0.1")
	t.Setenv("REST_PORT", "8080")
	t.Setenv("GAME_CONFIG", "data/config.json")
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		c, err := fromEnv()
		require.NoError(t, err)
		assert.Equal(t, 8080, c.RESTPort)
		assert.Equal(t, time.Duration(0), c.TickPeriod)
		assert.Nil(t, c.SaveStatePeriod)
		assert.Equal(t, BackendSQLite, c.RecordsBackend)
		assert.Equal(t, "data/retired.sqlite", c.SQLitePath)
		assert.Equal(t, 4, c.DBPoolSize)
		assert.Equal(t, "release", c.GinMode)
	})

	t.Run("durations", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TICK_PERIOD", "50")
		t.Setenv("SAVE_STATE_PERIOD", "2s")
		t.Setenv("RANDOMIZE_SPAWN", "true")

		c, err := fromEnv()
		require.NoError(t, err)
		assert.Equal(t, 50*time.Millisecond, c.TickPeriod)
		require.NotNil(t, c.SaveStatePeriod)
		assert.Equal(t, 2*time.Second, *c.SaveStatePeriod)
		assert.True(t, c.RandomSpawn)
	})

	t.Run("redis backend", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RECORDS_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		c, err := fromEnv()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", c.RedisAddr)
		assert.Equal(t, "retired_players", c.RedisKey)
	})

	t.Run("mongo backend requires credentials", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RECORDS_BACKEND", "mongo")

		_, err := fromEnv()
		assert.ErrorIs(t, err, ErrMissingEnv)
	})

	t.Run("unknown backend", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RECORDS_BACKEND", "postgres")

		_, err := fromEnv()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TICK_PERIOD", "soon")

		_, err := fromEnv()
		assert.Error(t, err)
	})
}
