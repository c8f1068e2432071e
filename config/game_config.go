package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/roadmap"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed game.schema.json
var gameSchemaJSON string

var ErrInvalidConfig = errors.New("invalid game config")

var gameSchema = jsonschema.MustCompileString("game.schema.json", gameSchemaJSON)

const (
	defaultDogSpeed       = 1.0
	defaultBagCapacity    = 3
	defaultRetirementTime = 60 * time.Second
)

// GameConfig is the static game setup: maps and gameplay defaults.
type GameConfig struct {
	Maps               []*roadmap.Map
	DefaultDogSpeed    float64
	DefaultBagCapacity int
	RetirementTime     time.Duration
	Loot               *LootConfig // nil when the file has no loot generator section
}

// LootConfig parameterizes the loot generator.
type LootConfig struct {
	Period      time.Duration
	Probability float64
}

type rawGameConfig struct {
	DefaultDogSpeed     *float64          `json:"defaultDogSpeed"`
	DefaultBagCapacity  *int              `json:"defaultBagCapacity"`
	DogRetirementTime   *float64          `json:"dogRetirementTime"`
	LootGeneratorConfig *rawLootGenerator `json:"lootGeneratorConfig"`
	Maps                []rawMap          `json:"maps"`
}

type rawLootGenerator struct {
	Period      float64 `json:"period"`
	Probability float64 `json:"probability"`
}

type rawMap struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DogSpeed    *float64 `json:"dogSpeed"`
	BagCapacity *int     `json:"bagCapacity"`
	Roads       []struct {
		X0 int  `json:"x0"`
		Y0 int  `json:"y0"`
		X1 *int `json:"x1"`
		Y1 *int `json:"y1"`
	} `json:"roads"`
	Buildings []struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"buildings"`
	Offices []struct {
		ID      string `json:"id"`
		X       int    `json:"x"`
		Y       int    `json:"y"`
		OffsetX int    `json:"offsetX"`
		OffsetY int    `json:"offsetY"`
	} `json:"offices"`
	LootTypes []struct {
		Name     string  `json:"name"`
		File     string  `json:"file"`
		Type     string  `json:"type"`
		Rotation *int    `json:"rotation"`
		Color    *string `json:"color"`
		Scale    float64 `json:"scale"`
		Value    int     `json:"value"`
	} `json:"lootTypes"`
}

// LoadGameConfig reads a game configuration file. Files ending in .yaml or
// .yml are parsed as YAML, anything else as JSON.
func LoadGameConfig(path string) (*GameConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseGameConfigYAML(raw)
	default:
		return ParseGameConfig(raw)
	}
}

// ParseGameConfigYAML parses a YAML game configuration.
func ParseGameConfigYAML(raw []byte) (*GameConfig, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: game.yaml: %v", ErrInvalidConfig, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: game.yaml: %v", ErrInvalidConfig, err)
	}
	return ParseGameConfig(asJSON)
}

// ParseGameConfig validates a JSON game configuration and builds its maps.
func ParseGameConfig(raw []byte) (*GameConfig, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := gameSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var rc rawGameConfig
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	gc := &GameConfig{
		DefaultDogSpeed:    defaultDogSpeed,
		DefaultBagCapacity: defaultBagCapacity,
		RetirementTime:     defaultRetirementTime,
	}
	if rc.DefaultDogSpeed != nil {
		gc.DefaultDogSpeed = *rc.DefaultDogSpeed
	}
	if rc.DefaultBagCapacity != nil {
		gc.DefaultBagCapacity = *rc.DefaultBagCapacity
	}
	if rc.DogRetirementTime != nil {
		gc.RetirementTime = seconds(*rc.DogRetirementTime)
	}
	if lg := rc.LootGeneratorConfig; lg != nil {
		gc.Loot = &LootConfig{Period: seconds(lg.Period), Probability: lg.Probability}
	}

	for _, rm := range rc.Maps {
		m, err := buildMap(rm, gc.DefaultDogSpeed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		gc.Maps = append(gc.Maps, m)
	}

	return gc, nil
}

func buildMap(rm rawMap, defaultSpeed float64) (*roadmap.Map, error) {
	m := roadmap.NewMap(rm.ID, rm.Name)
	m.DogSpeed = defaultSpeed
	if rm.DogSpeed != nil {
		m.DogSpeed = *rm.DogSpeed
	}
	m.BagCapacity = rm.BagCapacity

	for _, r := range rm.Roads {
		start := roadmap.Point{X: r.X0, Y: r.Y0}
		if r.X1 != nil {
			m.AddRoad(roadmap.NewHorizontalRoad(start, *r.X1))
		} else {
			m.AddRoad(roadmap.NewVerticalRoad(start, *r.Y1))
		}
	}

	for _, b := range rm.Buildings {
		m.AddBuilding(roadmap.Building{Position: roadmap.Point{X: b.X, Y: b.Y}, Width: b.W, Height: b.H})
	}

	for _, o := range rm.Offices {
		err := m.AddOffice(roadmap.Office{
			ID:       o.ID,
			Position: roadmap.Point{X: o.X, Y: o.Y},
			Offset:   roadmap.Point{X: o.OffsetX, Y: o.OffsetY},
		})
		if err != nil {
			return nil, err
		}
	}

	for _, lt := range rm.LootTypes {
		m.AddLootType(roadmap.LootType{
			Name:     lt.Name,
			File:     lt.File,
			Type:     lt.Type,
			Rotation: lt.Rotation,
			Color:    lt.Color,
			Scale:    lt.Scale,
			Value:    lt.Value,
		})
	}

	return m, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
