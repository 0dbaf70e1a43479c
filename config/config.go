// Package config provides the immutable tuning tables for the decision engine:
// part costs, job bodies per tier, combat coefficients, build orders and the
// build strategy rules.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nstehr/vimy/arena-core/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON string

// Config holds every tunable the engine reads. It is built once by Load and
// passed by pointer; nothing mutates it afterwards.
type Config struct {
	Arena       ArenaConfig               `yaml:"arena"`
	Parts       PartsConfig               `yaml:"parts"`
	Combat      CombatConfig              `yaml:"combat"`
	Build       BuildConfig               `yaml:"build"`
	Jobs        map[string][][]model.Part `yaml:"jobs"`
	Miner       MinerConfig               `yaml:"miner"`
	Tug         TugConfig                 `yaml:"tug"`
	Diagnostics DiagnosticsConfig         `yaml:"diagnostics"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ArenaConfig describes the map. Corner thresholds split sources into the
// top corner, the central band and the bottom corner.
type ArenaConfig struct {
	Size         int `yaml:"size"`
	CornerTop    int `yaml:"corner_top"`
	CornerBottom int `yaml:"corner_bottom"`
}

type PartsConfig struct {
	Costs         map[model.Part]int `yaml:"costs"`
	CarryCapacity int                `yaml:"carry_capacity"` // energy per CARRY part
	HarvestPower  int                `yaml:"harvest_power"`  // energy harvested per WORK part per tick
	BuildPower    int                `yaml:"build_power"`    // build progress per WORK part per tick
}

// Cost sums the part costs of a body. Unknown parts cost nothing.
func (p PartsConfig) Cost(body []model.Part) int {
	total := 0
	for _, part := range body {
		total += p.Costs[part]
	}
	return total
}

// CombatConfig holds the coefficients of the strength heuristic and the
// ranges used by the combat jobs.
type CombatConfig struct {
	AttackPower          float64 `yaml:"attack_power"`
	RangedAttackPower    float64 `yaml:"ranged_attack_power"`
	HealPower            float64 `yaml:"heal_power"`
	RangedAdvantage      float64 `yaml:"ranged_advantage"`
	RangedHealBonus      float64 `yaml:"ranged_heal_bonus"`
	MeleeHealBonus       float64 `yaml:"melee_heal_bonus"`
	SupportHealBonus     float64 `yaml:"support_heal_bonus"`
	DefensiveThreshold   float64 `yaml:"defensive_threshold"` // own/enemy ratio below which units fall back
	EngagementRadius     int     `yaml:"engagement_radius"`
	DesiredRange         int     `yaml:"desired_range"`
	HealRange            int     `yaml:"heal_range"`
	FortifiedMinerRadius int     `yaml:"fortified_miner_radius"`
}

// BuildEntry is one step of a build order.
type BuildEntry struct {
	Job  string `yaml:"job"`
	Tier int    `yaml:"tier"`
}

// RuleConfig is a build strategy rule. When is an expr condition evaluated
// against the strategy environment; Action names one of the fixed builders.
type RuleConfig struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
	When     string `yaml:"when"`
	Action   string `yaml:"action"`
}

type BuildConfig struct {
	StrengthThreshold float64      `yaml:"strength_threshold"`
	ArchersPerCleric  int          `yaml:"archers_per_cleric"`
	Bootstrap         []BuildEntry `yaml:"bootstrap"`
	Economy           []BuildEntry `yaml:"economy"`
	Fallback          BuildEntry   `yaml:"fallback"`
	Rules             []RuleConfig `yaml:"rules"`
}

type MinerConfig struct {
	Extensions      int `yaml:"extensions"`        // extension sites planted around a corner source
	StageTwoReserve int `yaml:"stage_two_reserve"` // energy kept before filling extensions
}

type TugConfig struct {
	// SettleOffset is the final step the head of a tug chain takes after
	// arriving. Zero leaves it on the target tile.
	SettleOffset model.Position `yaml:"settle_offset"`
}

type DiagnosticsConfig struct {
	Every int `yaml:"every"` // ticks between periodic diagnostic logs
}

// DerivedConfig holds values computed from the loaded tables.
type DerivedConfig struct {
	JobNames  []string         // sorted job names
	BodyCosts map[string][]int // job -> cost per tier (index 0 is tier 1)
}

// Load reads the embedded defaults, overlays the file at path (if non-empty),
// validates the merged document and computes derived tables.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Default returns the embedded defaults. It panics if they are invalid,
// which only a broken build can cause.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return cfg
}

// validate checks the merged configuration against the embedded JSON schema,
// then the cross-field constraints a schema cannot express.
func (c *Config) validate() error {
	schema, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	doc, err := c.document()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Arena.CornerTop >= c.Arena.CornerBottom {
		return fmt.Errorf("invalid config: corner_top (%d) must be below corner_bottom (%d)",
			c.Arena.CornerTop, c.Arena.CornerBottom)
	}
	entries := append([]BuildEntry{c.Build.Fallback}, c.Build.Bootstrap...)
	entries = append(entries, c.Build.Economy...)
	for _, e := range entries {
		tiers := c.Jobs[e.Job]
		if e.Tier > len(tiers) {
			return fmt.Errorf("invalid config: %s has no tier %d", e.Job, e.Tier)
		}
	}
	return nil
}

// document converts the config into the generic JSON value the schema
// validator expects.
func (c *Config) document() (any, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	js, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("converting config to json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, fmt.Errorf("converting config to json: %w", err)
	}
	return doc, nil
}

func (c *Config) computeDerived() {
	normalize := func(entries []BuildEntry) {
		for i := range entries {
			if entries[i].Tier == 0 {
				entries[i].Tier = 1
			}
		}
	}
	normalize(c.Build.Bootstrap)
	normalize(c.Build.Economy)
	if c.Build.Fallback.Tier == 0 {
		c.Build.Fallback.Tier = 1
	}
	if c.Diagnostics.Every <= 0 {
		c.Diagnostics.Every = 100
	}

	c.Derived.JobNames = make([]string, 0, len(c.Jobs))
	c.Derived.BodyCosts = make(map[string][]int, len(c.Jobs))
	for name, tiers := range c.Jobs {
		c.Derived.JobNames = append(c.Derived.JobNames, name)
		costs := make([]int, len(tiers))
		for i, body := range tiers {
			costs[i] = c.Parts.Cost(body)
		}
		c.Derived.BodyCosts[name] = costs
	}
	sort.Strings(c.Derived.JobNames)
}

// Body returns the body for job at tier (1-based).
func (c *Config) Body(job string, tier int) ([]model.Part, bool) {
	tiers := c.Jobs[job]
	if tier < 1 || tier > len(tiers) {
		return nil, false
	}
	return tiers[tier-1], true
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
