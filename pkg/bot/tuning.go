package bot

import (
	"hash/fnv"
	"strings"
	"time"
)

// Profile names a bot temperament. The profile is derived deterministically
// from the seat's name so a bot behaves the same for a whole session.
type Profile string

// profile constants
const (
	Aggressive   Profile = "aggressive"
	Controller   Profile = "controller"
	Conservative Profile = "conservative"
	Chaotic      Profile = "chaotic"
)

// Difficulty selects a tuning preset
type Difficulty string

// difficulty constants
const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// ParseDifficulty maps a difficulty name onto a preset, falling back to
// Normal for anything unrecognized
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(s)); d {
	case Easy, Normal, Hard, Expert:
		return d
	}

	return Normal
}

// Tuning parametrizes the decision engine's scoring weights
type Tuning struct {
	// Aggression scales the value of action cards and of aiming them at the
	// most dangerous opponent
	Aggression float64
	// ConserveWild scales the penalty for spending a wild early
	ConserveWild float64
	// Chaos widens the deterministic tie-break window
	Chaos float64
	// RiskAversion scales penalties for orphaned colors and dead follow-ups
	RiskAversion float64

	MemoryEnabled    bool
	TargetingEnabled bool

	DelayMin time.Duration
	DelayMax time.Duration
}

var presets = map[Difficulty]Tuning{
	Easy: {
		Aggression:   0.8,
		ConserveWild: 0.75,
		Chaos:        0.55,
		RiskAversion: 0.8,
		DelayMin:     1400 * time.Millisecond,
		DelayMax:     3200 * time.Millisecond,
	},
	Normal: {
		Aggression:       1.0,
		ConserveWild:     1.0,
		Chaos:            0.26,
		RiskAversion:     1.0,
		MemoryEnabled:    true,
		TargetingEnabled: true,
		DelayMin:         1100 * time.Millisecond,
		DelayMax:         2600 * time.Millisecond,
	},
	Hard: {
		Aggression:       1.12,
		ConserveWild:     1.2,
		Chaos:            0.14,
		RiskAversion:     1.2,
		MemoryEnabled:    true,
		TargetingEnabled: true,
		DelayMin:         850 * time.Millisecond,
		DelayMax:         2100 * time.Millisecond,
	},
	Expert: {
		Aggression:       1.28,
		ConserveWild:     1.35,
		Chaos:            0.05,
		RiskAversion:     1.35,
		MemoryEnabled:    true,
		TargetingEnabled: true,
		DelayMin:         650 * time.Millisecond,
		DelayMax:         1600 * time.Millisecond,
	},
}

var profileNames = map[Profile][]string{
	Aggressive:   {"Ares", "Kira", "Rex", "Nova"},
	Controller:   {"Atlas", "Sage", "Mara", "Orion"},
	Conservative: {"Ivy", "Basil", "Noa", "Lina"},
	Chaotic:      {"Ziggy", "Pixel", "Jinx", "Koa"},
}

var profileOrder = []Profile{Aggressive, Controller, Conservative, Chaotic}

// TuningFor returns the preset for a difficulty adjusted by the profile's
// temperament. Unknown difficulties fall back to normal.
func TuningFor(profile Profile, difficulty Difficulty) Tuning {
	t, ok := presets[difficulty]
	if !ok {
		t = presets[Normal]
	}

	switch profile {
	case Aggressive:
		t.Aggression *= 1.3
		t.ConserveWild *= 0.9
	case Controller:
		t.Aggression *= 1.1
		t.RiskAversion *= 1.1
	case Conservative:
		t.ConserveWild *= 1.3
		t.RiskAversion *= 1.2
		t.Aggression *= 0.85
	case Chaotic:
		t.Chaos += 0.2
	}

	return t
}

// ProfileForName derives a stable profile from a bot's display name: themed
// names map to their pool, anything else hashes onto the profile ring.
func ProfileForName(name string) Profile {
	for profile, names := range profileNames {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				return profile
			}
		}
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return profileOrder[h.Sum64()%uint64(len(profileOrder))]
}

// NameFor returns the nth themed name for a profile
func NameFor(profile Profile, n int) string {
	names, ok := profileNames[profile]
	if !ok || len(names) == 0 {
		return "Bot"
	}

	return names[n%len(names)]
}

// DefaultName returns the nth bot name, cycling through the profile pools so
// consecutive bots get varied temperaments
func DefaultName(n int) string {
	profile := profileOrder[n%len(profileOrder)]
	return NameFor(profile, n/len(profileOrder))
}

// ThinkDelay scales the bot's artificial thinking time with its hand size, so
// bigger decisions look harder. Hand sizes clamp into 1..10.
func ThinkDelay(cardCount int, t Tuning) time.Duration {
	if cardCount < 1 {
		cardCount = 1
	}
	if cardCount > 10 {
		cardCount = 10
	}

	ratio := float64(cardCount-1) / 9
	return t.DelayMin + time.Duration(ratio*float64(t.DelayMax-t.DelayMin))
}
