// Package mascot selects the mascot artwork and caption shown on the
// dashboard. A compiled-in default config can be overlaid wholesale by
// a remote config fetched once per app start; selection itself is a
// pure function over an injected RNG.
package mascot

import (
	"context"
	"fmt"
	"math/rand"
)

// State is one of the mascot's finite display states.
type State string

const (
	StateIdle     State = "idle"
	StateHappy    State = "happy"
	StateCheering State = "cheering"
	StateSad      State = "sad"
	StateSleeping State = "sleeping"
	StateThinking State = "thinking"
)

// Content holds the candidate assets and captions for one state.
// Asset and text are drawn independently; they need not correspond.
type Content struct {
	Assets []string `json:"assets"`
	Texts  []string `json:"texts"`
}

// Config maps each state to its candidate content.
type Config struct {
	States map[State]Content `json:"states"`
}

// Selection is one rolled asset/text pair.
type Selection struct {
	Asset string
	Text  string
}

// DefaultConfig returns the compiled-in mascot content, used until a
// well-shaped remote config replaces it.
func DefaultConfig() Config {
	return Config{
		States: map[State]Content{
			StateIdle: {
				Assets: []string{"reji-idle-1", "reji-idle-2"},
				Texts: []string{
					"Ready when you are.",
					"What shall we do today?",
				},
			},
			StateHappy: {
				Assets: []string{"reji-happy-1", "reji-happy-2"},
				Texts: []string{
					"Nice work!",
					"You're on a roll!",
				},
			},
			StateCheering: {
				Assets: []string{"reji-cheer-1"},
				Texts: []string{
					"Incredible! Keep it up!",
					"That streak is looking great!",
				},
			},
			StateSad: {
				Assets: []string{"reji-sad-1"},
				Texts: []string{
					"Tomorrow is a new day.",
					"Don't give up now.",
				},
			},
			StateSleeping: {
				Assets: []string{"reji-sleep-1"},
				Texts: []string{
					"Zzz...",
					"Resting up for tomorrow.",
				},
			},
			StateThinking: {
				Assets: []string{"reji-think-1"},
				Texts: []string{
					"Hmm, let me see...",
					"Crunching the numbers...",
				},
			},
		},
	}
}

// Select draws one asset and one caption for the given state from cfg
// using rng. The two draws are independent. An unknown state falls
// back to idle.
func Select(state State, cfg Config, rng *rand.Rand) (Selection, error) {
	content, ok := cfg.States[state]
	if !ok {
		content, ok = cfg.States[StateIdle]
		if !ok {
			return Selection{}, fmt.Errorf("mascot config has no content for %q", state)
		}
	}
	if len(content.Assets) == 0 || len(content.Texts) == 0 {
		return Selection{}, fmt.Errorf("mascot config for %q is empty", state)
	}

	return Selection{
		Asset: content.Assets[rng.Intn(len(content.Assets))],
		Text:  content.Texts[rng.Intn(len(content.Texts))],
	}, nil
}

// RemoteConfigAPI is the slice of the API client the resolver needs.
type RemoteConfigAPI interface {
	MascotConfig(ctx context.Context) (Config, error)
}

// Resolve attempts the one remote config fetch and overlays the whole
// state map when the payload is well-shaped. Any failure or malformed
// payload silently keeps the defaults; the mascot never blocks on the
// network.
func Resolve(ctx context.Context, remote RemoteConfigAPI) Config {
	cfg := DefaultConfig()
	if remote == nil {
		return cfg
	}

	fetched, err := remote.MascotConfig(ctx)
	if err != nil {
		return cfg
	}
	if !wellShaped(fetched) {
		return cfg
	}
	return fetched
}

// wellShaped reports whether a remote payload can fully replace the
// defaults: a non-empty states map whose entries all have at least one
// asset and one text.
func wellShaped(cfg Config) bool {
	if len(cfg.States) == 0 {
		return false
	}
	for _, content := range cfg.States {
		if len(content.Assets) == 0 || len(content.Texts) == 0 {
			return false
		}
	}
	return true
}
