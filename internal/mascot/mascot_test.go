package mascot

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	cfg Config
	err error
}

func (f *fakeRemote) MascotConfig(ctx context.Context) (Config, error) {
	if f.err != nil {
		return Config{}, f.err
	}
	return f.cfg, nil
}

func remoteConfig() Config {
	return Config{States: map[State]Content{
		StateIdle: {
			Assets: []string{"remote-idle-1", "remote-idle-2"},
			Texts:  []string{"remote idle text"},
		},
		StateHappy: {
			Assets: []string{"remote-happy-1"},
			Texts:  []string{"remote happy a", "remote happy b"},
		},
	}}
}

func TestSelectDrawsFromConfiguredCandidates(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	content := cfg.States[StateHappy]
	for i := 0; i < 100; i++ {
		sel, err := Select(StateHappy, cfg, rng)
		require.NoError(t, err)
		assert.Contains(t, content.Assets, sel.Asset)
		assert.Contains(t, content.Texts, sel.Text)
	}
}

func TestSelectUnknownStateFallsBackToIdle(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	sel, err := Select(State("victorious"), cfg, rng)
	require.NoError(t, err)
	assert.Contains(t, cfg.States[StateIdle].Assets, sel.Asset)
	assert.Contains(t, cfg.States[StateIdle].Texts, sel.Text)
}

func TestSelectDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()

	first, err := Select(StateCheering, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := Select(StateCheering, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectEmptyStateErrors(t *testing.T) {
	cfg := Config{States: map[State]Content{
		StateIdle: {Assets: []string{"a"}},
	}}
	_, err := Select(StateIdle, cfg, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestResolveReplacesDefaultsWhenWellShaped(t *testing.T) {
	cfg := Resolve(context.Background(), &fakeRemote{cfg: remoteConfig()})

	// The overlay is wholesale: states absent from the remote payload
	// are gone, and selections come only from remote candidates.
	assert.Len(t, cfg.States, 2)
	sel, err := Select(StateHappy, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "remote-happy-1", sel.Asset)
}

func TestResolveKeepsDefaultsOnError(t *testing.T) {
	cfg := Resolve(context.Background(), &fakeRemote{err: errors.New("backend down")})
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolveKeepsDefaultsOnMalformedPayload(t *testing.T) {
	malformed := []Config{
		{},
		{States: map[State]Content{}},
		{States: map[State]Content{
			StateIdle: {Assets: []string{"x"}}, // no texts
		}},
		{States: map[State]Content{
			StateIdle:  {Assets: []string{"x"}, Texts: []string{"y"}},
			StateHappy: {Texts: []string{"y"}}, // no assets
		}},
	}

	for _, payload := range malformed {
		cfg := Resolve(context.Background(), &fakeRemote{cfg: payload})
		assert.Equal(t, DefaultConfig(), cfg)
	}
}

func TestResolveNilRemoteKeepsDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Resolve(context.Background(), nil))
}
