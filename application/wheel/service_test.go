package wheel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelkit/wheelhost/domain/entities"
	domainerrors "github.com/wheelkit/wheelhost/domain/errors"
)

type memStore struct {
	mu      sync.Mutex
	state   *entities.WheelState
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) (*entities.WheelState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return nil, nil
	}
	cp := *m.state
	cp.Config.Items = append([]string(nil), m.state.Config.Items...)
	cp.Enabled = make(map[string]bool, len(m.state.Enabled))
	for k, v := range m.state.Enabled {
		cp.Enabled[k] = v
	}
	return &cp, nil
}

func (m *memStore) Save(_ context.Context, s *entities.WheelState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *s
	m.state = &cp
	m.saves++
	return nil
}

func (m *memStore) Location() string { return "memory" }
func (m *memStore) Close() error     { return nil }

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func TestService_ConfigDefault(t *testing.T) {
	svc := NewService(&memStore{})

	cfg, err := svc.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultWheelConfig(), cfg)
}

func TestService_EmptyStoredState(t *testing.T) {
	// An empty store file decodes to a zero state.
	svc := NewService(&memStore{state: &entities.WheelState{}})
	ctx := context.Background()

	cfg, err := svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSpinDuration, cfg.SpinDuration)
	assert.NotNil(t, cfg.Items)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSpinDuration, view.SpinDuration)
}

func TestService_SaveConfig(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)
	ctx := context.Background()

	cfg, err := svc.SaveConfig(ctx, SaveConfigRequest{
		Title:     "  Lunch ",
		Items:     []string{"noodles"},
		ItemsText: "rice\n\n  dumplings \r\nnoodles",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", cfg.Title)
	assert.Equal(t, []string{"noodles", "rice", "dumplings"}, cfg.Items)
	assert.Equal(t, entities.DefaultSpinDuration, cfg.SpinDuration)

	got, err := svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, map[string]bool{"noodles": true, "rice": true, "dumplings": true}, store.state.Enabled)
	assert.Equal(t, entities.DefaultPersistKey, store.state.PersistKey)
}

func TestService_SaveConfig_Rejects(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)

	_, err := svc.SaveConfig(context.Background(), SaveConfigRequest{ItemsText: " \n \n"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoItems))

	_, err = svc.SaveConfig(context.Background(), SaveConfigRequest{Items: []string{"a"}, SpinDuration: -5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wheel config")

	assert.Zero(t, store.saves)
}

func TestService_SaveConfig_KeepsEnablement(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	_, err := svc.SaveConfig(ctx, SaveConfigRequest{Items: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "a")
	require.NoError(t, err)

	_, err = svc.SaveConfig(ctx, SaveConfigRequest{Items: []string{"a", "c"}, SpinDuration: 4000})
	require.NoError(t, err)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4000, view.SpinDuration)
	assert.Equal(t, []entities.WheelItem{
		{Name: "a", Enabled: false, Number: 0},
		{Name: "c", Enabled: true, Number: 1},
	}, view.Items)
}

func TestService_ToggleAndView(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	_, err := svc.SaveConfig(ctx, SaveConfigRequest{Items: []string{"a", "b", "c"}})
	require.NoError(t, err)

	view, err := svc.Toggle(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []entities.WheelItem{
		{Name: "a", Enabled: true, Number: 1},
		{Name: "b", Enabled: false, Number: 0},
		{Name: "c", Enabled: true, Number: 2},
	}, view.Items)
	require.Len(t, view.Sectors, 2)
	assert.Equal(t, 180.0, view.Sectors[0].End)

	view, err = svc.Toggle(ctx, "b")
	require.NoError(t, err)
	assert.True(t, view.Items[1].Enabled)
	assert.Len(t, view.Sectors, 3)

	_, err = svc.Toggle(ctx, "zzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownItem))
}

func TestService_PersistKeyMismatchResetsEnablement(t *testing.T) {
	store := &memStore{state: &entities.WheelState{
		Config:     entities.WheelConfig{Items: []string{"a", "b"}, SpinDuration: 2500},
		PersistKey: "other",
		Enabled:    map[string]bool{"a": false},
	}}
	svc := NewService(store, WithPersistKey("mine"))

	view, err := svc.View(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Items[0].Enabled)
}

func TestService_Spin(t *testing.T) {
	svc := NewService(&memStore{}, WithPicker(fixedPicker(1)))
	ctx := context.Background()

	_, err := svc.Spin(ctx, SpinRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoActiveItems))

	_, err = svc.SaveConfig(ctx, SaveConfigRequest{Items: []string{"a", "b", "c", "d"}})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "a")
	require.NoError(t, err)

	result, err := svc.Spin(ctx, SpinRequest{Rotation: 30})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, "c", result.Item)
	assert.Equal(t, 120.0, result.Angle)
	assert.Equal(t, SpinRotation(30, 1, 120), result.Rotation)

	for _, item := range []string{"b", "c", "d"} {
		_, err = svc.Toggle(ctx, item)
		require.NoError(t, err)
	}
	_, err = svc.Spin(ctx, SpinRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoActiveItems))
}

func TestService_StoreFailures(t *testing.T) {
	boom := errors.New("disk on fire")

	svc := NewService(&memStore{loadErr: boom})
	_, err := svc.View(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	svc = NewService(&memStore{saveErr: boom})
	_, err = svc.SaveConfig(context.Background(), SaveConfigRequest{Items: []string{"a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
