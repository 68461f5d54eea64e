// Package wheel owns the spin wheel: its saved configuration, which items are
// enabled, the render-ready view and the spin itself.
package wheel

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wheelkit/wheelhost/domain/entities"
	domainerrors "github.com/wheelkit/wheelhost/domain/errors"
	"github.com/wheelkit/wheelhost/domain/ports"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SaveConfigRequest is the request of "wheel_save_config". Items may be given
// as a list, as newline-separated text, or both; they are concatenated.
type SaveConfigRequest struct {
	Title         string   `json:"title"`
	BackgroundURL string   `json:"backgroundUrl"`
	Items         []string `json:"items,omitempty"`
	ItemsText     string   `json:"itemsText,omitempty"`
	// SpinDuration is in milliseconds; 0 selects the default.
	SpinDuration int `json:"spinDuration,omitempty" validate:"gte=0"`
}

// ToggleRequest is the request of "wheel_toggle_item".
type ToggleRequest struct {
	Item string `json:"item" validate:"required"`
}

// SpinRequest is the request of "wheel_spin".
type SpinRequest struct {
	// Rotation is the wheel's current absolute rotation in degrees.
	Rotation float64 `json:"rotation"`
}

type randPicker struct{}

func (randPicker) IntN(n int) int { return rand.Intn(n) }

// Service serialises every read-modify-write of the store.
type Service struct {
	store      ports.WheelStore
	picker     ports.Picker
	persistKey string
	logger     *slog.Logger
	mu         sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithPicker replaces the random source used to choose spin targets.
func WithPicker(p ports.Picker) Option {
	return func(s *Service) {
		s.picker = p
	}
}

// WithPersistKey names the enablement map. A stored map saved under another
// key is ignored and every item starts enabled.
func WithPersistKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.persistKey = key
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a wheel Service over store.
func NewService(store ports.WheelStore, opts ...Option) *Service {
	s := &Service{
		store:      store,
		picker:     randPicker{},
		persistKey: entities.DefaultPersistKey,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the saved configuration, or the default one.
func (s *Service) Config(ctx context.Context) (entities.WheelConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return entities.WheelConfig{}, err
	}
	return state.Config, nil
}

// SaveConfig normalises and stores a new configuration and resyncs the
// enablement map with the new items.
func (s *Service) SaveConfig(ctx context.Context, req SaveConfigRequest) (entities.WheelConfig, error) {
	items := NormalizeItems(append(slices.Clone(req.Items), req.ItemsText))
	if len(items) == 0 {
		return entities.WheelConfig{}, &domainerrors.WheelError{Err: domainerrors.ErrNoItems, Operation: "save"}
	}

	cfg := entities.WheelConfig{
		Title:         strings.TrimSpace(req.Title),
		BackgroundURL: strings.TrimSpace(req.BackgroundURL),
		Items:         items,
		SpinDuration:  req.SpinDuration,
	}
	if cfg.SpinDuration == 0 {
		cfg.SpinDuration = entities.DefaultSpinDuration
	}
	if err := validate.Struct(cfg); err != nil {
		return entities.WheelConfig{}, fmt.Errorf("invalid wheel config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return entities.WheelConfig{}, err
	}
	state.Config = cfg
	state.Enabled = SyncEnabled(cfg.Items, state.Enabled)

	if err := s.store.Save(ctx, state); err != nil {
		return entities.WheelConfig{}, fmt.Errorf("failed to save wheel: %w", err)
	}
	s.logger.InfoContext(ctx, "wheel config saved", "items", len(cfg.Items), "store", s.store.Location())
	return cfg, nil
}

// View returns the render-ready wheel.
func (s *Service) View(ctx context.Context) (entities.WheelView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return entities.WheelView{}, err
	}
	return buildView(*state), nil
}

// Toggle flips an item between enabled and disabled and returns the new view.
func (s *Service) Toggle(ctx context.Context, item string) (entities.WheelView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return entities.WheelView{}, err
	}
	if !slices.Contains(state.Config.Items, item) {
		return entities.WheelView{}, &domainerrors.WheelError{Err: domainerrors.ErrUnknownItem, Operation: "toggle", Item: item}
	}

	state.Enabled = SyncEnabled(state.Config.Items, state.Enabled)
	state.Enabled[item] = !state.Enabled[item]

	if err := s.store.Save(ctx, state); err != nil {
		return entities.WheelView{}, fmt.Errorf("failed to save wheel: %w", err)
	}
	s.logger.DebugContext(ctx, "wheel item toggled", "item", item, "enabled", state.Enabled[item])
	return buildView(*state), nil
}

// Spin picks a target among the active items and computes the landing rotation.
func (s *Service) Spin(ctx context.Context, req SpinRequest) (entities.SpinResult, error) {
	s.mu.Lock()
	state, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return entities.SpinResult{}, err
	}

	active := ActiveItems(*state)
	if len(active) == 0 {
		return entities.SpinResult{}, &domainerrors.WheelError{Err: domainerrors.ErrNoActiveItems, Operation: "spin"}
	}

	index := s.picker.IntN(len(active))
	angle := SectorAngle(len(active))
	result := entities.SpinResult{
		Index:    index,
		Item:     active[index],
		Rotation: SpinRotation(req.Rotation, index, angle),
		Angle:    angle,
	}
	s.logger.InfoContext(ctx, "wheel spun", "item", result.Item, "index", index, "of", len(active))
	return result, nil
}

// load returns the stored state or a fresh default one. Callers hold s.mu.
func (s *Service) load(ctx context.Context) (*entities.WheelState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wheel: %w", err)
	}
	if state == nil {
		state = &entities.WheelState{Config: entities.DefaultWheelConfig()}
	}
	if state.Config.Items == nil {
		state.Config.Items = []string{}
	}
	if state.Config.SpinDuration <= 0 {
		state.Config.SpinDuration = entities.DefaultSpinDuration
	}
	if state.PersistKey != s.persistKey {
		state.PersistKey = s.persistKey
		state.Enabled = nil
	}
	return state, nil
}

func buildView(state entities.WheelState) entities.WheelView {
	active := ActiveItems(state)
	number := make(map[string]int, len(active))
	for i, item := range active {
		number[item] = i + 1
	}

	items := make([]entities.WheelItem, len(state.Config.Items))
	for i, name := range state.Config.Items {
		items[i] = entities.WheelItem{
			Name:    name,
			Enabled: state.IsEnabled(name),
			Number:  number[name],
		}
	}

	return entities.WheelView{
		Title:         state.Config.Title,
		BackgroundURL: state.Config.BackgroundURL,
		SpinDuration:  state.Config.SpinDuration,
		Items:         items,
		Sectors:       Sectors(len(active)),
	}
}
