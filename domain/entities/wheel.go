package entities

// DefaultSpinDuration is the spin animation length in milliseconds used when
// none is configured.
const DefaultSpinDuration = 2500

// DefaultPersistKey names the enablement map when none is configured.
const DefaultPersistKey = "spinwheel:enabled"

// WheelConfig is the user-editable wheel configuration.
type WheelConfig struct {
	Title         string   `json:"title" yaml:"title"`
	BackgroundURL string   `json:"backgroundUrl" yaml:"background_url"`
	Items         []string `json:"items" yaml:"items" validate:"min=1,dive,required"`
	SpinDuration  int      `json:"spinDuration" yaml:"spin_duration" validate:"gt=0"`
}

// DefaultWheelConfig returns the configuration of a wheel that was never saved.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{
		Items:        []string{},
		SpinDuration: DefaultSpinDuration,
	}
}

// WheelState is everything the store persists: the configuration and the
// per-item enablement map under its persist key.
type WheelState struct {
	Config     WheelConfig     `yaml:"config"`
	PersistKey string          `yaml:"persist_key"`
	Enabled    map[string]bool `yaml:"enabled"`
}

// IsEnabled reports whether item is enabled. Items missing from the map are.
func (s WheelState) IsEnabled(item string) bool {
	if v, ok := s.Enabled[item]; ok {
		return v
	}
	return true
}

// WheelItem is one legend row of the wheel view.
type WheelItem struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	// Number is the 1-based position among active items, 0 when disabled.
	Number int `json:"number"`
}

// Sector is one coloured slice of the wheel, in degrees.
type Sector struct {
	Color string  `json:"color"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// WheelView is the render-ready state of the wheel.
type WheelView struct {
	Title         string      `json:"title"`
	BackgroundURL string      `json:"backgroundUrl"`
	SpinDuration  int         `json:"spinDuration"`
	Items         []WheelItem `json:"items"`
	Sectors       []Sector    `json:"sectors"`
}

// SpinResult describes where a spin lands.
type SpinResult struct {
	// Index is the 0-based position of Item among active items.
	Index int    `json:"index"`
	Item  string `json:"item"`
	// Rotation is the absolute wheel rotation in degrees after the spin.
	Rotation float64 `json:"rotation"`
	// Angle is the width of one sector in degrees.
	Angle float64 `json:"angle"`
}
