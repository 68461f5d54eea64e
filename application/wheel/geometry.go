package wheel

import (
	"math"
	"strings"

	"github.com/wheelkit/wheelhost/domain/entities"
)

// FullSpins is the number of whole turns added to every spin.
const FullSpins = 6

// sectorColors cycle around the wheel.
var sectorColors = [...]string{
	"rgba(255,240,240,0.85)",
	"rgba(240,255,240,0.85)",
	"rgba(240,244,255,0.85)",
	"rgba(255,249,230,0.85)",
}

// NormalizeItems trims every item, splits multi-line entries, drops empty
// lines and duplicates, and keeps first-seen order.
func NormalizeItems(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, raw := range items {
		for _, line := range splitLines(raw) {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			out = append(out, line)
		}
	}
	return out
}

// splitLines splits on "\n" and "\r\n".
func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// SyncEnabled returns an enablement map holding exactly items, each keeping
// its previous value or defaulting to enabled.
func SyncEnabled(items []string, prev map[string]bool) map[string]bool {
	next := make(map[string]bool, len(items))
	for _, item := range items {
		if v, ok := prev[item]; ok {
			next[item] = v
		} else {
			next[item] = true
		}
	}
	return next
}

// ActiveItems returns the enabled items in configuration order.
func ActiveItems(state entities.WheelState) []string {
	active := make([]string, 0, len(state.Config.Items))
	for _, item := range state.Config.Items {
		if state.IsEnabled(item) {
			active = append(active, item)
		}
	}
	return active
}

// SectorAngle is the width in degrees of one of n sectors, 0 when n is 0.
func SectorAngle(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 360 / float64(n)
}

// SectorColors assigns a colour to each of n sectors. Colours cycle; when the
// cycle would put the same colour on the last and first sectors (n%4 == 1)
// the last sector takes the first colour differing from both neighbours.
func SectorColors(n int) []string {
	if n <= 0 {
		return nil
	}
	seq := make([]string, n)
	for i := range seq {
		seq[i] = sectorColors[i%len(sectorColors)]
	}
	if n > 1 && n%len(sectorColors) == 1 {
		first, prev := seq[0], seq[n-2]
		for _, c := range sectorColors {
			if c != first && c != prev {
				seq[n-1] = c
				break
			}
		}
	}
	return seq
}

// Sectors lays out n coloured sectors clockwise from 0 degrees.
func Sectors(n int) []entities.Sector {
	angle := SectorAngle(n)
	colors := SectorColors(n)
	sectors := make([]entities.Sector, n)
	for i := range sectors {
		sectors[i] = entities.Sector{
			Color: colors[i],
			Start: float64(i) * angle,
			End:   float64(i+1) * angle,
		}
	}
	return sectors
}

// SpinRotation returns the absolute rotation that lands the pointer on the
// middle of sector index after FullSpins extra turns, starting from current.
func SpinRotation(current float64, index int, angle float64) float64 {
	base := math.Mod(math.Mod(current, 360)+360, 360)
	target := -(float64(index) + 0.5) * angle
	return current + FullSpins*360 + (target - base)
}
