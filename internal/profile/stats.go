package profile

// ProfileStats summarizes draws for one profile against its configured
// target share.
type ProfileStats struct {
	// Name is the profile name
	Name string

	// Draws is how many times this profile was selected
	Draws int64

	// Percent is the empirical share of all draws, 0-100
	Percent float64

	// TargetPercent is the configured share implied by the weights, 0-100
	TargetPercent float64
}

// Stats reports running per-profile draw counts and percentages versus the
// configured targets, for post-run fidelity checks.
func (d *Distributor) Stats() []ProfileStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := make([]ProfileStats, len(d.profiles))
	prev := 0.0
	for i := range d.profiles {
		target := (d.cumulative[i] - prev) * 100
		prev = d.cumulative[i]

		percent := 0.0
		if d.totalDraws > 0 {
			percent = float64(d.draws[i]) / float64(d.totalDraws) * 100
		}

		stats[i] = ProfileStats{
			Name:          d.profiles[i].Name,
			Draws:         d.draws[i],
			Percent:       percent,
			TargetPercent: target,
		}
	}
	return stats
}

// TargetDistribution returns the configured per-profile shares (0-100),
// keyed by profile name.
func (d *Distributor) TargetDistribution() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	targets := make(map[string]float64, len(d.profiles))
	prev := 0.0
	for i := range d.profiles {
		targets[d.profiles[i].Name] = (d.cumulative[i] - prev) * 100
		prev = d.cumulative[i]
	}
	return targets
}

// TotalDraws returns how many users have been drawn so far.
func (d *Distributor) TotalDraws() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalDraws
}
