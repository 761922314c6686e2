package ranking

// EngagementWeights weight the four log-compressed engagement counters.
type EngagementWeights struct {
	Likes    float64
	Comments float64
	Shares   float64
	Saves    float64
}

// AffinityWeights weight interaction types when measuring relationship
// strength between the viewer and a post's author.
type AffinityWeights struct {
	Message float64
	Comment float64
	Share   float64
	Like    float64
	View    float64
}

// DiversitySettings control the batch fairness pass that keeps one
// author from dominating consecutive feed positions.
type DiversitySettings struct {
	// Window is how many already-emitted authors are considered.
	Window int
	// MaxAuthorRepeats is how many slots an author may hold in the
	// window before further posts are penalized.
	MaxAuthorRepeats int
	// Penalty is the one-time multiplier applied past the threshold.
	Penalty float64
}

// Weights holds the engine's tuning tables. The recency decay buckets
// are fixed in the engine itself; everything here can be overridden
// through configuration.
type Weights struct {
	Engagement EngagementWeights
	Affinity   AffinityWeights
	Diversity  DiversitySettings
}

// DefaultWeights returns the production tuning.
//
// Engagement weights sum to 0.90 on purpose: the normalized per-metric
// terms can individually exceed 1 for extreme counts, and the final
// engagement clamp absorbs the headroom.
func DefaultWeights() *Weights {
	return &Weights{
		Engagement: EngagementWeights{
			Likes:    0.20,
			Comments: 0.30,
			Shares:   0.25,
			Saves:    0.15,
		},
		Affinity: AffinityWeights{
			Message: 0.40,
			Comment: 0.30,
			Share:   0.20,
			Like:    0.05,
			View:    0.05,
		},
		Diversity: DiversitySettings{
			Window:           10,
			MaxAuthorRepeats: 3,
			Penalty:          0.5,
		},
	}
}

// MergeWeights applies non-zero override values on top of base,
// allowing partial overrides from configuration. A nil override
// returns a copy of base; a nil base falls back to defaults.
func MergeWeights(base *Weights, override *Weights) *Weights {
	if base == nil {
		base = DefaultWeights()
	}
	result := *base
	if override == nil {
		return &result
	}

	if override.Engagement.Likes != 0 {
		result.Engagement.Likes = override.Engagement.Likes
	}
	if override.Engagement.Comments != 0 {
		result.Engagement.Comments = override.Engagement.Comments
	}
	if override.Engagement.Shares != 0 {
		result.Engagement.Shares = override.Engagement.Shares
	}
	if override.Engagement.Saves != 0 {
		result.Engagement.Saves = override.Engagement.Saves
	}

	if override.Affinity.Message != 0 {
		result.Affinity.Message = override.Affinity.Message
	}
	if override.Affinity.Comment != 0 {
		result.Affinity.Comment = override.Affinity.Comment
	}
	if override.Affinity.Share != 0 {
		result.Affinity.Share = override.Affinity.Share
	}
	if override.Affinity.Like != 0 {
		result.Affinity.Like = override.Affinity.Like
	}
	if override.Affinity.View != 0 {
		result.Affinity.View = override.Affinity.View
	}

	if override.Diversity.Window != 0 {
		result.Diversity.Window = override.Diversity.Window
	}
	if override.Diversity.MaxAuthorRepeats != 0 {
		result.Diversity.MaxAuthorRepeats = override.Diversity.MaxAuthorRepeats
	}
	if override.Diversity.Penalty != 0 {
		result.Diversity.Penalty = override.Diversity.Penalty
	}

	return &result
}
