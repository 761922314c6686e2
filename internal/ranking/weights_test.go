package ranking

import "testing"

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	sum := w.Engagement.Likes + w.Engagement.Comments + w.Engagement.Shares + w.Engagement.Saves
	if sum != 0.90 {
		t.Errorf("engagement weights sum = %v, want 0.90", sum)
	}
	if w.Diversity.Window != 10 || w.Diversity.MaxAuthorRepeats != 3 || w.Diversity.Penalty != 0.5 {
		t.Errorf("unexpected diversity defaults: %+v", w.Diversity)
	}
	if w.Affinity.Message != 0.40 {
		t.Errorf("message affinity weight = %v, want 0.40", w.Affinity.Message)
	}
}

func TestMergeWeights(t *testing.T) {
	tests := []struct {
		name     string
		override *Weights
		check    func(t *testing.T, w *Weights)
	}{
		{
			name:     "nil override keeps defaults",
			override: nil,
			check: func(t *testing.T, w *Weights) {
				if *w != *DefaultWeights() {
					t.Errorf("merged = %+v, want defaults", w)
				}
			},
		},
		{
			name:     "partial override",
			override: &Weights{Engagement: EngagementWeights{Likes: 0.35}},
			check: func(t *testing.T, w *Weights) {
				if w.Engagement.Likes != 0.35 {
					t.Errorf("Likes = %v, want 0.35", w.Engagement.Likes)
				}
				if w.Engagement.Comments != 0.30 {
					t.Errorf("Comments = %v, want default 0.30", w.Engagement.Comments)
				}
				if w.Diversity.Window != 10 {
					t.Errorf("Window = %v, want default 10", w.Diversity.Window)
				}
			},
		},
		{
			name:     "zero values do not override",
			override: &Weights{},
			check: func(t *testing.T, w *Weights) {
				if *w != *DefaultWeights() {
					t.Errorf("merged = %+v, want defaults", w)
				}
			},
		},
		{
			name:     "diversity override",
			override: &Weights{Diversity: DiversitySettings{Window: 5, Penalty: 0.25}},
			check: func(t *testing.T, w *Weights) {
				if w.Diversity.Window != 5 || w.Diversity.Penalty != 0.25 {
					t.Errorf("diversity = %+v, want window 5, penalty 0.25", w.Diversity)
				}
				if w.Diversity.MaxAuthorRepeats != 3 {
					t.Errorf("MaxAuthorRepeats = %v, want default 3", w.Diversity.MaxAuthorRepeats)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MergeWeights(DefaultWeights(), tt.override))
		})
	}
}

func TestMergeWeightsNilBase(t *testing.T) {
	w := MergeWeights(nil, &Weights{Affinity: AffinityWeights{Like: 0.1}})
	if w.Affinity.Like != 0.1 {
		t.Errorf("Like = %v, want 0.1", w.Affinity.Like)
	}
	if w.Affinity.Message != 0.40 {
		t.Errorf("Message = %v, want default 0.40", w.Affinity.Message)
	}
}

func TestNewEngineUsesMergedWeights(t *testing.T) {
	e := NewEngine(&Weights{Engagement: EngagementWeights{Likes: 0.5}})
	if e.weights.Engagement.Likes != 0.5 {
		t.Errorf("engine Likes weight = %v, want 0.5", e.weights.Engagement.Likes)
	}
	if e.weights.Engagement.Comments != 0.30 {
		t.Errorf("engine Comments weight = %v, want default 0.30", e.weights.Engagement.Comments)
	}
}
