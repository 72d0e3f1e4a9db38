package services

import (
	"math/rand"
	"testing"
)

func TestStyleForUnknownDefaultsToFriendly(t *testing.T) {
	got := StyleFor("nonexistent")
	if got.Name != styleConfigs[StyleFriendly].Name {
		t.Fatalf("StyleFor fallback = %q, want friendly", got.Name)
	}
}

func TestIsValidStyle(t *testing.T) {
	for _, name := range []string{StyleFriendly, StyleProfessional, StyleChallenging, StyleMentor} {
		if !IsValidStyle(name) {
			t.Fatalf("IsValidStyle(%q) = false", name)
		}
	}
	if IsValidStyle("strict") {
		t.Fatal("IsValidStyle should reject unknown names")
	}
}

func TestAutoSelectStyleStaysInRoundPool(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	rounds := []string{"HR面", "技术一面", "技术二面", "总监面", "不存在的轮次"}

	for _, round := range rounds {
		pool := StylePool(round)
		for i := 0; i < 20; i++ {
			style := AutoSelectStyle(round, r)
			found := false
			for _, s := range pool {
				if s == style {
					found = true
				}
			}
			if !found {
				t.Fatalf("round %q: style %q not in pool %v", round, style, pool)
			}
		}
	}
}

func TestHRRoundNeverChallenging(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		if AutoSelectStyle("HR面", r) == StyleChallenging {
			t.Fatal("HR round must not select the challenging persona")
		}
	}
}

func TestEveryStyleHasFeedbackExamples(t *testing.T) {
	for name, cfg := range styleConfigs {
		if len(cfg.FeedbackExamples) < 2 {
			t.Fatalf("style %q needs at least two feedback examples for the system prompt", name)
		}
		if cfg.Personality == "" {
			t.Fatalf("style %q has no personality text", name)
		}
	}
}
