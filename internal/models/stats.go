package models

// InitialStats is the vector every run starts from.
var InitialStats = Stats{Skill: 10, Comm: 10, Mood: 80, Family: 50, Money: 100}

// ApplyEffects adds each delta present in effects and clamps the result at
// zero. Stats absent from effects are unchanged.
func ApplyEffects(s Stats, effects Effects) Stats {
	out := s
	for st, d := range effects {
		out.set(st, max(0, out.Get(st)+d))
	}
	return out
}
