package domain

// DefaultMood is the profile used for any mood label missing from the table.
const DefaultMood = "happy"

// MoodProfile maps a mood label to candidate genres and feature adjustments.
type MoodProfile struct {
	Name         string
	Genres       []string
	ValenceDelta float64
	EnergyDelta  float64
}

var moodProfiles = map[string]MoodProfile{
	"happy": {
		Name:         "happy",
		Genres:       []string{"pop", "dance", "disco", "reggae"},
		ValenceDelta: 0.2,
		EnergyDelta:  0.1,
	},
	"sad": {
		Name:         "sad",
		Genres:       []string{"acoustic", "blues", "folk", "indie"},
		ValenceDelta: -0.3,
		EnergyDelta:  -0.2,
	},
	"energetic": {
		Name:         "energetic",
		Genres:       []string{"rock", "electronic", "punk", "metal"},
		ValenceDelta: 0.1,
		EnergyDelta:  0.3,
	},
	"calm": {
		Name:         "calm",
		Genres:       []string{"ambient", "chill", "classical"},
		ValenceDelta: 0.0,
		EnergyDelta:  -0.3,
	},
	"angry": {
		Name:         "angry",
		Genres:       []string{"metal", "punk", "rock"},
		ValenceDelta: -0.1,
		EnergyDelta:  0.3,
	},
}

// LookupProfile returns the profile for mood, falling back to the happy profile.
// The returned genre slice is a copy; the table itself is never mutated.
func LookupProfile(mood string) MoodProfile {
	p, ok := moodProfiles[mood]
	if !ok {
		p = moodProfiles[DefaultMood]
	}
	p.Genres = append([]string(nil), p.Genres...)
	return p
}

// KnownMoods lists the labels present in the profile table.
func KnownMoods() []string {
	return []string{"happy", "sad", "energetic", "calm", "angry"}
}
