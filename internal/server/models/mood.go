package models

import "time"

// Mood is the closed set of self-reported moods.
type Mood string

const (
	MoodAwful Mood = "awful"
	MoodMeh   Mood = "meh"
	MoodOK    Mood = "ok"
	MoodGood  Mood = "good"
	MoodGreat Mood = "great"
)

// Moods lists every valid mood, worst to best.
var Moods = []Mood{MoodAwful, MoodMeh, MoodOK, MoodGood, MoodGreat}

// Valid reports whether m is one of Moods.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
