package services

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"
)

// WellnessSnapshot is a point-in-time fitness summary. The values are
// simulated; no device integration exists yet.
type WellnessSnapshot struct {
	Steps       int       `json:"steps"`
	HeartRate   int       `json:"heartRate"`
	SleepHours  string    `json:"sleepHours"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type WellnessService struct {
	randIntN  func(n int) int
	randFloat func() float64
	now       func() time.Time
}

func NewWellnessService() *WellnessService {
	return &WellnessService{randIntN: rand.IntN, randFloat: rand.Float64, now: time.Now}
}

func (s *WellnessService) Snapshot(ctx context.Context) (*WellnessSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &WellnessSnapshot{
		Steps:       s.randIntN(10000),
		HeartRate:   65 + s.randIntN(20),
		SleepHours:  strconv.FormatFloat(6+s.randFloat()*3, 'f', 1, 64),
		LastUpdated: s.now().UTC(),
	}, nil
}
