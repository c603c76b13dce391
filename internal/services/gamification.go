package services

import "github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"

// Level is a closed points band.
type Level struct {
	Name string
	Min  int
	Max  int
}

var Levels = []Level{
	{Name: "Beginner", Min: 0, Max: 250},
	{Name: "Intermediate", Min: 251, Max: 500},
	{Name: "Advanced", Min: 501, Max: 750},
	{Name: "Expert", Min: 751, Max: 1000},
}

// LevelFor maps points onto a level. Negative points count as zero and
// anything past the last band stays in it.
func LevelFor(points int) Level {
	if points < 0 {
		points = 0
	}
	for _, l := range Levels {
		if points <= l.Max {
			return l
		}
	}
	return Levels[len(Levels)-1]
}

func Progress(points int) dto.GamificationProgress {
	if points < 0 {
		points = 0
	}
	level := LevelFor(points)

	pct := float64(points-level.Min) / float64(level.Max-level.Min) * 100
	if pct > 100 {
		pct = 100
	}

	next := ""
	for i, l := range Levels {
		if l.Name == level.Name && i+1 < len(Levels) {
			next = Levels[i+1].Name
		}
	}

	return dto.GamificationProgress{
		Level:      level.Name,
		Points:     points,
		MinPoints:  level.Min,
		MaxPoints:  level.Max,
		Percentage: pct,
		NextLevel:  next,
	}
}
