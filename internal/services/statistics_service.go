package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/google/uuid"
)

const (
	noSkillsLabel = "No Skills"
	pendingLabel  = "Pending"
)

// StatisticsService derives the dashboard series for one employee. It
// never writes.
type StatisticsService struct {
	store store.Store
}

func NewStatisticsService(s store.Store) *StatisticsService {
	return &StatisticsService{store: s}
}

func (s *StatisticsService) GetStatistics(ctx context.Context, employeeID string, viewer Viewer) (*dto.StatisticsResponse, error) {
	user, err := findEmployee(ctx, s.store, employeeID)
	if err != nil {
		return nil, err
	}
	if !viewer.canView(user) {
		return nil, ErrForbidden
	}

	completions, err := s.store.CompletionsByEmployee(ctx, user.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(user.Courses))
	for _, e := range user.Courses {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.store.CoursesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}

	byMonth := CompletionsByMonth(completions)
	return &dto.StatisticsResponse{
		EmployeeID:         user.EmployeeID,
		Points:             user.Points,
		Designation:        user.Designation,
		Progress:           Progress(user.Points),
		CompletionsByMonth: byMonth,
		SkillDistribution:  SkillDistribution(user.Skills, user.Courses, courses),
		PointsOverTime:     PointsOverTime(user.Courses),
		CourseTypes:        CourseTypeDistribution(user.Courses),
		CompletionRate:     CompletionRate(sum(byMonth.Data), len(user.Courses)),
	}, nil
}

// CompletionsByMonth counts completion events per calendar month. All
// twelve months are always present.
func CompletionsByMonth(completions []models.CourseCompletion) dto.ChartSeries {
	series := dto.ChartSeries{
		Labels: make([]string, 12),
		Data:   make([]int, 12),
	}
	for m := time.January; m <= time.December; m++ {
		series.Labels[m-1] = m.String()
	}
	for _, c := range completions {
		series.Data[c.CompletionDate.Month()-1]++
	}
	return series
}

// SkillDistribution weights each skill of the user by how many of the
// user's enrolled courses are tagged with it.
func SkillDistribution(skills []string, enrollments []models.CourseEnrollment, courses []models.Course) dto.ChartSeries {
	if len(skills) == 0 {
		return dto.ChartSeries{Labels: []string{noSkillsLabel}, Data: []int{0}}
	}

	tags := make(map[uuid.UUID]map[string]bool, len(courses))
	for _, c := range courses {
		set := make(map[string]bool, len(c.Skills))
		for _, tag := range c.Skills {
			set[strings.ToLower(strings.TrimSpace(tag))] = true
		}
		tags[c.ID] = set
	}

	series := dto.ChartSeries{
		Labels: make([]string, 0, len(skills)),
		Data:   make([]int, 0, len(skills)),
	}
	for _, skill := range skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		count := 0
		for _, e := range enrollments {
			if tags[e.CourseID][key] {
				count++
			}
		}
		series.Labels = append(series.Labels, skill)
		series.Data = append(series.Data, count)
	}
	return series
}

// PointsOverTime plots enrollment scores by completion date. Undated
// enrollments come last in bucket order and ungraded ones plot as zero.
func PointsOverTime(enrollments []models.CourseEnrollment) dto.ScoreSeries {
	ordered := make([]models.CourseEnrollment, len(enrollments))
	copy(ordered, enrollments)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].CompletionDate, ordered[j].CompletionDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})

	series := dto.ScoreSeries{
		Labels: make([]string, 0, len(ordered)),
		Data:   make([]float64, 0, len(ordered)),
	}
	for _, e := range ordered {
		label := pendingLabel
		if e.CompletionDate != nil {
			label = e.CompletionDate.Format("2006-01-02")
		}
		score := 0.0
		if e.Score != nil {
			score = *e.Score
		}
		series.Labels = append(series.Labels, label)
		series.Data = append(series.Data, score)
	}
	return series
}

// CourseTypeDistribution counts enrollments by type, labelled in order of
// first occurrence.
func CourseTypeDistribution(enrollments []models.CourseEnrollment) dto.ChartSeries {
	series := dto.ChartSeries{Labels: []string{}, Data: []int{}}
	index := make(map[string]int)
	for _, e := range enrollments {
		i, ok := index[e.Type]
		if !ok {
			i = len(series.Labels)
			index[e.Type] = i
			series.Labels = append(series.Labels, e.Type)
			series.Data = append(series.Data, 0)
		}
		series.Data[i]++
	}
	return series
}

func CompletionRate(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	rate := int(math.Round(float64(completed) / float64(total) * 100))
	if rate > 100 {
		return 100
	}
	return rate
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
