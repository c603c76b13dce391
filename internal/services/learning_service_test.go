package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLearningService(f *fixture) *LearningService {
	svc := NewLearningService(f.store)
	svc.now = func() time.Time { return f.fixedAt }
	return svc
}

func TestAddCourse(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	e, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Progress)
	assert.Equal(t, "Course", e.Type)

	u := f.reload(t)
	require.Len(t, u.Courses, 1)
	assert.Equal(t, f.goLang.ID, u.Courses[0].CourseID)
	assert.False(t, u.Courses[0].IsVerified)
}

func TestAddCourseTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	_, err = svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	assert.ErrorIs(t, err, ErrCourseAlreadyInBucket)
	assert.Len(t, f.reload(t).Courses, 1)
}

func TestAddCourseNotFound(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	_, err := svc.AddCourse(f.ctx, uuid.New(), f.goLang.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AddCourse(f.ctx, f.user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Empty(t, f.reload(t).Courses)
}

func TestUpdateProgressRange(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	for p := -1; p <= 101; p++ {
		err := svc.UpdateProgress(f.ctx, f.user.ID, f.goLang.ID, p)
		if p < 0 || p > 100 {
			assert.ErrorIs(t, err, ErrInvalidProgress, "progress=%d", p)
			continue
		}
		assert.NoError(t, err, "progress=%d", p)
	}
	assert.Equal(t, 100, f.reload(t).Courses[0].Progress)
}

func TestUpdateProgressValidatesBeforeLookup(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	err := svc.UpdateProgress(f.ctx, f.user.ID, uuid.New(), 150)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	err = svc.UpdateProgress(f.ctx, f.user.ID, uuid.New(), 50)
	assert.ErrorIs(t, err, ErrCourseNotInBucket)
}

func TestMarkComplete(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	require.NoError(t, svc.MarkComplete(f.ctx, f.user.ID, f.goLang.ID))

	u := f.reload(t)
	require.NotNil(t, u.Courses[0].CompletionDate)
	assert.True(t, f.fixedAt.Equal(*u.Courses[0].CompletionDate))
	assert.True(t, u.Courses[0].IsComplete())
}

func TestMarkCompleteMissingCourseLeavesBucketUnchanged(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	before := f.reload(t).Courses

	err = svc.MarkComplete(f.ctx, f.user.ID, f.k8s.ID)
	assert.ErrorIs(t, err, ErrCourseNotInBucket)
	assert.Equal(t, before, f.reload(t).Courses)
}

func TestSubmitToSupervisorSkillUnion(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	score := 92.0
	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		Score:          &score,
		SelectedSkills: []string{"Go", "Testing"},
	}))
	assert.Equal(t, []string{"Go", "Testing"}, []string(f.reload(t).Skills))

	// known skill: size unchanged
	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		Score:          &score,
		SelectedSkills: []string{"Go"},
	}))
	assert.Equal(t, []string{"Go", "Testing"}, []string(f.reload(t).Skills))

	// new skill: appended, existing order preserved
	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		Score:          &score,
		SelectedSkills: []string{"Testing", "Concurrency", "  "},
	}))
	assert.Equal(t, []string{"Go", "Testing", "Concurrency"}, []string(f.reload(t).Skills))
}

func TestSubmitToSupervisorSkillUnionIgnoresCase(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		SelectedSkills: []string{"Go", "Testing"},
	}))
	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		SelectedSkills: []string{"go", " TESTING ", "Kubernetes", "kubernetes"},
	}))
	assert.Equal(t, []string{"Go", "Testing", "Kubernetes"}, []string(f.reload(t).Skills))
}

func TestSubmitToSupervisorSetsScoreAndDate(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	score := 75.5
	completed := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		Score:          &score,
		CompletionDate: &completed,
	}))

	e := f.reload(t).Courses[0]
	require.NotNil(t, e.Score)
	assert.Equal(t, 75.5, *e.Score)
	require.NotNil(t, e.CompletionDate)
	assert.True(t, completed.Equal(*e.CompletionDate))

	require.NoError(t, svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{Score: &score}))
	assert.True(t, f.fixedAt.Equal(*f.reload(t).Courses[0].CompletionDate))
}

func TestSubmitToSupervisorErrors(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	bad := 120.0
	err := svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{Score: &bad})
	assert.ErrorIs(t, err, ErrInvalidScore)

	err = svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{})
	assert.ErrorIs(t, err, ErrCourseNotInBucket)
}

func TestSubmitToSupervisorFailedSaveLeavesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := newLearningService(f).AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	before := f.reload(t)

	svc := NewLearningService(&failingSaveStore{MemoryStore: f.store})
	score := 88.0
	err = svc.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{
		Score:          &score,
		SelectedSkills: []string{"Go"},
	})
	assert.ErrorIs(t, err, errSaveFailed)

	after := f.reload(t)
	assert.Equal(t, before.Courses, after.Courses)
	assert.Equal(t, before.Skills, after.Skills)
}

func TestLearningBucketQueries(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	_, err = svc.AddCourse(f.ctx, f.user.ID, f.k8s.ID)
	require.NoError(t, err)

	u := f.reload(t)
	u.Courses[1].IsVerified = true
	require.NoError(t, f.store.SaveUser(f.ctx, u))

	bucket, err := svc.GetLearningBucket(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, bucket, 2)
	require.NotNil(t, bucket[0].Course)
	assert.Equal(t, "Go Fundamentals", bucket[0].Course.Title)

	verified, err := svc.GetVerifiedCourses(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, f.k8s.ID, verified[0].CourseID)

	scores, err := svc.GetScores(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.True(t, scores[1].IsVerified)
	assert.Nil(t, scores[0].Score)
}

func TestLearningBucketWithRemovedCourse(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)
	_, err := svc.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteCourse(f.ctx, f.goLang.ID))

	bucket, err := svc.GetLearningBucket(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Nil(t, bucket[0].Course)
}

func TestGetUserSkillsResolvesCatalog(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	goSkill := &models.Skill{Name: "Go", Description: "The Go language", Level: "Intermediate", DepartmentID: f.dept.ID}
	sql := &models.Skill{Name: "SQL", DepartmentID: f.dept.ID}
	require.NoError(t, f.store.CreateSkill(f.ctx, goSkill))
	require.NoError(t, f.store.CreateSkill(f.ctx, sql))

	u := f.reload(t)
	u.Skills = append(u.Skills, "go", sql.ID.String(), "Public Speaking")
	require.NoError(t, f.store.SaveUser(f.ctx, u))

	skills, err := svc.GetUserSkills(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, skills, 3)

	require.NotNil(t, skills[0].ID)
	assert.Equal(t, goSkill.ID, *skills[0].ID)
	assert.Equal(t, "The Go language", skills[0].Description)
	assert.Equal(t, "SQL", skills[1].Name)
	assert.Nil(t, skills[2].ID)
	assert.Equal(t, "Public Speaking", skills[2].Name)
}

func TestGetSkillsByDepartment(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	other := &models.Department{Name: "Sales", Slug: "sales"}
	require.NoError(t, f.store.CreateDepartment(f.ctx, other))
	require.NoError(t, f.store.CreateSkill(f.ctx, &models.Skill{Name: "Go", DepartmentID: f.dept.ID}))
	require.NoError(t, f.store.CreateSkill(f.ctx, &models.Skill{Name: "Negotiation", DepartmentID: other.ID}))

	skills, err := svc.GetSkillsByDepartment(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, "Engineering", skills[0].DepartmentName)

	u := f.reload(t)
	u.DepartmentID = nil
	require.NoError(t, f.store.SaveUser(f.ctx, u))
	_, err = svc.GetSkillsByDepartment(f.ctx, f.user.ID)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	u := f.reload(t)
	u.Points = 300
	require.NoError(t, f.store.SaveUser(f.ctx, u))

	profile, err := svc.GetProfile(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.FirstName)
	assert.Equal(t, "Engineering", profile.DepartmentName)
	assert.Equal(t, "EMP100", profile.EmployeeID)
	assert.Equal(t, "Intermediate", profile.Progress.Level)

	_, err = svc.GetProfile(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListCoursesByLevel(t *testing.T) {
	f := newFixture(t)
	svc := newLearningService(f)

	all, err := svc.ListCourses(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	advanced, err := svc.ListCourses(f.ctx, "Advanced")
	require.NoError(t, err)
	require.Len(t, advanced, 1)
	assert.Equal(t, "Kubernetes", advanced[0].Title)
}
