package services

import (
	"time"

	"adaptive-reader/internal/api/v1/dto"
)

// ContentServiceImpl returns fixed demo content for the dashboards
type ContentServiceImpl struct {
	now func() time.Time
}

// NewContentService creates a new content service
func NewContentService() ContentService {
	return &ContentServiceImpl{now: time.Now}
}

func (s *ContentServiceImpl) SampleContent() dto.SampleContent {
	return dto.SampleContent{
		Title: "Sample Reading Passage",
		Text: "The Adaptive Reading Assistant project is designed to help students with dyslexia by using tailored fonts, " +
			"colors, and interactive features like text-to-speech. Our goal is to make reading a less challenging and more rewarding experience.",
	}
}

func (s *ContentServiceImpl) StudentProfile() dto.StudentProfile {
	return dto.StudentProfile{
		ID:                  101,
		Name:                "Alex Johnson",
		ReadingLevel:        "Grade 4 Equivalent",
		WeeklyGoalHours:     5,
		WeeklyProgressHours: 3.5,
		BadgesEarned:        2,
		LastLogin:           s.now().UTC(),
	}
}

func (s *ContentServiceImpl) TeacherDashboard() dto.TeacherDashboard {
	return dto.TeacherDashboard{
		TeacherName:                 "Ms. Eleanor Vance",
		TotalStudents:               18,
		ClassAverageDifficultyScore: 0.65,
		ClassAverageAccuracy:        0.81,
		WeeklyReadingMinutes:        247,
		StudentsOnTrack:             14,
		Alerts: []dto.StudentAlert{
			{ID: 101, Name: "Jamie C.", Issue: "Low accuracy", Detail: "Avg accuracy dropped below 55% this week."},
			{ID: 102, Name: "Taylor D.", Issue: "Missed sessions", Detail: "No recorded sessions in the last 5 days."},
		},
		RecentStudents: []dto.StudentActivity{
			{ID: 1, Name: "Alex B.", Sessions: 5, AvgScore: 0.72},
			{ID: 2, Name: "Jamie C.", Sessions: 3, AvgScore: 0.58},
			{ID: 3, Name: "Taylor D.", Sessions: 4, AvgScore: 0.68},
			{ID: 4, Name: "Jordan E.", Sessions: 6, AvgScore: 0.81},
			{ID: 5, Name: "Sam H.", Sessions: 2, AvgScore: 0.54},
		},
		ReadingTrends: dto.ReadingTrends{
			Labels:        []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Minutes:       []int{32, 48, 41, 55, 39, 12, 20},
			Comprehension: []float64{0.72, 0.75, 0.7, 0.78, 0.74, 0.6, 0.67},
		},
	}
}
