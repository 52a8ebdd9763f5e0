package dto

import "time"

// StatusMessage is a plain message payload
type StatusMessage struct {
	Message string `json:"message"`
}

// SampleContent is a passage for the reader view
type SampleContent struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// StudentProfile is the student dashboard summary
type StudentProfile struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	ReadingLevel        string    `json:"readingLevel"`
	WeeklyGoalHours     float64   `json:"weeklyGoalHours"`
	WeeklyProgressHours float64   `json:"weeklyProgressHours"`
	BadgesEarned        int       `json:"badgesEarned"`
	LastLogin           time.Time `json:"lastLogin"`
}

// StudentAlert flags a student that needs attention
type StudentAlert struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Issue  string `json:"issue"`
	Detail string `json:"detail"`
}

// StudentActivity summarizes recent sessions of one student
type StudentActivity struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Sessions int     `json:"sessions"`
	AvgScore float64 `json:"avgScore"`
}

// ReadingTrends holds per-day series for the dashboard charts
type ReadingTrends struct {
	Labels        []string  `json:"labels"`
	Minutes       []int     `json:"minutes"`
	Comprehension []float64 `json:"comprehension"`
}

// TeacherDashboard is the class level analytics summary
type TeacherDashboard struct {
	TeacherName                 string            `json:"teacherName"`
	TotalStudents               int               `json:"totalStudents"`
	ClassAverageDifficultyScore float64           `json:"classAverageDifficultyScore"`
	ClassAverageAccuracy        float64           `json:"classAverageAccuracy"`
	WeeklyReadingMinutes        int               `json:"weeklyReadingMinutes"`
	StudentsOnTrack             int               `json:"studentsOnTrack"`
	Alerts                      []StudentAlert    `json:"alerts"`
	RecentStudents              []StudentActivity `json:"recentStudents"`
	ReadingTrends               ReadingTrends     `json:"readingTrends"`
}
