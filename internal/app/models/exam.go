package models

import (
	"strings"
	"time"
)

// DefaultExamTitle is given to exams created without a title
const DefaultExamTitle = "Untitled"

// User defines the user model based on the 'users' table
type User struct {
	ID          string    `json:"id" db:"id" example:"3f1c3b8e-8a3e-4a57-9d1e-2b8f3f5c6a10"`
	Email       string    `json:"email" db:"email" example:"teacher@school.fr"`
	Password    string    `json:"-" db:"password"`
	FirstName   string    `json:"firstName" db:"first_name" example:"Marie"`
	LastName    string    `json:"lastName" db:"last_name" example:"Curie"`
	Institution *string   `json:"institution,omitempty" db:"institution" example:"Lycée Voltaire"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Exam is a stored exam owned by one user
type Exam struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"userId" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Components  Components `json:"components" db:"components"`
	TotalPoints float64    `json:"totalPoints" db:"total_points"`
	Tags        []string   `json:"tags" db:"tags"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Normalize applies the creation defaults and recomputes derived fields
func (e *Exam) Normalize() {
	if strings.TrimSpace(e.Title) == "" {
		e.Title = DefaultExamTitle
	}
	if e.Components == nil {
		e.Components = Components{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.TotalPoints = TotalPoints(e.Components)
}

// Difficulty levels of question bank items
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionBankItem is a single reusable component
type QuestionBankItem struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	Component  Component `json:"component" db:"component"`
	Tags       []string  `json:"tags" db:"tags"`
	Difficulty *string   `json:"difficulty,omitempty" db:"difficulty"`
	Subject    *string   `json:"subject,omitempty" db:"subject"`
	UsageCount int       `json:"usageCount" db:"usage_count"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Template is a reusable exam header
type Template struct {
	ID              string           `json:"id" db:"id"`
	UserID          string           `json:"userId" db:"user_id"`
	Name            string           `json:"name" db:"name"`
	Description     *string          `json:"description,omitempty" db:"description"`
	HeaderComponent *HeaderComponent `json:"headerComponent" db:"header_component"`
	IsPublic        bool             `json:"isPublic" db:"is_public"`
	UsageCount      int              `json:"usageCount" db:"usage_count"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
}
