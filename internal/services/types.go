package services

import "time"

// Question types accepted by form creation.
const (
	QuestionText           = "text"
	QuestionMultipleChoice = "multiple-choice"
	QuestionRating         = "rating"
)

// Account is a registered form owner. Digest is never serialized.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Digest    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUser is the account view returned to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Question is a normalized form question. IDs are assigned sequentially
// ("q1".."q5") at creation time; client-supplied ids are ignored.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// Response is one anonymous submission, immutable once appended.
type Response struct {
	ID          string            `json:"id"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// Form owns its question list and its append-only response log.
type Form struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Questions   []Question  `json:"questions"`
	Responses   []*Response `json:"responses"`
	CreatedAt   time.Time   `json:"created_at"`
	Active      bool        `json:"is_active"`
}

// FormSummary is the dashboard view: the response log collapsed to a count.
type FormSummary struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Questions     []Question `json:"questions"`
	ResponseCount int        `json:"responses"`
	CreatedAt     time.Time  `json:"created_at"`
	Active        bool       `json:"is_active"`
}

// PublicForm is the subset safe to expose to anonymous respondents: no
// owner id, no responses.
type PublicForm struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// QuestionInput mirrors the inbound question payload before normalization.
// Required is a pointer so "omitted" and "explicitly false" stay distinct.
type QuestionInput struct {
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
	Required *bool    `json:"required"`
}

// Summary collapses the response log to a count for dashboard views.
func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:            f.ID,
		OwnerID:       f.OwnerID,
		Title:         f.Title,
		Description:   f.Description,
		Questions:     f.Questions,
		ResponseCount: len(f.Responses),
		CreatedAt:     f.CreatedAt,
		Active:        f.Active,
	}
}
