package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formlite/formlite/internal/ids"
)

// FormStore abstracts the form collection used by FormService. Responses
// are appended through the store so the backing collection can serialize
// the mutation.
type FormStore interface {
	InsertForm(f *Form) error
	GetForm(id string) (*Form, error)
	ListFormsByOwner(ownerID string) ([]*Form, error)
	AppendResponse(formID string, r *Response) error
}

// MaxQuestions caps the question list of a single form.
const MaxQuestions = 5

type FormService struct {
	store      FormStore
	now        func() time.Time
	formID     func() string
	responseID func() string
}

func NewFormService(store FormStore) *FormService {
	return &FormService{
		store:      store,
		now:        func() time.Time { return time.Now().UTC() },
		formID:     func() string { return "f" + shortID(8) },
		responseID: ids.New,
	}
}

// Create validates and normalizes the question list and persists a new
// form owned by ownerID. Question ids are reassigned to "q1".."q5"
// regardless of what the client sent, required defaults to true unless
// explicitly false, and options are trimmed with empties dropped.
func (s *FormService) Create(ownerID, title, description string, questions []QuestionInput) (*Form, error) {
	if ownerID == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	title = strings.TrimSpace(title)
	if title == "" || len(questions) == 0 {
		return nil, NewInvalidError("title and questions are required")
	}
	if len(questions) > MaxQuestions {
		return nil, NewInvalidError(fmt.Sprintf("maximum %d questions allowed", MaxQuestions))
	}
	normalized := make([]Question, 0, len(questions))
	for i, in := range questions {
		q, err := normalizeQuestion(i, in)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, q)
	}
	f := &Form{
		ID:          s.formID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Questions:   normalized,
		Responses:   []*Response{},
		CreatedAt:   s.now(),
		Active:      true,
	}
	if err := s.store.InsertForm(f); err != nil {
		return nil, err
	}
	return f, nil
}

func normalizeQuestion(pos int, in QuestionInput) (Question, error) {
	q := Question{
		ID:       fmt.Sprintf("q%d", pos+1),
		Text:     strings.TrimSpace(in.Text),
		Type:     strings.TrimSpace(in.Type),
		Required: in.Required == nil || *in.Required,
	}
	if q.Type == "" {
		q.Type = QuestionText
	}
	switch q.Type {
	case QuestionText, QuestionMultipleChoice, QuestionRating:
	default:
		return Question{}, NewInvalidError(fmt.Sprintf("question %d has unsupported type %q", pos+1, q.Type))
	}
	options := make([]string, 0, len(in.Options))
	for _, opt := range in.Options {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			options = append(options, opt)
		}
	}
	q.Options = options
	if q.Type == QuestionMultipleChoice && len(q.Options) < 2 {
		return Question{}, NewInvalidError(fmt.Sprintf("question %d needs at least 2 options", pos+1))
	}
	return q, nil
}

// Get returns a form owned by ownerID. A form owned by someone else is
// reported the same way as a missing one.
func (s *FormService) Get(ownerID, formID string) (*Form, error) {
	if ownerID == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	f, err := s.store.GetForm(formID)
	if err != nil {
		return nil, err
	}
	if f == nil || f.OwnerID != ownerID {
		return nil, NewNotFoundError("form not found")
	}
	return f, nil
}

// ListOwned returns summaries of every form owned by ownerID, responses
// collapsed to a count.
func (s *FormService) ListOwned(ownerID string) ([]FormSummary, error) {
	if ownerID == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	forms, err := s.store.ListFormsByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]FormSummary, 0, len(forms))
	for _, f := range forms {
		out = append(out, f.Summary())
	}
	return out, nil
}

// GetPublic returns the anonymous-respondent view of an active form.
func (s *FormService) GetPublic(formID string) (*PublicForm, error) {
	f, err := s.store.GetForm(formID)
	if err != nil {
		return nil, err
	}
	if f == nil || !f.Active {
		return nil, NewNotFoundError("form not found or not active")
	}
	return &PublicForm{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Questions:   f.Questions,
	}, nil
}

// Submit appends one anonymous response to an active form. Every required
// question must have a non-blank answer, and a multiple-choice answer must
// be one of the question's options. Nothing about the stored response is
// echoed back; duplicate submissions create duplicate responses.
func (s *FormService) Submit(formID string, answers map[string]string) error {
	f, err := s.store.GetForm(formID)
	if err != nil {
		return err
	}
	if f == nil || !f.Active {
		return NewNotFoundError("form not found or not active")
	}
	for _, q := range f.Questions {
		answer := strings.TrimSpace(answers[q.ID])
		if q.Required && answer == "" {
			return NewInvalidError("please answer all required questions")
		}
		if q.Type == QuestionMultipleChoice && answer != "" && !containsOption(q.Options, answer) {
			return NewInvalidError(fmt.Sprintf("answer for %s is not one of the options", q.ID))
		}
	}
	if answers == nil {
		answers = map[string]string{}
	}
	return s.store.AppendResponse(formID, &Response{
		ID:          s.responseID(),
		Answers:     answers,
		SubmittedAt: s.now(),
	})
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
