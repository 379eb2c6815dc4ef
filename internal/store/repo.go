package store

import (
	"context"
	"time"
)

// Result limits for the list queries.
const (
	MaxTopicsPerUser  = 50
	MaxResultsPerUser = 20
)

// Topic is a named quiz subject owned by one user. Questions holds every
// distinct question text ever generated for it, in first-seen order.
type Topic struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	IsFavourite bool      `json:"isFavourite"`
	Questions   []string  `json:"questions"`
}

// QuizResult is the immutable outcome of one finished quiz.
type QuizResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	TopicName      string    `json:"topicName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CreatedAt      time.Time `json:"createdAt"`
}

// User is an account that owns topics and results.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// TopicRepo persists topics. Every call is scoped to a single user.
type TopicRepo interface {
	// Save returns the id of the user's topic with this name, creating it
	// (not favourite, empty history) when it doesn't exist yet.
	Save(ctx context.Context, userID, name string) (string, error)

	// ByName returns the topic or nil when the user has none by that name.
	ByName(ctx context.Context, userID, name string) (*Topic, error)

	// AddQuestions merges texts into the topic history with set-union
	// semantics.
	AddQuestions(ctx context.Context, userID, topicID string, texts []string) error

	// ForUser returns up to MaxTopicsPerUser topics, newest first.
	ForUser(ctx context.Context, userID string) ([]Topic, error)

	// SetFavourite flips the favourite flag. Returns ErrNotFound when the
	// topic doesn't belong to the user.
	SetFavourite(ctx context.Context, userID, topicID string, favourite bool) error
}

// ResultRepo persists quiz results.
type ResultRepo interface {
	// Save stores a new result and returns it with id and timestamp set.
	Save(ctx context.Context, r QuizResult) (*QuizResult, error)

	// ForUser returns up to MaxResultsPerUser results, newest first.
	ForUser(ctx context.Context, userID string) ([]QuizResult, error)
}

// UserRepo persists accounts.
type UserRepo interface {
	// Create stores a new user. Returns ErrConflict when the email is taken.
	Create(ctx context.Context, email, passwordHash string) (*User, error)

	// ByEmail returns the user or nil.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByID returns the user or nil.
	ByID(ctx context.Context, id string) (*User, error)
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose filter (empty = all)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// UsageByPurpose aggregates token usage for one purpose label.
type UsageByPurpose struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// UsageByModel aggregates token usage for one model.
type UsageByModel struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event or nil.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]UsageByPurpose, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]UsageByModel, error)
}
