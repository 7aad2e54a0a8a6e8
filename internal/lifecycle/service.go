// Package lifecycle implements the task lifecycle: creation, applications, approval,
// dual-code verification, completion and rating.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/store"
	"task-marketplace-api/internal/verification"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultMaxActiveTasks is the number of active tasks a creator may hold at once.
const DefaultMaxActiveTasks = 3

// CodeGenerator produces a verification code.
type CodeGenerator func() (string, error)

// Notifier pushes a JSON payload to a connected user.
type Notifier interface {
	Notify(userID string, payload any)
}

// Service is the task lifecycle state machine. It keeps no task state of its own:
// every decision is taken against rows read inside the transaction that writes.
type Service struct {
	store     *store.Store
	profiles  *store.ProfileCache
	limiter   verification.Limiter
	publisher events.Publisher
	notifier  Notifier
	codes     CodeGenerator
	validate  *validator.Validate
	log       *zap.Logger
	maxActive int
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter throttles wrong verification codes. The default never refuses.
func WithLimiter(l verification.Limiter) Option { return func(s *Service) { s.limiter = l } }

// WithPublisher sends lifecycle events to p.
func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }

// WithNotifier pushes rating requests to connected users.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithCodeGenerator replaces the random six-digit code source.
func WithCodeGenerator(g CodeGenerator) Option { return func(s *Service) { s.codes = g } }

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithProfiles sets the cache used to resolve creator names and ratings.
func WithProfiles(p *store.ProfileCache) Option { return func(s *Service) { s.profiles = p } }

// WithMaxActiveTasks overrides DefaultMaxActiveTasks; n <= 0 keeps the default.
func WithMaxActiveTasks(n int) Option { return func(s *Service) { s.maxActive = n } }

// WithClock sets the time source of event timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates the lifecycle service over st.
func NewService(st *store.Store, profiles *store.ProfileCache, opts ...Option) *Service {
	s := &Service{
		store:     st,
		profiles:  profiles,
		limiter:   verification.NopLimiter{},
		publisher: events.NopPublisher{},
		codes:     verification.GenerateCode,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       zap.NewNop(),
		maxActive: DefaultMaxActiveTasks,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxActive <= 0 {
		s.maxActive = DefaultMaxActiveTasks
	}
	return s
}

// publish emits a lifecycle event. Delivery is best-effort and never fails the operation.
func (s *Service) publish(ctx context.Context, typ events.Type, taskID, userID string) {
	evt := events.Event{Type: typ, TaskID: taskID, UserID: userID, Timestamp: s.now().UTC()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("publish lifecycle event failed",
			zap.String("type", string(typ)),
			zap.String("task_id", taskID),
			zap.Error(err))
	}
}

func (s *Service) notify(userID string, payload any) {
	if s.notifier != nil {
		s.notifier.Notify(userID, payload)
	}
}

// validationMessage flattens validator errors into one readable sentence.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "max":
			parts = append(parts, strings.ToLower(fe.Field())+" must be at most "+fe.Param()+" characters")
		case "gte":
			parts = append(parts, strings.ToLower(fe.Field())+" must be at least "+fe.Param())
		case "oneof":
			parts = append(parts, strings.ToLower(fe.Field())+" must be one of: "+fe.Param())
		default:
			parts = append(parts, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
