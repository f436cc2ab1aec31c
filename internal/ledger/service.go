// Package ledger is the group expense ledger's domain service.
//
// Every operation takes the acting user's ID as an explicit argument; the
// package never reads identity from a context. Balances are recomputed from
// the store on every call.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/storage"
)

// DefaultRecentExpenses is the number of expenses ListRecentExpenses
// returns when no limit is given.
const DefaultRecentExpenses = 10

// Service implements the group ledger operations on top of a storage.Store.
type Service struct {
	store       storage.Store
	metrics     *metrics.LedgerMetrics
	validate    *validator.Validate
	now         func() time.Time
	recentLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records operation metrics on m.
func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the clock used for settlement timestamps and default
// expense dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecentLimit sets the default page size of ListRecentExpenses.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// NewService creates a new Service with the given storage backend.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
		recentLimit: DefaultRecentExpenses,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe records the duration and, on failure, the error kind of op.
// It is deferred with a pointer to the operation's named error result.
func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveDuration(op, time.Since(start))
	if *err != nil {
		s.metrics.IncError(op, Kind(*err))
	}
}

// checkStruct validates v's struct tags, reporting failures as ErrInvalidInput.
func (s *Service) checkStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// checkIDs rejects empty identifiers. pairs alternates field name and value.
func checkIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, pairs[i])
		}
	}
	return nil
}

// logResult logs the outcome of op: Warn for caller errors, Error for
// everything else.
func logResult(op string, err error, attrs ...any) {
	if err == nil {
		return
	}
	attrs = append(attrs, "error", err)
	switch Kind(err) {
	case KindInvalidInput, KindInvalidSplitInput, KindNotFound, KindUnauthorized, KindAlreadyMember, KindCanceled:
		slog.Warn(op+" rejected", attrs...)
	default:
		slog.Error(op+" failed", attrs...)
	}
}
