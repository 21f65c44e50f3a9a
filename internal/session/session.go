// =============================================================================
// Column Configuration Validator - Session Module
// =============================================================================
//
// A Session is one user's pass through the column setup screen. It owns the
// configuration store and the validator, turns dropdown selections into
// store updates, and revalidates after every change.
//
// SELECTION PIPELINE:
//   1. Rewrite the value to the catalog spelling (see Transformer)
//   2. Translate the selection into a partial update or a clear
//   3. Apply it to the store
//   4. Run a validation pass and notify reporters
//
// A Session is not safe for concurrent use. Each selection is processed to
// completion before the next one starts.
//
// =============================================================================

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/logging"
	"github.com/ginjaninja78/column-config-validator/internal/store"
	"github.com/ginjaninja78/column-config-validator/internal/types"
	"github.com/ginjaninja78/column-config-validator/internal/validation"
)

// ErrUnknownField is returned for a selection or option query naming a field
// the session does not know.
var ErrUnknownField = errors.New("unknown field")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of replaying a list of selections.
type Result struct {
	// SessionID identifies the session in logs and report file names.
	SessionID string `json:"sessionId" xml:"sessionId,attr"`

	// Final is the validation result after the last selection.
	Final validation.ValidationResult `json:"result" xml:"result"`

	// Columns is the stored configuration of every column after the last
	// selection.
	Columns map[int]types.ColumnConfiguration `json:"columns" xml:"-"`

	// Passes is the number of validation passes run.
	Passes int `json:"passes" xml:"passes,attr"`

	// Duration is the time taken to replay the selections.
	Duration time.Duration `json:"-" xml:"-"`
}

// =============================================================================
// SESSION STRUCTURE
// =============================================================================

// Session holds the column configurations of one setup screen.
type Session struct {
	id          string
	catalog     config.Catalog
	transformer *Transformer
	store       *store.Store
	validator   *validation.Validator
	logger      *log.Logger
	reporters   []validation.Reporter

	passes int
	last   validation.ValidationResult
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger shared by the session and its validator.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter registers a reporter notified after every validation pass.
func WithReporter(r validation.Reporter) Option {
	return func(s *Session) {
		s.reporters = append(s.reporters, r)
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Session from the application configuration.
//
// PARAMETERS:
//   - cfg: The application configuration. Its catalog decides which balance
//     types participate and which ones clear a column. Nil means defaults.
//   - opts: Session options.
//
// RETURNS:
//   - A new Session with an empty store.
func New(cfg *config.MainConfig, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Session{
		id:          uuid.New().String(),
		catalog:     cfg.Catalog,
		transformer: NewTransformer(cfg.Catalog),
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)

	s.store = store.New(cfg.Catalog.BalanceTypeSet(), store.WithColumnLimit(cfg.ColumnLimit))

	validatorOpts := []validation.ValidatorOption{validation.WithLogger(s.logger)}
	for _, r := range s.reporters {
		validatorOpts = append(validatorOpts, validation.WithReporter(r))
	}
	s.validator = validation.NewValidator(s.store, validatorOpts...)

	s.last = s.validator.Evaluate()
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Store returns the session's configuration store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Last returns the most recent validation result.
func (s *Session) Last() validation.ValidationResult {
	return s.last
}

// Passes returns the number of validation passes run so far.
func (s *Session) Passes() int {
	return s.passes
}

// =============================================================================
// SELECTION HANDLING
// =============================================================================

// Apply applies one selection and revalidates.
//
// A "clear" selection, or a balance type listed in the catalog's
// clear_on_types, removes the column's record. Any other selection sets the
// named field; an empty value deselects it.
//
// RETURNS:
//   - The validation result after the change.
//   - An error if the field is unknown or the column index is invalid. The
//     store is unchanged and no validation pass runs in that case.
func (s *Session) Apply(sel types.Selection) (validation.ValidationResult, error) {
	if err := s.apply(sel); err != nil {
		if sel.Source != "" {
			err = fmt.Errorf("%s: %w", sel.Source, err)
		}
		return s.last, err
	}

	s.last = s.validator.Validate()
	s.passes++

	if !s.last.Valid {
		s.logger.Debug("configuration invalid",
			"column", sel.Column,
			"violations", len(s.last.BusinessRuleViolations),
			"conflicts", len(s.last.Conflicts),
		)
	}
	return s.last, nil
}

// apply updates the store for one selection.
func (s *Session) apply(sel types.Selection) error {
	if sel.Field != types.FieldClear {
		value := s.transformer.Transform(sel.Field, sel.Value)
		if value != sel.Value {
			s.logger.Debug("value rewritten", "column", sel.Column, "field", sel.Field, "from", sel.Value, "to", value)
		}
		sel.Value = value
	}

	if sel.Field == types.FieldClear ||
		(sel.Field == types.FieldBalanceType && s.catalog.ClearsColumn(sel.Value)) {
		s.logger.Debug("clearing column", "column", sel.Column, "value", sel.Value)
		return s.store.Clear(sel.Column)
	}

	partial, err := partialFor(sel.Field, sel.Value)
	if err != nil {
		return err
	}

	s.warnIfNotInCatalog(sel)
	s.logger.Debug("selection", "column", sel.Column, "field", sel.Field, "value", sel.Value)
	return s.store.Set(sel.Column, partial)
}

// warnIfNotInCatalog logs values the catalog does not offer. They are still
// applied; engagements in particular are often typed in.
func (s *Session) warnIfNotInCatalog(sel types.Selection) {
	if sel.Value == "" {
		return
	}
	options, err := s.catalog.Options(sel.Field)
	if err != nil || len(options) == 0 {
		return
	}
	key := types.CanonicalName(sel.Value)
	for _, o := range options {
		if types.CanonicalName(o) == key {
			return
		}
	}
	s.logger.Warn("value not in catalog", "column", sel.Column, "field", sel.Field, "value", sel.Value)
}

// Run replays selections in order. The first failing selection aborts the
// run.
func (s *Session) Run(selections []types.Selection) (*Result, error) {
	start := time.Now()
	s.logger.Info("replaying selections", "count", len(selections))

	for _, sel := range selections {
		if _, err := s.Apply(sel); err != nil {
			return nil, err
		}
	}

	result := &Result{
		SessionID: s.id,
		Final:     s.last,
		Columns:   s.store.Snapshot(),
		Passes:    s.passes,
		Duration:  time.Since(start),
	}

	s.logger.Info("replay complete",
		"passes", result.Passes,
		"valid", result.Final.Valid,
		"duration", result.Duration,
	)
	return result, nil
}

// partialFor builds the partial update for one field.
func partialFor(field, value string) (types.PartialConfiguration, error) {
	var p types.PartialConfiguration
	switch field {
	case types.FieldEngagement:
		p.Engagement = types.StringPtr(value)
	case types.FieldBalanceType:
		p.BalanceType = types.StringPtr(value)
	case types.FieldPeriod:
		p.Period = types.StringPtr(value)
	case types.FieldDebitCredit:
		p.DebitCredit = types.StringPtr(value)
	default:
		return p, fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return p, nil
}
