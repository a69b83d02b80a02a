// Package search drives one round-trip search from form input to a stored,
// ranked result.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/roundtrip/config"
	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/Domenick1991/roundtrip/internal/itinerary"
	"github.com/Domenick1991/roundtrip/internal/kafka"
	"github.com/Domenick1991/roundtrip/internal/legtext"
	"github.com/Domenick1991/roundtrip/internal/repository"
	"github.com/Domenick1991/roundtrip/internal/source"
	"github.com/Domenick1991/roundtrip/internal/timeline"
	"github.com/Domenick1991/roundtrip/internal/window"
	"github.com/google/uuid"
)

const (
	defaultMaxAttempts = 4
	defaultRetryBase   = time.Second
)

type SearchUseCase interface {
	Search(ctx context.Context, input SearchInput) (*domain.Search, error)
	Get(ctx context.Context, id string) (*domain.Search, error)
	Itinerary(ctx context.Context, id string, index int) (*domain.Itinerary, error)
	Timeline(ctx context.Context, id string) (*TimelineView, error)
	Airport(ctx context.Context, code string) (*domain.Airport, error)
}

type Store interface {
	Save(ctx context.Context, search *domain.Search) error
	Get(ctx context.Context, id string) (*domain.Search, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SearchInput struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Outbound    window.Input `json:"outbound"`
	Return      window.Input `json:"return"`
}

// TimelineView bundles the Gantt layout and the price/time chart of a search.
type TimelineView struct {
	Layout timeline.Layout `json:"layout"`
	Chart  timeline.Chart  `json:"chart"`
}

type SearchService struct {
	airports        repository.AirportRepository
	source          source.Source
	store           Store
	producer        Producer
	eventsTopic     string
	maxAttempts     int
	retryBase       time.Duration
	displayCap      int
	bookingTemplate string
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string
}

type SearchServiceOption func(*SearchService)

func WithRetry(maxAttempts int, base time.Duration) SearchServiceOption {
	return func(s *SearchService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if base >= 0 {
			s.retryBase = base
		}
	}
}

func WithDisplayCap(limit int) SearchServiceOption {
	return func(s *SearchService) {
		s.displayCap = limit
	}
}

func WithBookingURLTemplate(template string) SearchServiceOption {
	return func(s *SearchService) {
		if template != "" {
			s.bookingTemplate = template
		}
	}
}

func WithEvents(producer Producer, topic string) SearchServiceOption {
	return func(s *SearchService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithLogger(logger *slog.Logger) SearchServiceOption {
	return func(s *SearchService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) SearchServiceOption {
	return func(s *SearchService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) SearchServiceOption {
	return func(s *SearchService) {
		s.newID = newID
	}
}

func NewSearchService(
	airports repository.AirportRepository,
	src source.Source,
	store Store,
	opts ...SearchServiceOption,
) *SearchService {
	service := &SearchService{
		airports:        airports,
		source:          src,
		store:           store,
		maxAttempts:     defaultMaxAttempts,
		retryBase:       defaultRetryBase,
		displayCap:      itinerary.DefaultDisplayCap,
		bookingTemplate: config.DefaultBookingURLTemplate,
		logger:          slog.Default(),
		now:             time.Now,
		newID:           newSearchID,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func newSearchID() string {
	return uuid.NewString()[:8]
}

// direction describes one leg of the trip as queried against the source.
type direction struct {
	name   domain.Direction
	from   string
	to     string
	dates  []string
	window domain.TimeWindow
	depLoc *time.Location
	arrLoc *time.Location
}

func (s *SearchService) Search(ctx context.Context, input SearchInput) (*domain.Search, error) {
	origin := strings.ToUpper(strings.TrimSpace(input.Origin))
	dest := strings.ToUpper(strings.TrimSpace(input.Destination))

	originLoc, err := s.location(ctx, "origin", origin)
	if err != nil {
		return nil, err
	}
	destLoc, err := s.location(ctx, "destination", dest)
	if err != nil {
		return nil, err
	}

	out := direction{name: domain.DirectionOutbound, from: origin, to: dest, depLoc: originLoc, arrLoc: destLoc}
	ret := direction{name: domain.DirectionReturn, from: dest, to: origin, depLoc: destLoc, arrLoc: originLoc}
	if err := resolve(&out, input.Outbound); err != nil {
		return nil, err
	}
	if err := resolve(&ret, input.Return); err != nil {
		return nil, err
	}

	outbound, err := s.collect(ctx, out)
	if err != nil {
		s.publishFailure(ctx, origin, dest, err)
		return nil, err
	}
	outbound = itinerary.Dedup(outbound)
	s.logger.Info("outbound legs match filters", "count", len(outbound), "nonstop", countNonstop(outbound))

	returns, err := s.collect(ctx, ret)
	if err != nil {
		var qerr *QueryError
		if errors.As(err, &qerr) {
			qerr.Outbound = len(outbound)
		}
		s.publishFailure(ctx, origin, dest, err)
		return nil, err
	}
	returns = itinerary.Dedup(returns)
	s.logger.Info("return legs match filters", "count", len(returns), "nonstop", countNonstop(returns))

	s.logger.Info("combining pairs", "outbound", len(outbound), "return", len(returns))
	all := itinerary.Combine(outbound, returns)
	kept := itinerary.Select(all, s.displayCap)
	nonstop := 0
	for _, it := range all {
		if it.BothNonstop() {
			nonstop++
		}
	}
	s.logger.Info("combinations kept", "kept", len(kept), "both_nonstop", nonstop)

	result := &domain.Search{
		Origin:          origin,
		Destination:     dest,
		DepartDate:      firstNonEmpty(input.Outbound.After.Date, input.Outbound.Before.Date),
		ReturnDate:      firstNonEmpty(input.Return.Before.Date, input.Return.After.Date),
		OutboundWindow:  out.window,
		ReturnWindow:    ret.window,
		OutboundMatched: len(outbound),
		ReturnMatched:   len(returns),
		Combinations:    len(kept),
		NonstopCount:    nonstop,
		CreatedAt:       s.now(),
	}
	result.BookingURL = s.bookingURL(result)

	if len(kept) == 0 {
		result.Empty = true
		result.Message = fmt.Sprintf("%d outbound / %d return matched filters but 0 valid combinations",
			len(outbound), len(returns))
		s.publish(ctx, kafka.EventSearchEmpty, result, "")
		return result, nil
	}

	result.ID = s.newID()
	result.Itineraries = kept
	result.Frontier = itinerary.Frontier(kept)
	if err := s.store.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("save search %s: %w", result.ID, err)
	}
	s.publish(ctx, kafka.EventSearchCompleted, result, "")
	return result, nil
}

func (s *SearchService) location(ctx context.Context, field, code string) (*time.Location, error) {
	if code == "" {
		return nil, &ValidationError{Field: field, Reason: "airport code is required"}
	}
	airport, err := s.airports.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("unknown airport %q", code)}
		}
		return nil, fmt.Errorf("lookup %s airport %s: %w", field, code, err)
	}
	loc, err := airport.Location()
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: err.Error()}
	}
	return loc, nil
}

// resolve fills the window and query dates of d. Both directions are resolved
// before the first query so a bad return window never costs a source call.
func resolve(d *direction, in window.Input) error {
	w, err := window.Resolve(in, window.Anchors{Depart: d.depLoc, Arrive: d.arrLoc})
	if err != nil {
		return &ValidationError{Direction: d.name, Field: "window", Reason: err.Error()}
	}
	dates := window.Dates(w)
	if len(dates) == 0 {
		reason := fmt.Sprintf("no %s dates, set at least one %s date", d.name, d.name)
		if !w.Empty() {
			reason = "arrive-before is earlier than depart-after"
		}
		return &ValidationError{Direction: d.name, Field: "window", Reason: reason}
	}
	d.window = w
	d.dates = dates
	return nil
}

// collect queries every date of d and keeps the legs admitted by its window.
func (s *SearchService) collect(ctx context.Context, d direction) ([]domain.Leg, error) {
	var legs []domain.Leg
	for _, date := range d.dates {
		queried, err := time.Parse(window.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse query date %q: %w", date, err)
		}

		s.logger.Info("searching", "direction", d.name, "from", d.from, "to", d.to, "date", date)
		raw, attempts, err := s.query(ctx, source.Query{Date: date, Origin: d.from, Destination: d.to})
		if err != nil {
			qerr := &QueryError{Direction: d.name, Date: date, Attempts: attempts, Err: err}
			if d.name == domain.DirectionOutbound {
				qerr.Outbound = len(legs)
			} else {
				qerr.Return = len(legs)
			}
			return nil, qerr
		}
		s.logger.Info("found flights", "direction", d.name, "date", date, "count", len(raw))

		for _, r := range raw {
			leg := legtext.Build(r, queried, d.depLoc, d.arrLoc)
			if !d.window.Admits(leg) {
				continue
			}
			legs = append(legs, leg)
		}
	}
	return legs, nil
}

// query retries temporary source failures with a doubling delay.
func (s *SearchService) query(ctx context.Context, q source.Query) ([]domain.RawLeg, int, error) {
	backoff := s.retryBase
	for attempt := 1; ; attempt++ {
		raw, err := s.source.Search(ctx, q)
		if err == nil {
			return raw, attempt, nil
		}
		if !errors.Is(err, source.ErrTemporary) || attempt >= s.maxAttempts {
			return nil, attempt, err
		}
		s.logger.Warn("source query failed, retrying", "date", q.Date, "attempt", attempt, "backoff", backoff, "error", err)
		if err := sleep(ctx, backoff); err != nil {
			return nil, attempt, err
		}
		backoff *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *SearchService) bookingURL(result *domain.Search) string {
	r := strings.NewReplacer(
		"{origin}", url.QueryEscape(result.Origin),
		"{destination}", url.QueryEscape(result.Destination),
		"{depart}", url.QueryEscape(result.DepartDate),
		"{return}", url.QueryEscape(result.ReturnDate),
	)
	return r.Replace(s.bookingTemplate)
}

func (s *SearchService) Get(ctx context.Context, id string) (*domain.Search, error) {
	result, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load search %s: %w", id, err)
	}
	if result == nil {
		return nil, fmt.Errorf("search %s: %w", id, ErrNotFound)
	}
	return result, nil
}

func (s *SearchService) Itinerary(ctx context.Context, id string, index int) (*domain.Itinerary, error) {
	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(result.Itineraries) {
		return nil, fmt.Errorf("itinerary %d of search %s: %w", index, id, ErrNotFound)
	}
	it := result.Itineraries[index]
	return &it, nil
}

func (s *SearchService) Timeline(ctx context.Context, id string) (*TimelineView, error) {
	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TimelineView{
		Layout: timeline.Build(result.Itineraries, result.Frontier),
		Chart:  timeline.Scatter(result.Itineraries, result.Frontier),
	}, nil
}

func (s *SearchService) Airport(ctx context.Context, code string) (*domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	airport, err := s.airports.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return nil, fmt.Errorf("airport %s: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return airport, nil
}

func (s *SearchService) publishFailure(ctx context.Context, origin, dest string, err error) {
	s.publish(ctx, kafka.EventSearchFailed, &domain.Search{Origin: origin, Destination: dest}, err.Error())
}

func (s *SearchService) publish(ctx context.Context, eventType string, result *domain.Search, reason string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.SearchEvent{
		Type:            eventType,
		SearchID:        result.ID,
		Origin:          result.Origin,
		Destination:     result.Destination,
		OutboundMatched: result.OutboundMatched,
		ReturnMatched:   result.ReturnMatched,
		Combinations:    result.Combinations,
		NonstopCount:    result.NonstopCount,
		Error:           reason,
		At:              s.now(),
	}
	if len(result.Itineraries) > 0 {
		event.CheapestPrice = result.Itineraries[0].TotalPrice
	}
	key := result.Origin + "-" + result.Destination
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		s.logger.Warn("failed to publish search event", "type", eventType, "search_id", result.ID, "error", err)
	}
}

func countNonstop(legs []domain.Leg) int {
	n := 0
	for _, l := range legs {
		if l.Nonstop() {
			n++
		}
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
