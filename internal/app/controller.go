// Package app orchestrates the dashboard session: display state, the active
// location and forecast bundle, unit preferences, search, and the assistant
// transcript. It holds no rendering references; adapters call named intents
// and read back a plain-data snapshot.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

// DisplayState is the dashboard's visible forecast state.
type DisplayState string

const (
	StateLoading DisplayState = "loading"
	StateReady   DisplayState = "ready"
	StateError   DisplayState = "error"
)

// fallbackLocation is used whenever geolocation is denied, unsupported, or
// reverse geocoding fails. Absorbed silently, never surfaced as an error.
var fallbackLocation = domain.Location{Name: "Berlin", Latitude: 52.52, Longitude: 13.405}

// Search status lines surfaced on the snapshot.
const (
	statusNoResults    = "No search result found!"
	statusSearchFailed = "Search failed. Please try again."
)

// assistantUnavailableReply is rendered as an inline assistant message when
// the chat backend cannot be reached.
const assistantUnavailableReply = "Sorry, the assistant is unavailable right now. Please try again later."

// minQueryLength is the shortest query that triggers a search request.
const minQueryLength = 2

// defaultDebounce is the search input quiescence window.
const defaultDebounce = 300 * time.Millisecond

// Deps wires the controller's collaborators.
type Deps struct {
	Searcher  domain.LocationSearcher
	Fetcher   domain.ForecastFetcher
	Reverser  domain.ReverseGeocoder // optional
	Assistant domain.ChatStreamer    // optional
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Clock     clockwork.Clock // optional, defaults to real time
	Debounce  time.Duration   // optional, defaults to 300ms
}

// Controller owns all session state. Intents may be invoked concurrently;
// state is guarded by a single mutex and network calls run outside of it.
// Request-sequence counters guarantee that only the latest issued search and
// fetch can alter the visible state, regardless of arrival order.
type Controller struct {
	searcher  domain.LocationSearcher
	fetcher   domain.ForecastFetcher
	reverser  domain.ReverseGeocoder
	assistant domain.ChatStreamer
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	debounce  time.Duration

	mu            sync.Mutex
	state         DisplayState
	location      domain.Location
	bundle        *domain.ForecastBundle
	units         domain.UnitPreferences
	selectedDay   int
	searchResults []domain.SearchResult
	searchStatus  string
	transcript    []domain.ChatMessage
	theme         string
	loadedOnce    bool

	searchSeq    uint64
	fetchSeq     uint64
	pendingTimer clockwork.Timer
}

// New creates a Controller in the Loading state with metric units and the
// light theme, mirroring a fresh page load.
func New(d Deps) *Controller {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Debounce <= 0 {
		d.Debounce = defaultDebounce
	}
	return &Controller{
		searcher:  d.Searcher,
		fetcher:   d.Fetcher,
		reverser:  d.Reverser,
		assistant: d.Assistant,
		logger:    d.Logger,
		metrics:   d.Metrics,
		clock:     d.Clock,
		debounce:  d.Debounce,
		state:     StateLoading,
		units:     domain.MetricUnits(),
		theme:     "light",
	}
}

// Bootstrap establishes the initial location and loads its forecast. With
// coordinates (from the browser's geolocation) it reverse-geocodes them;
// without coordinates, or on any reverse-geocode failure, it falls back to
// Berlin. Geolocation problems never surface to the user.
func (c *Controller) Bootstrap(ctx context.Context, coords *domain.Coordinates) {
	loc := fallbackLocation
	if coords != nil && c.reverser != nil {
		name, err := c.reverser.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
		if err != nil {
			c.logger.Warn("reverse geocoding failed, using fallback location",
				"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		} else {
			loc = domain.Location{Name: name, Latitude: coords.Latitude, Longitude: coords.Longitude}
		}
	}
	c.SelectLocation(ctx, loc)
}

// SelectLocation replaces the active location wholesale and loads its
// forecast. Pending search results are cleared, matching selection from the
// result list.
func (c *Controller) SelectLocation(ctx context.Context, loc domain.Location) {
	c.mu.Lock()
	c.location = loc
	c.searchResults = nil
	c.searchStatus = ""
	c.mu.Unlock()

	c.loadForecast(ctx)
}

// Retry re-fetches the stored location without re-running geolocation. With
// no location selected yet it bootstraps from scratch.
func (c *Controller) Retry(ctx context.Context) {
	c.mu.Lock()
	hasLocation := c.location != (domain.Location{})
	c.mu.Unlock()

	if !hasLocation {
		c.Bootstrap(ctx, nil)
		return
	}
	c.loadForecast(ctx)
}

// loadForecast runs one fetch cycle: Loading, then Ready or Error. A fetch
// that was superseded while in flight is discarded without touching state,
// so whichever fetch was issued last wins.
func (c *Controller) loadForecast(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	loc := c.location
	c.state = StateLoading
	c.mu.Unlock()

	bundle, err := c.fetcher.FetchForecast(ctx, loc)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.fetchSeq {
		c.metrics.StaleDiscarded.WithLabelValues("forecast").Inc()
		c.logger.Debug("discarding stale forecast response", "location", loc.Name)
		return
	}
	if err != nil {
		c.state = StateError
		c.metrics.ForecastLoads.WithLabelValues("error").Inc()
		c.logger.Error("forecast fetch failed", "location", loc.Name, "error", err)
		return
	}

	c.bundle = &bundle
	c.state = StateReady
	c.loadedOnce = true
	c.metrics.ForecastLoads.WithLabelValues("success").Inc()
	c.logger.Info("forecast loaded", "location", loc.Name)
}

// Search handles search input. Queries shorter than two characters clear the
// result list without a network call. Longer queries are debounced: the
// request fires only after the input has been quiet for the debounce window,
// and a response is applied only if no newer search was issued meanwhile.
func (c *Controller) Search(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	if len(query) < minQueryLength {
		c.searchResults = nil
		c.searchStatus = ""
		c.mu.Unlock()
		return
	}
	// The debounced call outlives the triggering request.
	bg := context.WithoutCancel(ctx)
	c.pendingTimer = c.clock.AfterFunc(c.debounce, func() {
		c.runSearch(bg, query)
	})
	c.mu.Unlock()
}

func (c *Controller) runSearch(ctx context.Context, query string) {
	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.mu.Unlock()

	results, err := c.searcher.SearchLocations(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq {
		c.metrics.StaleDiscarded.WithLabelValues("search").Inc()
		c.logger.Debug("discarding stale search response", "query", query)
		return
	}
	if err != nil {
		// Search failures stay inline; the forecast view is untouched.
		c.searchResults = nil
		c.searchStatus = statusSearchFailed
		c.logger.Warn("location search failed", "query", query, "error", err)
		return
	}
	if len(results) == 0 {
		c.searchResults = nil
		c.searchStatus = statusNoResults
		return
	}
	c.searchResults = results
	c.searchStatus = ""
}

// SwitchUnits replaces the unit preferences. The cached bundle is simply
// reformatted on the next snapshot; the data is unit-independent, so no
// fetch is needed.
func (c *Controller) SwitchUnits(units domain.UnitPreferences) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units = units
}

// SelectDay picks which day's hourly slice the snapshot carries.
func (c *Controller) SelectDay(index int) error {
	if index < 0 || index > 6 {
		return fmt.Errorf("day index %d out of range 0..6", index)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedDay = index
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme. The
// core treats the value as opaque; only the UI adapter interprets it.
func (c *Controller) ToggleTheme() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.theme == "dark" {
		c.theme = "light"
	} else {
		c.theme = "dark"
	}
	return c.theme
}

// SendChatMessage appends a user turn, streams the assistant's reply through
// emit, and appends the accumulated reply to the transcript. Assistant
// failures become an inline assistant message; the forecast view is never
// disturbed. The transcript is append-only and session-scoped.
func (c *Controller) SendChatMessage(ctx context.Context, text string, emit func(delta string) error) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty chat message")
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, domain.ChatMessage{Role: domain.RoleUser, Text: text})
	summary := c.contextSummaryLocked()
	assistant := c.assistant
	c.mu.Unlock()

	var reply strings.Builder
	var streamErr error
	if assistant == nil {
		streamErr = domain.ErrAssistantUnavailable
	} else {
		streamErr = assistant.StreamChat(ctx, text, summary, func(delta string) error {
			reply.WriteString(delta)
			return emit(delta)
		})
	}

	if streamErr != nil {
		c.logger.Warn("assistant stream failed", "error", streamErr)
		if reply.Len() == 0 {
			reply.WriteString(assistantUnavailableReply)
			_ = emit(assistantUnavailableReply)
		}
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, domain.ChatMessage{Role: domain.RoleAssistant, Text: reply.String()})
	c.mu.Unlock()
	return nil
}

// contextSummaryLocked builds the one-line weather context handed to the
// assistant from the latest observation. Empty before the first successful
// fetch. Caller holds c.mu.
func (c *Controller) contextSummaryLocked() string {
	if c.bundle == nil {
		return ""
	}
	cur := c.bundle.Current
	cond := domain.LookupWeatherCode(cur.WeatherCode)
	return fmt.Sprintf("Current weather in %s: %s, temperature %.1f°C, wind %.1f km/h, precipitation %.1f mm.",
		c.bundle.Location.Name, cond.Description, cur.TemperatureC, cur.WindSpeedKmh, cur.PrecipitationMm)
}

// CheckReadiness reports ready once at least one forecast has loaded.
func (c *Controller) CheckReadiness(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loadedOnce {
		return fmt.Errorf("no forecast loaded yet")
	}
	return nil
}

// Snapshot is the plain-data view-model handed to the adapter layer.
type Snapshot struct {
	State         DisplayState              `json:"state"`
	Location      domain.Location           `json:"location"`
	Date          string                    `json:"date"`
	Units         domain.UnitPreferences    `json:"units"`
	SelectedDay   int                       `json:"selected_day"`
	Current       *domain.CurrentConditions `json:"current,omitempty"`
	Daily         []domain.DailyCard        `json:"daily,omitempty"`
	NextHours     []domain.HourlyEntry      `json:"next_hours,omitempty"`
	DayHours      []domain.HourlyEntry      `json:"day_hours,omitempty"`
	SearchResults []domain.SearchResult     `json:"search_results,omitempty"`
	SearchStatus  string                    `json:"search_status,omitempty"`
	Transcript    []domain.ChatMessage      `json:"transcript,omitempty"`
	Theme         string                    `json:"theme"`
}

// Snapshot derives the current view-model. The bundle is read-only here;
// all formatting happens at this boundary.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:         c.state,
		Location:      c.location,
		Date:          domain.FormatDate(c.clock.Now()),
		Units:         c.units,
		SelectedDay:   c.selectedDay,
		SearchResults: c.searchResults,
		SearchStatus:  c.searchStatus,
		Transcript:    c.transcript,
		Theme:         c.theme,
	}
	if c.bundle != nil {
		b := *c.bundle
		snap.Date = domain.FormatDate(c.clock.Now().In(b.Zone()))
		cur := domain.CurrentView(b, c.units)
		snap.Current = &cur
		snap.Daily = domain.DailyView(b, c.units)
		snap.NextHours = domain.NextHoursView(b, c.units)
		snap.DayHours = domain.DayHoursView(b, c.units, c.selectedDay)
	}
	return snap
}
