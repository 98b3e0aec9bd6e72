package run

import (
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/sadopc/farmrun/internal/catalog"
)

const (
	// SearchQueryMaxLen caps the lookup query.
	SearchQueryMaxLen = 20
	// SearchResultsLimit caps the result list.
	SearchResultsLimit = 5
	// MaxInputLength caps sanitized freeform item names.
	MaxInputLength = 32
)

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeInput strips markup, trims whitespace and caps the length of
// freeform user text.
func SanitizeInput(s string) string {
	s = markupPattern.ReplaceAllString(s, "")
	runes := []rune(s)
	if len(runes) > MaxInputLength {
		runes = runes[:MaxInputLength]
	}
	return strings.TrimSpace(string(runes))
}

// Search is the modal item-lookup sub-state. While open it forces the timer
// into an effective pause, so the open flag is read from the ticker goroutine.
type Search struct {
	open    atomic.Bool
	query   string
	results []catalog.Item
	index   int
	quality string
}

func NewSearch() *Search {
	return &Search{quality: "1"}
}

func (s *Search) IsOpen() bool { return s.open.Load() }

// Open resets the panel state and opens it.
func (s *Search) Open() {
	s.query = ""
	s.results = nil
	s.index = 0
	s.open.Store(true)
}

func (s *Search) Close() { s.open.Store(false) }

func (s *Search) Query() string { return s.query }

func (s *Search) Results() []catalog.Item { return s.results }

func (s *Search) Index() int { return s.index }

func (s *Search) Quality() string { return s.quality }

func (s *Search) SetQuality(code string) { s.quality = catalog.QualityByCode(code).Code }

// Perform runs a case-insensitive substring match over both localized item
// names, resetting the cursor.
func (s *Search) Perform(query string) {
	runes := []rune(query)
	if len(runes) > SearchQueryMaxLen {
		runes = runes[:SearchQueryMaxLen]
	}
	s.query = string(runes)
	s.index = 0
	if s.query == "" {
		s.results = nil
		return
	}

	lower := strings.ToLower(s.query)
	var matched []catalog.Item
	for _, item := range catalog.Items {
		if strings.Contains(strings.ToLower(item.Name), lower) || strings.Contains(strings.ToLower(item.NameZH), lower) {
			matched = append(matched, item)
			if len(matched) == SearchResultsLimit {
				break
			}
		}
	}
	s.results = matched
}

// Navigate moves the cursor by dir with wraparound.
func (s *Search) Navigate(dir int) {
	if len(s.results) == 0 {
		return
	}
	s.index += dir
	if s.index < 0 {
		s.index = len(s.results) - 1
	}
	if s.index >= len(s.results) {
		s.index = 0
	}
}

// CreateCustomItem validates freeform text and emits a custom item id.
// Empty-after-sanitize input is reported through notify and the panel stays
// open; on success the panel closes.
func (s *Search) CreateCustomItem(name, quality string, notify func(msg string), onCreated func(itemID string)) {
	safe := SanitizeInput(name)
	if safe == "" {
		notify("invalid item name")
		return
	}
	if quality == "" {
		quality = s.quality
	}
	onCreated(catalog.CustomItemPrefix + safe + ":" + catalog.QualityByCode(quality).Code)
	s.Close()
}

// ConfirmDrop resolves an explicitly supplied item or the highlighted search
// result. With neither, it only closes the panel.
func (s *Search) ConfirmDrop(item *catalog.Item, onConfirmed func(itemID string)) {
	target := item
	if target == nil && s.index < len(s.results) {
		target = &s.results[s.index]
	}
	if target != nil {
		onConfirmed(target.ID)
	}
	s.Close()
}
