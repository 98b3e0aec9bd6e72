package run

import (
	"strings"
	"testing"

	"github.com/sadopc/farmrun/internal/catalog"
)

// ============================================================
// Input sanitizing
// ============================================================

func TestSanitizeInputStripsMarkup(t *testing.T) {
	got := SanitizeInput("<b>Shako</b>")
	if got != "Shako" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeInputTrims(t *testing.T) {
	if got := SanitizeInput("  Windforce  "); got != "Windforce" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeInputCapsLength(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := SanitizeInput(long)
	if len([]rune(got)) != MaxInputLength {
		t.Fatalf("len = %d", len([]rune(got)))
	}
}

func TestSanitizeInputMarkupOnly(t *testing.T) {
	if got := SanitizeInput("<script></script>"); got != "" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Search
// ============================================================

func TestSearchCaseInsensitive(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("SHAKO")
	if len(s.Results()) == 0 {
		t.Fatal("expected a match for SHAKO")
	}
	if !strings.Contains(strings.ToLower(s.Results()[0].Name), "shako") {
		t.Fatalf("wrong match: %+v", s.Results()[0])
	}
}

func TestSearchResultLimit(t *testing.T) {
	s := NewSearch()
	s.Open()
	// Single-letter query matches many items.
	s.Perform("a")
	if len(s.Results()) > SearchResultsLimit {
		t.Fatalf("results over limit: %d", len(s.Results()))
	}
}

func TestSearchQueryCapped(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform(strings.Repeat("z", 50))
	if len([]rune(s.Query())) != SearchQueryMaxLen {
		t.Fatalf("query len = %d", len([]rune(s.Query())))
	}
}

func TestSearchEmptyQueryClearsResults(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("rune")
	s.Perform("")
	if s.Results() != nil {
		t.Fatal("empty query should clear results")
	}
}

func TestSearchChineseName(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("风之力")
	if len(s.Results()) == 0 {
		t.Fatal("expected a localized match")
	}
	if s.Results()[0].ID != "u003" {
		t.Fatalf("wrong match: %+v", s.Results()[0])
	}
}

func TestSearchLocalizedNameCaseInsensitive(t *testing.T) {
	s := NewSearch()
	s.Open()
	// "Ber符文" mixes Latin and Chinese; case must not matter on either field.
	s.Perform("BER符文")
	if len(s.Results()) != 1 || s.Results()[0].ID != "r30" {
		t.Fatalf("expected Ber Rune via its localized name, got %+v", s.Results())
	}
}

func TestOpenResetsState(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("shako")
	s.Navigate(1)
	s.Close()

	s.Open()
	if s.Query() != "" || s.Results() != nil || s.Index() != 0 {
		t.Fatal("open should reset query, results and cursor")
	}
	if !s.IsOpen() {
		t.Fatal("panel should be open")
	}
}

func TestQualitySurvivesReopen(t *testing.T) {
	s := NewSearch()
	s.SetQuality("3")
	s.Open()
	s.Close()
	s.Open()
	if s.Quality() != "3" {
		t.Fatalf("quality reset to %q", s.Quality())
	}
}

func TestSetQualityUnknownDefaultsNormal(t *testing.T) {
	s := NewSearch()
	s.SetQuality("9")
	if s.Quality() != "1" {
		t.Fatalf("got %q", s.Quality())
	}
}

// ============================================================
// Navigation
// ============================================================

func TestNavigateWraparound(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("a")
	n := len(s.Results())
	if n < 2 {
		t.Skip("need at least 2 results")
	}

	s.Navigate(-1)
	if s.Index() != n-1 {
		t.Fatalf("up from 0 should wrap to %d, got %d", n-1, s.Index())
	}
	s.Navigate(1)
	if s.Index() != 0 {
		t.Fatalf("down from last should wrap to 0, got %d", s.Index())
	}
}

func TestNavigateNoResults(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Navigate(1)
	if s.Index() != 0 {
		t.Fatal("navigation with no results should do nothing")
	}
}

// ============================================================
// Custom items and confirmation
// ============================================================

func TestCreateCustomItemEncoding(t *testing.T) {
	s := NewSearch()
	s.Open()

	var created string
	s.CreateCustomItem("My Charm", "2", func(string) { t.Fatal("unexpected notify") }, func(id string) {
		created = id
	})

	if created != "custom:My Charm:2" {
		t.Fatalf("got %q", created)
	}
	if s.IsOpen() {
		t.Fatal("panel should close after creation")
	}
}

func TestCreateCustomItemEmptyName(t *testing.T) {
	s := NewSearch()
	s.Open()

	notified := false
	s.CreateCustomItem("  <i></i>  ", "1", func(string) { notified = true }, func(string) {
		t.Fatal("empty name must not create an item")
	})

	if !notified {
		t.Fatal("expected a notification")
	}
	if !s.IsOpen() {
		t.Fatal("panel should stay open on invalid input")
	}
}

func TestCreateCustomItemDefaultQuality(t *testing.T) {
	s := NewSearch()
	s.SetQuality("3")
	s.Open()

	var created string
	s.CreateCustomItem("Ring", "", nil, func(id string) { created = id })
	if created != "custom:Ring:3" {
		t.Fatalf("empty quality should fall back to panel quality: %q", created)
	}
}

func TestConfirmDropExplicitItem(t *testing.T) {
	s := NewSearch()
	s.Open()

	item := &catalog.Item{ID: "u001"}
	var confirmed string
	s.ConfirmDrop(item, func(id string) { confirmed = id })

	if confirmed != "u001" {
		t.Fatalf("got %q", confirmed)
	}
	if s.IsOpen() {
		t.Fatal("panel should close")
	}
}

func TestConfirmDropHighlighted(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.Perform("shako")
	if len(s.Results()) == 0 {
		t.Fatal("need a result")
	}
	want := s.Results()[0].ID

	var confirmed string
	s.ConfirmDrop(nil, func(id string) { confirmed = id })
	if confirmed != want {
		t.Fatalf("got %q, want %q", confirmed, want)
	}
}

func TestConfirmDropNothingSelected(t *testing.T) {
	s := NewSearch()
	s.Open()
	s.ConfirmDrop(nil, func(string) { t.Fatal("nothing to confirm") })
	if s.IsOpen() {
		t.Fatal("panel should close silently")
	}
}

// ============================================================
// Scenario
// ============================================================

func TestScenarioSelectKnownScene(t *testing.T) {
	sc := NewScenario()
	scene := sc.SelectByName("The Pit")
	if scene == nil || sc.Current() == nil {
		t.Fatal("known scene should select")
	}
	if sc.SpecialActive() {
		t.Fatal("ordinary scene must not force the special flag")
	}
}

func TestScenarioSelectUnknown(t *testing.T) {
	sc := NewScenario()
	if sc.SelectByName("Atlantis") != nil {
		t.Fatal("unknown scene should return nil")
	}
}

func TestScenarioSpecialSceneForcesFlag(t *testing.T) {
	sc := NewScenario()
	sc.SelectByName(catalog.SpecialScene)
	if !sc.SpecialActive() {
		t.Fatal("special scene must force the flag on")
	}
}

func TestScenarioToggleAndReset(t *testing.T) {
	sc := NewScenario()
	sc.SelectByName("The Pit")
	sc.ToggleSpecial()
	if !sc.SpecialActive() {
		t.Fatal("toggle on failed")
	}
	sc.Reset()
	if sc.SpecialActive() {
		t.Fatal("reset should clear the flag")
	}
	if sc.Current() == nil {
		t.Fatal("reset must not clear the selected scene")
	}
}
