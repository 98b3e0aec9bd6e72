package run

import (
	"sync"

	"github.com/sadopc/farmrun/internal/catalog"
)

// Scenario holds the selected scene and the transient special-run flag.
// Scene and flag lifetimes are independent: resetting clears the flag but
// keeps the scene. Safe for concurrent use; lifecycle actions run on
// command goroutines while the view reads.
type Scenario struct {
	mu      sync.Mutex
	current *catalog.Scene
	special bool
}

func NewScenario() *Scenario {
	return &Scenario{}
}

func (sc *Scenario) Current() *catalog.Scene {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.current
}

func (sc *Scenario) SpecialActive() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.special
}

// SelectByName selects a scene by its stable name key. Selecting the special
// scene forces the special flag on.
func (sc *Scenario) SelectByName(name string) *catalog.Scene {
	scene := catalog.SceneByName(name)
	if scene == nil {
		return nil
	}
	sc.mu.Lock()
	sc.current = scene
	if scene.Name == catalog.SpecialScene {
		sc.special = true
	}
	sc.mu.Unlock()
	return scene
}

// ToggleSpecial flips the special flag; a free user action.
func (sc *Scenario) ToggleSpecial() {
	sc.mu.Lock()
	sc.special = !sc.special
	sc.mu.Unlock()
}

// Reset clears the special flag while keeping the selected scene.
func (sc *Scenario) Reset() {
	sc.mu.Lock()
	sc.special = false
	sc.mu.Unlock()
}
