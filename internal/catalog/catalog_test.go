package catalog

import "testing"

func TestSceneByName(t *testing.T) {
	if SceneByName("The Pit") == nil {
		t.Fatal("known scene not found")
	}
	if SceneByName("Nowhere") != nil {
		t.Fatal("unknown scene should be nil")
	}
}

func TestSceneNameLocalized(t *testing.T) {
	if got := SceneName("The Pit", LangEN); got != "The Pit" {
		t.Fatalf("got %q", got)
	}
	if got := SceneName("The Pit", LangZH); got != "泰摩高地-地穴" {
		t.Fatalf("got %q", got)
	}
	// Unknown scenes fall back to the raw id.
	if got := SceneName("ghost-scene", LangEN); got != "ghost-scene" {
		t.Fatalf("got %q", got)
	}
}

func TestLookupItemCanonical(t *testing.T) {
	item := LookupItem("u001")
	if item == nil || item.Name != "Shako" {
		t.Fatalf("got %+v", item)
	}
}

func TestLookupItemUnknown(t *testing.T) {
	if LookupItem("nope") != nil {
		t.Fatal("unknown id should be nil")
	}
}

func TestLookupItemCustom(t *testing.T) {
	item := LookupItem("custom:My Charm:2")
	if item == nil {
		t.Fatal("custom id should synthesize an item")
	}
	if item.Name != "My Charm" {
		t.Fatalf("name = %q", item.Name)
	}
	if item.Color != QualityByCode("2").Color {
		t.Fatalf("color should come from the quality tier: %q", item.Color)
	}
}

func TestLookupItemCustomNameWithColons(t *testing.T) {
	item := LookupItem("custom:a:b:c:3")
	if item == nil {
		t.Fatal("expected an item")
	}
	// The quality code is the final segment.
	if item.Name != "a:b:c" {
		t.Fatalf("name = %q", item.Name)
	}
}

func TestQualityByCodeDefault(t *testing.T) {
	if QualityByCode("42").Code != "1" {
		t.Fatal("unknown quality should default to normal")
	}
	if QualityByCode("3").Label != "Rare" {
		t.Fatalf("got %+v", QualityByCode("3"))
	}
}

func TestItemNameFallback(t *testing.T) {
	if got := ItemName("mystery-id", LangEN); got != "mystery-id" {
		t.Fatalf("got %q", got)
	}
	if got := ItemName("u003", LangZH); got != "风之力" {
		t.Fatalf("got %q", got)
	}
}
