package catalog

// Scene is one farmable location.
type Scene struct {
	Name    string // stable identifier, also the stored scene_id
	Label   string // short display label
	NameZH  string
	LabelZH string
}

// SpecialScene always runs with the special flag forced on.
const SpecialScene = "Terror Zone"

var Scenes = []Scene{
	{Name: "The Pit", Label: "Pit", NameZH: "泰摩高地-地穴", LabelZH: "地穴"},
	{Name: "Forgotten Tower", Label: "Countess", NameZH: "遗忘高塔", LabelZH: "女伯爵"},
	{Name: "Catacombs", Label: "Andariel", NameZH: "地下墓穴", LabelZH: "安姐"},
	{Name: "Cow Level", Label: "Cows", NameZH: "哞哞农场", LabelZH: "牛场"},
	{Name: "Ancient Tunnels", Label: "Tunnels", NameZH: "古代通道", LabelZH: "古代水道"},
	{Name: "Tal Rasha's Tombs", Label: "Tombs", NameZH: "塔拉夏古墓", LabelZH: "塔拉夏"},
	{Name: "Travincal", Label: "Trav", NameZH: "崔凡克", LabelZH: "3C"},
	{Name: "Durance of Hate", Label: "Mephisto", NameZH: "憎恨囚牢", LabelZH: "劳模"},
	{Name: "Chaos Sanctuary", Label: "Chaos", NameZH: "混沌避难所", LabelZH: "超市"},
	{Name: "Halls of Vaught", Label: "Nihlathak", NameZH: "尼拉塞克", LabelZH: "KP"},
	{Name: "Worldstone Keep", Label: "Baal", NameZH: "世界之石", LabelZH: "KB"},
	{Name: SpecialScene, Label: "TZ", NameZH: "恐怖地带", LabelZH: "TZ"},
}

// SceneByName looks a scene up by its stable name key.
func SceneByName(name string) *Scene {
	for i := range Scenes {
		if Scenes[i].Name == name {
			return &Scenes[i]
		}
	}
	return nil
}

// SceneName returns the localized scene name, falling back to the raw key
// for scenes no longer in the table.
func SceneName(name, lang string) string {
	s := SceneByName(name)
	if s == nil {
		return name
	}
	if lang == LangZH {
		return s.NameZH
	}
	return s.Name
}

// SceneLabel returns the localized short label.
func SceneLabel(name, lang string) string {
	s := SceneByName(name)
	if s == nil {
		return name
	}
	if lang == LangZH {
		return s.LabelZH
	}
	return s.Label
}
