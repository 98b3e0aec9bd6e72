package catalog

import "strings"

// Supported display languages.
const (
	LangEN = "EN"
	LangZH = "CN"
)

// Item is one entry of the drop catalog. Custom drops recorded through the
// search panel are synthesized on the fly and never added to this table.
type Item struct {
	ID     string
	Name   string
	NameZH string
	Rarity string
	Color  string
}

// CustomItemPrefix marks freeform drops encoded as custom:<name>:<quality>.
const CustomItemPrefix = "custom:"

// Quality describes one custom-item quality tier.
type Quality struct {
	Code  string
	Label string
	LabelZH string
	Color string
}

var Qualities = []Quality{
	{Code: "1", Label: "Normal", LabelZH: "底材", Color: "#e4e4e7"},
	{Code: "2", Label: "Magic", LabelZH: "魔法", Color: "#3b82f6"},
	{Code: "3", Label: "Rare", LabelZH: "亮金", Color: "#facc15"},
}

// QualityByCode returns the tier for a code, defaulting to Normal.
func QualityByCode(code string) Quality {
	for _, q := range Qualities {
		if q.Code == code {
			return q
		}
	}
	return Qualities[0]
}

const (
	rarityRune   = "rune"
	rarityUnique = "unique"
	raritySet    = "set"

	colorRune   = "#fb923c"
	colorUnique = "#c7b377"
	colorSet    = "#22c55e"
)

var Items = []Item{
	{ID: "r30", Name: "Ber Rune", NameZH: "Ber符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r31", Name: "Jah Rune", NameZH: "Jah符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r32", Name: "Cham Rune", NameZH: "Cham符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r33", Name: "Zod Rune", NameZH: "Zod符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r28", Name: "Sur Rune", NameZH: "Sur符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r29", Name: "Lo Rune", NameZH: "Lo符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r27", Name: "Ohm Rune", NameZH: "Ohm符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r26", Name: "Vex Rune", NameZH: "Vex符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r25", Name: "Gul Rune", NameZH: "Gul符文", Rarity: rarityRune, Color: colorRune},
	{ID: "r24", Name: "Ist Rune", NameZH: "Ist符文", Rarity: rarityRune, Color: colorRune},
	{ID: "u001", Name: "Shako", NameZH: "谋杀皇冠", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u002", Name: "Stormshield", NameZH: "暴风之盾", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u003", Name: "Windforce", NameZH: "风之力", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u004", Name: "Grandfather", NameZH: "祖父之剑", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u005", Name: "Death's Fathom", NameZH: "死亡深度", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u006", Name: "Griffon's Eye", NameZH: "狮鹫之眼", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u007", Name: "War Traveler", NameZH: "战争旅者", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u008", Name: "Arachnid Mesh", NameZH: "蜘蛛网丝带", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u009", Name: "Herald of Zakarum", NameZH: "查卡姆之先驱", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u010", Name: "Oculus", NameZH: "欧库之眼", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u011", Name: "Titan's Revenge", NameZH: "泰坦的复仇", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u012", Name: "Crown of Ages", NameZH: "岁月之冠", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u013", Name: "Mara's Kaleidoscope", NameZH: "马拉的万花筒", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u014", Name: "Annihilus", NameZH: "毁灭小符", Rarity: rarityUnique, Color: colorUnique},
	{ID: "u015", Name: "Hellfire Torch", NameZH: "地狱火炬", Rarity: rarityUnique, Color: colorUnique},
	{ID: "s001", Name: "Tal Rasha's Guardianship", NameZH: "塔拉夏的守护", Rarity: raritySet, Color: colorSet},
	{ID: "s002", Name: "Immortal King's Soul Cage", NameZH: "不朽之王的灵魂牢笼", Rarity: raritySet, Color: colorSet},
	{ID: "s003", Name: "Griswold's Redemption", NameZH: "格里斯华尔德的救赎", Rarity: raritySet, Color: colorSet},
}

// LookupItem resolves an item id. Ids carrying the custom prefix are
// synthesized from their encoding; unknown canonical ids return nil.
func LookupItem(id string) *Item {
	if rest, ok := strings.CutPrefix(id, CustomItemPrefix); ok {
		// The quality code is the final segment; the name may contain colons.
		name, code := rest, ""
		if i := strings.LastIndex(rest, ":"); i >= 0 {
			name, code = rest[:i], rest[i+1:]
		}
		q := QualityByCode(code)
		return &Item{ID: id, Name: name, NameZH: name, Rarity: q.Code, Color: q.Color}
	}
	for i := range Items {
		if Items[i].ID == id {
			return &Items[i]
		}
	}
	return nil
}

// ItemName returns the localized display name, or the raw id when unknown.
func ItemName(id, lang string) string {
	item := LookupItem(id)
	if item == nil {
		return id
	}
	if lang == LangZH {
		return item.NameZH
	}
	return item.Name
}
