package genre

// Kind selects the admissibility rules and query-builder behaviour of a
// category.
type Kind int

const (
	KindGeneral Kind = iota
	KindSingleCard
	KindGradedCard
	KindSealedPack
	KindSealedBox
	KindBulkLot
	KindDevice
	KindMobileDevice
	KindJunkDevice
	KindTopPrize

	kindUnknown Kind = -1
)

// IsCard reports whether the kind belongs to the trading-card family.
func (k Kind) IsCard() bool {
	switch k {
	case KindSingleCard, KindGradedCard, KindSealedPack, KindSealedBox, KindBulkLot:
		return true
	}
	return false
}

// IsDevice reports whether junk/broken markers disqualify a listing.
func (k Kind) IsDevice() bool {
	return k == KindDevice || k == KindMobileDevice
}

const (
	// DefaultID is returned by the classifier when nothing scores.
	DefaultID         = "general"
	DefaultMinSamples = 5
)

// CategorySpec is one taxonomy entry.
type CategorySpec struct {
	ID         string
	Label      string
	Keywords   []string // lower-case, width-folded substrings
	MinSamples int
	// RegionWeights is advisory; region selection picks the higher median.
	RegionWeights map[string]float64
	Kind          Kind
	// QueryBase is appended to every marketplace query for the category.
	QueryBase []string
	// Franchise is the canonical franchise token, if any.
	Franchise string
	// AdjustmentFactor scales the composite median. 1.0 everywhere for now.
	AdjustmentFactor float64
}

var (
	usLean  = map[string]float64{"US": 0.6, "UK": 0.4}
	even    = map[string]float64{"US": 0.5, "UK": 0.5}
	ukLean  = map[string]float64{"US": 0.4, "UK": 0.6}
	catalog []CategorySpec
	byID    map[string]CategorySpec
)

func entry(id, label string, kind Kind, minSamples int, weights map[string]float64, base []string, franchise string, keywords ...string) CategorySpec {
	if minSamples == 0 {
		minSamples = DefaultMinSamples
	}
	return CategorySpec{
		ID:               id,
		Label:            label,
		Keywords:         keywords,
		MinSamples:       minSamples,
		RegionWeights:    weights,
		Kind:             kind,
		QueryBase:        base,
		Franchise:        franchise,
		AdjustmentFactor: 1.0,
	}
}

// cardFamily expands one franchise into its single, graded, box and pack
// categories in the order given. Singles are listed first so a description
// that only names the franchise resolves to the single category; graded
// entries only compete when a grading mark is present (see Classify).
func cardFamily(prefix, label, franchise string, markers []string, kinds ...Kind) []CategorySpec {
	var out []CategorySpec
	with := func(extra ...string) []string {
		kw := append([]string{}, markers...)
		return append(kw, extra...)
	}
	for _, k := range kinds {
		switch k {
		case KindGradedCard:
			out = append(out, entry(prefix+"_graded", label+" (graded)", k, 4, usLean,
				[]string{franchise, "card"}, franchise,
				with("鑑定", "graded", "gem mint")...))
		case KindSealedBox:
			out = append(out, entry(prefix+"_box", label+" (sealed box)", k, 3, even,
				[]string{franchise, "booster", "box"}, franchise,
				with("box", "ボックス", "booster box", "未開封box", "シュリンク")...))
		case KindSealedPack:
			out = append(out, entry(prefix+"_pack", label+" (sealed pack)", k, 4, even,
				[]string{franchise, "booster", "pack"}, franchise,
				with("pack", "パック", "booster pack")...))
		case KindSingleCard:
			out = append(out, entry(prefix+"_single", label, k, 5, usLean,
				[]string{franchise, "card"}, franchise,
				with("カード", "card", "トレカ", "tcg")...))
		}
	}
	return out
}

func init() {
	cards := [][]CategorySpec{
		cardFamily("pokemon", "Pokemon TCG", "pokemon",
			[]string{"ポケモンカード", "ポケカ", "pokemon", "pokémon", "ポケモン"},
			KindSingleCard, KindGradedCard, KindSealedBox, KindSealedPack),
		cardFamily("onepiece", "One Piece Card Game", "one piece",
			[]string{"ワンピースカード", "ワンピカード", "one piece card", "onepiece"},
			KindSingleCard, KindGradedCard, KindSealedBox, KindSealedPack),
		cardFamily("yugioh", "Yu-Gi-Oh!", "yugioh",
			[]string{"遊戯王", "yugioh", "yu-gi-oh", "ocg"},
			KindSingleCard, KindGradedCard, KindSealedBox, KindSealedPack),
		cardFamily("mtg", "Magic: The Gathering", "mtg",
			[]string{"mtg", "マジックザギャザリング", "magic the gathering", "ギャザ"},
			KindSingleCard, KindGradedCard, KindSealedBox, KindSealedPack),
		cardFamily("dragonball", "Dragon Ball Super Card Game", "dragon ball",
			[]string{"ドラゴンボールカード", "フュージョンワールド", "dragon ball super card", "fusion world"},
			KindSingleCard, KindSealedBox, KindSealedPack),
		cardFamily("duelmasters", "Duel Masters", "duel masters",
			[]string{"デュエマ", "デュエルマスターズ", "duel masters"},
			KindSingleCard, KindSealedBox, KindSealedPack),
		cardFamily("weiss", "Weiss Schwarz", "weiss schwarz",
			[]string{"ヴァイスシュヴァルツ", "ヴァイス", "weiss schwarz"},
			KindSingleCard, KindSealedBox),
		cardFamily("unionarena", "Union Arena", "union arena",
			[]string{"ユニオンアリーナ", "ユニアリ", "union arena"},
			KindSingleCard, KindSealedBox),
		cardFamily("lorcana", "Disney Lorcana", "lorcana",
			[]string{"ロルカナ", "lorcana"},
			KindSingleCard),
		cardFamily("sports", "Sports trading card", "sports card",
			[]string{"bbm", "topps", "panini", "野球カード", "サッカーカード", "epoch"},
			KindSingleCard, KindGradedCard),
	}
	for _, family := range cards {
		catalog = append(catalog, family...)
	}

	catalog = append(catalog,
		entry("tcg_bulk_lot", "Trading card bulk lot", KindBulkLot, 3, even,
			[]string{"card", "lot"}, "", "まとめ売り", "大量", "引退品", "bulk", "card lot"),
		entry("tcg_supplies", "Card supplies", KindGeneral, 5, usLean,
			[]string{"card", "sleeves"}, "", "スリーブ", "プレイマット", "デッキケース", "sleeve", "playmat", "deck box"),

		entry("kuji_top", "Ichiban Kuji top prize", KindTopPrize, 3, usLean,
			[]string{"ichiban", "kuji"}, "", "一番くじ", "ichiban kuji", "a賞", "ラストワン", "last one"),
		entry("kuji_other", "Ichiban Kuji prize", KindGeneral, 5, usLean,
			[]string{"ichiban", "kuji"}, "", "一番くじ", "ichiban kuji", "b賞", "c賞", "d賞", "e賞"),
		entry("figure_scale", "Scale figure", KindGeneral, 5, usLean,
			[]string{"figure"}, "", "スケールフィギュア", "1/7", "1/8", "1/6", "scale figure", "フィギュア"),
		entry("figure_prize", "Prize figure", KindGeneral, 6, usLean,
			[]string{"prize", "figure"}, "", "プライズ", "banpresto", "バンプレスト", "taito", "sega"),
		entry("nendoroid", "Nendoroid", KindGeneral, 5, usLean,
			[]string{"nendoroid"}, "", "ねんどろいど", "nendoroid"),
		entry("figma", "figma", KindGeneral, 5, usLean,
			[]string{"figma"}, "", "figma", "フィグマ"),
		entry("gunpla", "Gunpla", KindGeneral, 5, usLean,
			[]string{"gundam", "model kit"}, "", "ガンプラ", "gunpla", "hg ", "mg ", "rg ", "pg ", "ガンダム"),
		entry("figuarts", "S.H.Figuarts", KindGeneral, 5, usLean,
			[]string{"figuarts"}, "", "フィギュアーツ", "figuarts", "魂ウェブ"),
		entry("plush", "Plush", KindGeneral, 5, usLean,
			[]string{"plush"}, "", "ぬいぐるみ", "plush", "マスコット"),
		entry("acrylic_stand", "Acrylic stand", KindGeneral, 5, usLean,
			[]string{"acrylic", "stand"}, "", "アクスタ", "アクリルスタンド", "acrylic stand"),
		entry("can_badge", "Can badge", KindGeneral, 5, usLean,
			[]string{"badge"}, "", "缶バッジ", "缶バッチ", "can badge"),

		entry("smartphone", "Smartphone", KindMobileDevice, 8, usLean,
			[]string{"smartphone"}, "", "iphone", "スマホ", "スマートフォン", "galaxy", "pixel", "xperia"),
		entry("tablet", "Tablet", KindMobileDevice, 6, usLean,
			[]string{"tablet"}, "", "ipad", "タブレット", "galaxy tab", "kindle"),
		entry("console", "Home console", KindDevice, 6, usLean,
			[]string{"console"}, "", "ps5", "ps4", "playstation", "プレステ", "xbox", "本体"),
		entry("handheld", "Handheld console", KindDevice, 6, usLean,
			[]string{"console"}, "", "switch", "スイッチ", "3ds", "psp", "ps vita", "ゲームボーイ", "game boy"),
		entry("camera", "Camera", KindDevice, 6, usLean,
			[]string{"camera"}, "", "カメラ", "camera", "ミラーレス", "一眼", "eos", "lumix", "α7"),
		entry("camera_lens", "Camera lens", KindDevice, 6, usLean,
			[]string{"lens"}, "", "レンズ", "lens", "mm f", "単焦点", "ズームレンズ"),
		entry("laptop", "Laptop", KindDevice, 6, usLean,
			[]string{"laptop"}, "", "macbook", "ノートパソコン", "ノートpc", "laptop", "thinkpad"),
		entry("gpu", "Graphics card", KindDevice, 6, usLean,
			[]string{"graphics", "card"}, "", "rtx", "gtx", "radeon", "グラボ", "グラフィックボード"),
		entry("headphones", "Headphones", KindDevice, 6, usLean,
			[]string{"headphones"}, "", "ヘッドホン", "イヤホン", "airpods", "headphone", "earbuds"),
		entry("smartwatch", "Smartwatch", KindDevice, 6, usLean,
			[]string{"smartwatch"}, "", "apple watch", "スマートウォッチ", "garmin", "fitbit"),
		entry("audio", "Audio equipment", KindDevice, 5, ukLean,
			[]string{"audio"}, "", "アンプ", "スピーカー", "amplifier", "speaker", "ターンテーブル"),
		entry("junk_device", "Junk electronics", KindJunkDevice, 4, even,
			[]string{"for parts"}, "", "ジャンク", "junk", "故障", "部品取り", "for parts"),

		entry("sneakers", "Sneakers", KindGeneral, 6, usLean,
			[]string{"sneakers"}, "", "スニーカー", "sneaker", "jordan", "dunk", "yeezy", "new balance"),
		entry("luxury_bag", "Luxury bag", KindGeneral, 5, ukLean,
			[]string{"bag"}, "", "バッグ", "bag", "louis vuitton", "ルイヴィトン", "hermes", "エルメス", "chanel", "シャネル"),
		entry("wallet", "Wallet", KindGeneral, 5, ukLean,
			[]string{"wallet"}, "", "財布", "wallet", "長財布", "コインケース"),
		entry("watch", "Wristwatch", KindGeneral, 5, ukLean,
			[]string{"watch"}, "", "腕時計", "rolex", "ロレックス", "omega", "seiko", "セイコー", "casio", "g-shock"),
		entry("jewelry", "Jewelry", KindGeneral, 5, ukLean,
			[]string{"jewelry"}, "", "ネックレス", "指輪", "リング", "necklace", "k18", "pt900"),
		entry("apparel", "Apparel", KindGeneral, 6, usLean,
			[]string{"shirt"}, "", "tシャツ", "パーカー", "ジャケット", "hoodie", "jacket", "supreme"),
		entry("denim", "Vintage denim", KindGeneral, 5, usLean,
			[]string{"jeans"}, "", "デニム", "ジーンズ", "levi's", "リーバイス", "501"),

		entry("books", "Books", KindGeneral, 5, even,
			[]string{"book"}, "", "文庫", "書籍", "画集", "artbook", "photobook", "写真集"),
		entry("manga", "Manga", KindGeneral, 5, even,
			[]string{"manga"}, "", "漫画", "マンガ", "コミック", "manga", "全巻"),
		entry("cd", "Music CD", KindGeneral, 5, even,
			[]string{"cd"}, "", "cd", "アルバム", "シングル", "album"),
		entry("vinyl", "Vinyl record", KindGeneral, 5, ukLean,
			[]string{"vinyl"}, "", "レコード", "vinyl", " lp", "アナログ盤"),
		entry("video_disc", "Blu-ray / DVD", KindGeneral, 5, even,
			[]string{"blu-ray"}, "", "blu-ray", "ブルーレイ", "dvd", "bd-box"),
		entry("video_game", "Video game software", KindGeneral, 5, usLean,
			[]string{"video", "game"}, "", "ソフト", "game software", "ゲームソフト", "ps5ソフト", "switchソフト"),
		entry("retro_game", "Retro game", KindGeneral, 5, usLean,
			[]string{"retro", "game"}, "", "ファミコン", "スーファミ", "famicom", "super famicom", "n64", "レトロゲーム"),

		entry("kpop_photocard", "K-pop photocard", KindGeneral, 6, even,
			[]string{"photocard"}, "", "トレカ", "photocard", "フォトカード", "ランダムトレカ"),
		entry("idol_goods", "Idol goods", KindGeneral, 5, even,
			[]string{"official", "goods"}, "", "うちわ", "ペンライト", "lightstick", "生写真", "ライブグッズ"),

		entry("lego", "LEGO", KindGeneral, 5, usLean,
			[]string{"lego"}, "", "lego", "レゴ"),
		entry("minicar", "Diecast / Tomica", KindGeneral, 5, even,
			[]string{"diecast"}, "", "トミカ", "tomica", "ミニカー", "hot wheels", "ホットウィール"),
		entry("model_railway", "Model railway", KindGeneral, 5, even,
			[]string{"model", "train"}, "", "鉄道模型", "nゲージ", "kato", "tomix"),
		entry("rc", "Radio control", KindGeneral, 5, even,
			[]string{"rc"}, "", "ラジコン", "タミヤ", "tamiya", "drone", "ドローン"),

		entry("guitar", "Guitar", KindGeneral, 5, usLean,
			[]string{"guitar"}, "", "ギター", "guitar", "fender", "gibson", "ベース"),
		entry("instrument", "Musical instrument", KindGeneral, 5, even,
			[]string{"instrument"}, "", "シンセ", "synthesizer", "キーボード", "エフェクター", "effects pedal"),
		entry("golf", "Golf club", KindGeneral, 5, usLean,
			[]string{"golf"}, "", "ゴルフ", "golf", "ドライバー", "アイアン", "パター"),
		entry("fishing", "Fishing reel", KindGeneral, 5, usLean,
			[]string{"fishing", "reel"}, "", "リール", "shimano", "シマノ", "daiwa", "ダイワ", "釣り"),
		entry("outdoor", "Outdoor gear", KindGeneral, 5, even,
			[]string{"outdoor"}, "", "テント", "キャンプ", "snow peak", "スノーピーク", "tent"),
		entry("bicycle_parts", "Bicycle parts", KindGeneral, 5, even,
			[]string{"bicycle"}, "", "自転車", "ロードバイク", "ホイール", "shimano dura-ace", "campagnolo"),
		entry("kitchen", "Kitchen appliance", KindDevice, 5, even,
			[]string{"kitchen"}, "", "炊飯器", "ミキサー", "コーヒーメーカー", "balmuda", "バルミューダ"),
		entry("cosmetics", "Cosmetics", KindGeneral, 5, even,
			[]string{"cosmetics"}, "", "コスメ", "香水", "perfume", "リップ", "ファンデーション"),
		entry("tea_ware", "Tea ware / pottery", KindGeneral, 5, ukLean,
			[]string{"japanese", "pottery"}, "", "茶碗", "急須", "陶器", "pottery", "有田焼", "九谷焼"),
		entry("kimono", "Kimono", KindGeneral, 5, ukLean,
			[]string{"kimono"}, "", "着物", "kimono", "帯", "浴衣"),
		entry("anime_cel", "Anime cel / artwork", KindGeneral, 4, usLean,
			[]string{"anime", "cel"}, "", "セル画", "原画", "anime cel", "複製原画"),
		entry("stamps_coins", "Stamps / coins", KindGeneral, 5, ukLean,
			[]string{"coin"}, "", "記念硬貨", "古銭", "切手", "coin", "stamp"),

		entry(DefaultID, "General goods", KindGeneral, DefaultMinSamples, even, nil, ""),
	)

	byID = make(map[string]CategorySpec, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}
}

// Catalog returns the taxonomy in catalog order.
func Catalog() []CategorySpec {
	out := make([]CategorySpec, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the category with the given id.
func Lookup(id string) (CategorySpec, bool) {
	c, ok := byID[id]
	return c, ok
}

// SpecFor returns the category for id, or default settings (minimum 5,
// accept-all admissibility) when the id is not in the catalog.
func SpecFor(id string) CategorySpec {
	if c, ok := Lookup(id); ok {
		return c
	}
	return CategorySpec{
		ID:               id,
		Label:            "unknown",
		MinSamples:       DefaultMinSamples,
		Kind:             kindUnknown,
		AdjustmentFactor: 1.0,
	}
}
