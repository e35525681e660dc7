package genre

import "testing"

func TestClassify_SealedPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"box only", "ポケモンカード シャイニートレジャーex BOX 未開封", "pokemon_box"},
		{"full width box", "ポケモンカード 151 ＢＯＸ シュリンク付き", "pokemon_box"},
		{"pack only", "ポケモンカード 151 パック 5枚", "pokemon_pack"},
		{"box wins tie", "ポケカ 黒炎の支配者 1BOX 30パック入り", "pokemon_box"},
		{"one piece box", "ワンピースカード 新時代の主役 BOX", "onepiece_box"},
		{"yugioh pack", "遊戯王 QUARTER CENTURY CHRONICLE パック", "yugioh_pack"},
		{"no parent falls through", "ゲーム機 本体 箱付き PS5", "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassify_BoxBeatsGenericScore(t *testing.T) {
	// Plenty of single-card vocabulary, but the box signal decides.
	text := "ポケモンカード トレカ カード card tcg pokemon box"
	if got := Classify(text); got != "pokemon_box" {
		t.Errorf("expected pokemon_box, got %s", got)
	}
}

func TestClassify_GenericScoring(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"ポケモンカード リザードンex SAR 201/165", "pokemon_single"},
		{"ポケモンカード リザードン PSA10", "pokemon_graded"},
		{"iPhone 15 Pro 256GB SIMフリー", "smartphone"},
		{"一番くじ ワンピース ラストワン賞 ルフィ", "kuji_top"},
		{"ねんどろいど 初音ミク", "nendoroid"},
		{"ROLEX サブマリーナ 腕時計", "watch"},
		{"ファミコン カセット スーパーマリオ", "retro_game"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassify_GradedNeedsGradingMark(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"ポケカ リザードン SAR", "pokemon_single"},
		{"遊戯王 ブルーアイズ", "yugioh_single"},
		{"Pokemon Charizard holo", "pokemon_single"},
		{"MTG Black Lotus", "mtg_single"},
		{"Pokemon Star Wars crossover promo", "pokemon_single"},
		{"Pokemon Charizard BGS 9.5", "pokemon_graded"},
		{"遊戯王 ブルーアイズ 鑑定品", "yugioh_graded"},
		{"MTG Black Lotus cgc 8", "mtg_graded"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassify_TotalAndDeterministic(t *testing.T) {
	inputs := []string{"", "   ", "zzzz qqqq", "🙂", "ポケモンカード", "\x00\xff"}
	for _, in := range inputs {
		first := Classify(in)
		if first == "" {
			t.Fatalf("Classify(%q) returned empty id", in)
		}
		if _, ok := Lookup(first); !ok {
			t.Errorf("Classify(%q) returned id %s missing from catalog", in, first)
		}
		for i := 0; i < 3; i++ {
			if again := Classify(in); again != first {
				t.Errorf("Classify(%q) not deterministic: %s then %s", in, first, again)
			}
		}
	}

	if got := Classify(""); got != DefaultID {
		t.Errorf("empty text should map to %s, got %s", DefaultID, got)
	}
}

func TestCatalog_Integrity(t *testing.T) {
	cats := Catalog()
	if len(cats) < 70 {
		t.Errorf("expected a catalog of roughly 80 categories, got %d", len(cats))
	}

	seen := make(map[string]bool)
	for _, c := range cats {
		if seen[c.ID] {
			t.Errorf("duplicate category id %s", c.ID)
		}
		seen[c.ID] = true

		if c.MinSamples < 3 || c.MinSamples > 8 {
			t.Errorf("%s: MinSamples %d outside 3..8", c.ID, c.MinSamples)
		}
		if c.AdjustmentFactor != 1.0 {
			t.Errorf("%s: AdjustmentFactor = %v, want 1.0", c.ID, c.AdjustmentFactor)
		}
		for _, kw := range c.Keywords {
			if kw != Normalize(kw) {
				t.Errorf("%s: keyword %q is not normalized", c.ID, kw)
			}
		}
	}

	for _, f := range sealedFamilies {
		if _, ok := Lookup(f.boxID); !ok {
			t.Errorf("sealed family box id %s missing", f.boxID)
		}
		if _, ok := Lookup(f.packID); !ok {
			t.Errorf("sealed family pack id %s missing", f.packID)
		}
	}
}

func TestSpecFor_UnknownFallsBackToDefaults(t *testing.T) {
	spec := SpecFor("does_not_exist")
	if spec.MinSamples != DefaultMinSamples {
		t.Errorf("MinSamples = %d, want %d", spec.MinSamples, DefaultMinSamples)
	}
	if !spec.Admit("まとめ売り 大量 lot junk") {
		t.Error("unknown category should not apply special admissibility")
	}
}
