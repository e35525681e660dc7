package genre

import "testing"

func TestAdmissible(t *testing.T) {
	tests := []struct {
		name     string
		category string
		text     string
		expected bool
	}{
		{"no category accepts all", "", "Pokemon card lot x100 junk", true},
		{"lot rejected", "pokemon_single", "Pokemon card lot charizard", false},
		{"bulk lot category accepts lots", "tcg_bulk_lot", "Pokemon card bulk lot 500 cards", true},
		{"device rejects junk", "smartphone", "iPhone 13 broken screen for parts", false},
		{"device accepts clean", "smartphone", "iPhone 13 128GB unlocked", true},
		{"junk category accepts junk", "junk_device", "iPhone 13 junk for parts", true},
		{"single rejects box", "pokemon_single", "Pokemon 151 Booster Box Japanese", false},
		{"single rejects graded", "pokemon_single", "Charizard ex 201/165 PSA 10", false},
		{"single accepts raw", "pokemon_single", "Charizard ex 201/165 SAR Japanese NM", true},
		{"graded requires mark", "pokemon_graded", "Charizard ex 201/165 SAR Japanese NM", false},
		{"graded accepts psa", "pokemon_graded", "Charizard ex 201/165 PSA10 Gem Mint", true},
		{"graded still rejects lot", "pokemon_graded", "PSA 10 lot of 5 slabs", false},
		{"pack rejects box", "pokemon_pack", "Pokemon 151 booster box sealed", false},
		{"pack rejects opened", "pokemon_pack", "Pokemon 151 booster pack opened empty", false},
		{"pack accepts sealed pack", "pokemon_pack", "Pokemon 151 booster pack sealed Japanese", true},
		{"box rejects case", "pokemon_box", "Pokemon 151 booster box case 12 boxes", false},
		{"box rejects set", "pokemon_box", "Pokemon 151 box set", false},
		{"box requires box phrase", "pokemon_box", "Pokemon 151 booster pack x20 sealed", false},
		{"box accepts booster box", "pokemon_box", "Pokemon 151 Booster Box Japanese Sealed", true},
		{"box accepts katakana", "pokemon_box", "ポケモンカード 151 ボックス シュリンク付き", true},
		{"top prize requires marker", "kuji_top", "一番くじ ワンピース B賞 フィギュア", false},
		{"top prize accepts last one", "kuji_top", "Ichiban Kuji One Piece Last One Prize Luffy", true},
		{"general accepts", "sneakers", "Nike Dunk Low Panda 27cm", true},
		{"general rejects lot", "sneakers", "Sneaker bundle x3", false},
		{"unknown id accepts", "not_a_category", "anything goes lot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Admissible(tt.category, tt.text); got != tt.expected {
				t.Errorf("Admissible(%s, %q) = %v, want %v", tt.category, tt.text, got, tt.expected)
			}
		})
	}
}

func TestIsBulkListing(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"ポケモンカード まとめ売り 100枚", true},
		{"Pokemon card lot", true},
		{"assorted figures", true},
		{"ワンピース フィギュア 3体セット", true},
		{"Pokemon starter set", true},
		{"Nintendo Switch 本体 有機EL", false},
		{"sunset photo book", false},
		{"ファミコン カセット スーパーマリオ", false},
		{"セット内容 説明書 箱", true},
		{"スーファミ カセット 3本セット", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsBulkListing(tt.text); got != tt.expected {
				t.Errorf("IsBulkListing(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestHasGradingMark(t *testing.T) {
	if !HasGradingMark("リザードン ＰＳＡ１０") {
		t.Error("full-width PSA10 should be detected")
	}
	if HasGradingMark("Charizard stars holo") {
		t.Error("'stars' must not match the ARS lab code")
	}
}

func TestAdmit_CartridgeIsNotASet(t *testing.T) {
	box := SpecFor("pokemon_box")
	if !box.Admit("ポケモンカード 151 box カセットケース付き") {
		t.Error("カセット must not trip the set rejection for boxes")
	}
	if box.Admit("ポケモンカード 151 box 2個セット") {
		t.Error("a box set should still be rejected")
	}

	single := SpecFor("pokemon_single")
	if !single.Admit("ポケモン リザードン カード カセット柄スリーブ") {
		t.Error("カセット must not read as sealed vocabulary for singles")
	}
}
