package prices

// entity maps a local-language character or product name to the token
// marketplaces index it under.
type entity struct {
	local     string
	canonical string
	franchise string
}

// entities is matched longest-local-first so that e.g. ミュウツー is consumed
// before ミュウ can match inside it.
var entities = []entity{
	{"ピカチュウ", "pikachu", "pokemon"},
	{"リザードン", "charizard", "pokemon"},
	{"ミュウツー", "mewtwo", "pokemon"},
	{"ミュウ", "mew", "pokemon"},
	{"ルギア", "lugia", "pokemon"},
	{"レックウザ", "rayquaza", "pokemon"},
	{"ブラッキー", "umbreon", "pokemon"},
	{"エーフィ", "espeon", "pokemon"},
	{"ニンフィア", "sylveon", "pokemon"},
	{"イーブイ", "eevee", "pokemon"},
	{"ゲンガー", "gengar", "pokemon"},
	{"カイリュー", "dragonite", "pokemon"},
	{"ミモザ", "miriam", "pokemon"},
	{"ナンジャモ", "iono", "pokemon"},
	{"リーリエ", "lillie", "pokemon"},
	{"マリィ", "marnie", "pokemon"},
	{"カミツレ", "elesa", "pokemon"},
	{"セレナ", "serena", "pokemon"},
	{"アセロラ", "acerola", "pokemon"},
	{"ボタン", "penny", "pokemon"},
	{"ルフィ", "luffy", "one piece"},
	{"ゾロ", "zoro", "one piece"},
	{"ナミ", "nami", "one piece"},
	{"シャンクス", "shanks", "one piece"},
	{"エース", "ace", "one piece"},
	{"ヤマト", "yamato", "one piece"},
	{"ハンコック", "boa hancock", "one piece"},
	{"ウタ", "uta", "one piece"},
	{"ブルーアイズ", "blue-eyes", "yugioh"},
	{"青眼の白龍", "blue-eyes white dragon", "yugioh"},
	{"ブラック・マジシャン・ガール", "dark magician girl", "yugioh"},
	{"ブラック・マジシャン", "dark magician", "yugioh"},
	{"灰流うらら", "ash blossom", "yugioh"},
	{"悟空", "goku", "dragon ball"},
	{"ベジータ", "vegeta", "dragon ball"},
	{"初音ミク", "hatsune miku", "vocaloid"},
	{"ドラえもん", "doraemon", ""},
}

// productLines maps set names and edition codes to their English
// product-line names.
var productLines = []struct {
	local     string
	canonical string
}{
	{"シャイニートレジャーex", "shiny treasure ex"},
	{"シャイニートレジャー", "shiny treasure ex"},
	{"sv4a", "shiny treasure ex"},
	{"ポケモンカード151", "pokemon 151"},
	{"sv2a", "pokemon 151"},
	{"黒炎の支配者", "ruler of the black flame"},
	{"sv3", "ruler of the black flame"},
	{"古代の咆哮", "ancient roar"},
	{"未来の一閃", "future flash"},
	{"レイジングサーフ", "raging surf"},
	{"クリムゾンヘイズ", "crimson haze"},
	{"変幻の仮面", "mask of change"},
	{"ナイトワンダラー", "night wanderer"},
	{"ステラミラクル", "stellar miracle"},
	{"超電ブレイカー", "super electric breaker"},
	{"テラスタルフェスex", "terastal festival ex"},
	{"sv8a", "terastal festival ex"},
	{"バトルパートナーズ", "battle partners"},
	{"vstarユニバース", "vstar universe"},
	{"s12a", "vstar universe"},
	{"新時代の主役", "awakening of the new era"},
	{"頂上決戦", "paramount war"},
	{"双璧の覇者", "two legends"},
	{"謀略の王国", "kingdom of intrigue"},
	{"ロマンスドーン", "romance dawn"},
	{"quarter century chronicle", "quarter century chronicle"},
	{"レアリティコレクション", "rarity collection"},
}

// rarityCodes are matched as whole words.
var rarityCodes = []string{"chr", "csr", "sar", "sir", "ssr", "rrr", "sec", "ur", "sr", "hr", "ar", "ir", "rr", "sp"}

var (
	// Markers that the listing is explicitly in the local language.
	localEditionMarkers = []string{"日本語", "日本版", "国内版", "国内正規", "japanese", "jpn"}
	// Markers that rule out the local-edition heuristic.
	foreignMarkers = []string{"英語", "海外版", "韓国", "中国", "繁体", "簡体", "english", "korean", "chinese", "eng版"}
	cardContext    = []string{"カード", "card", "トレカ", "tcg", "ポケカ"}
	promoMarkers   = []string{"プロモ", "promo"}
	unlockMarkers  = []string{"simフリー", "sim free", "simfree", "unlocked", "simロック解除"}
	gradingLabs    = map[string]bool{"psa": true, "bgs": true, "cgc": true, "ars": true, "sgc": true}
)
