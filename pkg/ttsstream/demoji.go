package ttsstream

import "regexp"

// emojiPattern covers the Unicode ranges that commonly appear as emoji in
// LLM output: emoticons, symbols & pictographs, transport/map symbols,
// supplemental symbols & pictographs, dingbats, and variation selectors.
// No third-party library in the grounding pack strips emoji graphemes
// (goldmark-emoji renders markdown shortcodes into emoji, the opposite
// direction), so this is implemented directly over regexp/unicode ranges.
var emojiPattern = regexp.MustCompile(
	"[\U0001F300-\U0001FAFF\U00002600-\U000027BF\U0001F1E6-\U0001F1FF\U00002190-\U000021FF\U00002B00-\U00002BFF\U0000FE00-\U0000FE0F]",
)

// demoji strips emoji characters from text before it is buffered into
// TTS words (original_source hikari-core/src/tts/streaming.rs).
func demoji(text string) string {
	return emojiPattern.ReplaceAllString(text, "")
}
