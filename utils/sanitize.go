package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxNicknameLength bounds nicknames in runes.
const MaxNicknameLength = 32

var nicknamePolicy = bluemonday.StrictPolicy()

// CleanNickname trims the nickname and reports whether it is acceptable:
// non-empty, at most MaxNicknameLength runes, and free of markup.
func CleanNickname(raw string) (string, bool) {
	nickname := strings.TrimSpace(raw)
	if nickname == "" || utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return nickname, false
	}
	if nicknamePolicy.Sanitize(nickname) != nickname {
		return nickname, false
	}
	return nickname, true
}
