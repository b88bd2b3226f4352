package extract

import (
	"regexp"
	"strings"
)

var (
	controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	horizontalWS = regexp.MustCompile("[ \t ]+")
	blankLines   = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
)

// CleanText 规范化提取文本:统一换行符、去除控制字符、
// 折叠行内空白、连续空行压缩为单个段落分隔。
// 保留单个换行与段落边界,供后续分块使用。
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = controlChars.ReplaceAllString(text, "")
	text = horizontalWS.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
