package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapText 将文本按指定宽度自动换行
//
// 换行规则:
//   - 文本中的 '\n' 总是换行
//   - 英文优先在空格处断行，中文可以在任意字符处断行
//   - 单个字符超过最大宽度时单独成行
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if font == nil {
		return strings.Split(textStr, "\n")
	}
	return WrapTextFunc(textStr, maxWidth, func(s string) float64 {
		w, _ := text.Measure(s, font, 0)
		return w
	})
}

// WrapTextFunc 使用给定的测量函数换行，便于在没有字体时测试
func WrapTextFunc(textStr string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(textStr, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxWidth, measure)...)
	}
	return lines
}

func wrapParagraph(p string, maxWidth float64, measure func(string) float64) []string {
	if maxWidth <= 0 || measure(p) <= maxWidth {
		return []string{p}
	}

	var lines []string
	current := ""
	lastSpace := -1 // current 中最后一个空格的字节位置

	for len(p) > 0 {
		r, size := utf8.DecodeRuneInString(p)
		p = p[size:]

		candidate := current + string(r)
		if measure(candidate) <= maxWidth || current == "" {
			if unicode.IsSpace(r) {
				lastSpace = len(current)
			}
			current = candidate
			continue
		}

		// 超宽：有空格时在空格处断开，否则在当前字符前断开
		if lastSpace > 0 && !unicode.IsSpace(r) && isWordRune(r) {
			lines = append(lines, strings.TrimRight(current[:lastSpace], " "))
			current = strings.TrimLeft(current[lastSpace:], " ") + string(r)
		} else {
			lines = append(lines, strings.TrimRight(current, " "))
			if unicode.IsSpace(r) {
				current = ""
			} else {
				current = string(r)
			}
		}
		lastSpace = strings.LastIndex(current, " ")
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// isWordRune 拉丁字母和数字组成单词，不在中间断开
func isWordRune(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
}
