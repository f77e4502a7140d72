package utils

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// runeWidth 每个字符宽度为 1 的测量函数
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

// TestWrapTextFunc 测试文本换行规则
func TestWrapTextFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		expected []string
	}{
		{"短文本不换行", "短文本", 10, []string{"短文本"}},
		{"中文按字符断行", "你好世界朋友", 4, []string{"你好世界", "朋友"}},
		{"英文在空格处断行", "hello brave world", 12, []string{"hello brave", "world"}},
		{"单词过长强制断行", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"显式换行", "a\nb", 10, []string{"a", "b"}},
		{"空文本", "", 10, []string{""}},
		{"无宽度限制", "hello world", 0, []string{"hello world"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapTextFunc(tt.input, tt.maxWidth, runeWidth)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("WrapTextFunc(%q, %v) = %q, expected %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}
}

// TestWrapText_NilFont 测试没有字体时只按换行符拆分
func TestWrapText_NilFont(t *testing.T) {
	got := WrapText("第一行\n第二行", nil, 100)
	if len(got) != 2 || got[0] != "第一行" {
		t.Errorf("Unexpected result %q", got)
	}
}
