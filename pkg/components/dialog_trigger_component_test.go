package components

import "testing"

// TestParseTriggerMode 测试触发方式解析
func TestParseTriggerMode(t *testing.T) {
	tests := []struct {
		input    string
		expected TriggerMode
		ok       bool
	}{
		{"enter", TriggerOnEnter, true},
		{"interact", TriggerOnInteract, true},
		{"", TriggerOnInteract, true},
		{"manual", TriggerManual, true},
		{"proximity", TriggerOnInteract, false},
	}

	for _, tt := range tests {
		mode, ok := ParseTriggerMode(tt.input)
		if mode != tt.expected || ok != tt.ok {
			t.Errorf("ParseTriggerMode(%q) = (%v, %v), expected (%v, %v)", tt.input, mode, ok, tt.expected, tt.ok)
		}
	}
}

// TestTriggerMode_String 测试字符串表示可被重新解析
func TestTriggerMode_String(t *testing.T) {
	for _, mode := range []TriggerMode{TriggerOnEnter, TriggerOnInteract, TriggerManual} {
		parsed, ok := ParseTriggerMode(mode.String())
		if !ok || parsed != mode {
			t.Errorf("Round trip failed for %v", mode)
		}
	}
}
