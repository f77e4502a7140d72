package config

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/platformer/pkg/components"
)

const sampleLevelYAML = `
id: village
name: 村庄
playerSpawn: {x: 100, y: 300}
autoStartDialog: intro
triggers:
  - id: sign
    sequence: sign
    x: 300
    y: 280
    width: 60
    height: 80
  - id: gate
    sequence: intro
    mode: enter
    x: 600
    y: 250
    width: 40
    height: 150
    oneTimeOnly: false
    delaySeconds: 0.5
  - id: scripted
    sequence: intro
    mode: manual
`

// TestParseLevelConfig 测试关卡配置解析与默认值
func TestParseLevelConfig(t *testing.T) {
	cfg, err := ParseLevelConfig([]byte(sampleLevelYAML), "sample")
	if err != nil {
		t.Fatalf("ParseLevelConfig failed: %v", err)
	}

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("Expected default size 800x600, got %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.PlayerSpeed != 160 {
		t.Errorf("Expected default speed 160, got %v", cfg.PlayerSpeed)
	}
	if cfg.PlayerSpawn.X != 100 || cfg.PlayerSpawn.Y != 300 {
		t.Errorf("Unexpected spawn %+v", cfg.PlayerSpawn)
	}

	sign := cfg.Triggers[0]
	if sign.TriggerMode() != components.TriggerOnInteract {
		t.Errorf("Expected interact mode by default, got %v", sign.TriggerMode())
	}
	if !*sign.OneTimeOnly {
		t.Error("Expected oneTimeOnly default true")
	}
	if sign.Prompt != DefaultInteractPrompt {
		t.Errorf("Expected default prompt, got %q", sign.Prompt)
	}

	gate := cfg.Triggers[1]
	if gate.TriggerMode() != components.TriggerOnEnter || *gate.OneTimeOnly || gate.DelaySeconds != 0.5 {
		t.Errorf("Unexpected gate trigger %+v", gate)
	}
	if gate.Prompt != "" {
		t.Errorf("Expected no prompt for enter trigger, got %q", gate.Prompt)
	}

	if cfg.Triggers[2].TriggerMode() != components.TriggerManual {
		t.Error("Expected manual trigger")
	}
}

// TestParseLevelConfig_Errors 测试非法关卡配置
func TestParseLevelConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"缺少ID", "name: x\n", "level ID is required"},
		{"缺少序列", "id: a\ntriggers:\n  - id: t\n    width: 1\n    height: 1\n", "sequence is required"},
		{"未知模式", "id: a\ntriggers:\n  - sequence: s\n    mode: touch\n    width: 1\n    height: 1\n", "unknown mode"},
		{"区域尺寸", "id: a\ntriggers:\n  - sequence: s\n", "width and height"},
		{"负延迟", "id: a\ntriggers:\n  - sequence: s\n    width: 1\n    height: 1\n    delaySeconds: -1\n", "delaySeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevelConfig([]byte(tt.yaml), "test")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLevelConfig_CheckSequences 测试引用检查
func TestLevelConfig_CheckSequences(t *testing.T) {
	fsys := fstest.MapFS{
		"levels/village.yaml": {Data: []byte(sampleLevelYAML)},
		"dialogs/all.yaml":    {Data: []byte(sampleDialogYAML)},
	}

	cfg, err := LoadLevelConfigFS(fsys, "levels/village.yaml")
	if err != nil {
		t.Fatalf("LoadLevelConfigFS failed: %v", err)
	}
	lib, err := LoadDialogLibraryFS(fsys, "dialogs")
	if err != nil {
		t.Fatalf("LoadDialogLibraryFS failed: %v", err)
	}

	if err := cfg.CheckSequences(lib); err != nil {
		t.Errorf("Expected all sequences to resolve, got %v", err)
	}

	cfg.Triggers[0].Sequence = "missing"
	if err := cfg.CheckSequences(lib); err == nil {
		t.Error("Expected unknown sequence error")
	}
}
