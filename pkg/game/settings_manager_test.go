package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()

	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.MusicVolume != 0.7 {
		t.Errorf("MusicVolume: got %v, want 0.7", settings.MusicVolume)
	}
	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.MusicEnabled || !settings.SoundEnabled {
		t.Error("Music and sound should be enabled by default")
	}
	if !settings.VoiceEnabled {
		t.Error("VoiceEnabled: got false, want true")
	}
	if !settings.TypewriterSound {
		t.Error("TypewriterSound: got false, want true")
	}
	if settings.TextSpeed != 1.0 {
		t.Errorf("TextSpeed: got %v, want 1.0", settings.TextSpeed)
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)

	if sm.IsPersistent() {
		t.Error("Expected degraded manager not to be persistent")
	}
	if sm.GetSettings().TextSpeed != 1.0 {
		t.Errorf("Degraded mode TextSpeed: got %v, want 1.0", sm.GetSettings().TextSpeed)
	}
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestGdata(t, "test_dialog_settings")

	sm1 := NewSettingsManager(gdataManager)
	sm1.SetSoundVolume(0.6)
	sm1.SetVoiceEnabled(false)
	sm1.SetTypewriterSound(false)
	sm1.SetTextSpeed(2.0)

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(gdataManager)
	settings := sm2.GetSettings()

	if settings.SoundVolume != 0.6 {
		t.Errorf("Loaded SoundVolume: got %v, want 0.6", settings.SoundVolume)
	}
	if settings.VoiceEnabled {
		t.Error("Loaded VoiceEnabled: got true, want false")
	}
	if settings.TypewriterSound {
		t.Error("Loaded TypewriterSound: got true, want false")
	}
	if settings.TextSpeed != 2.0 {
		t.Errorf("Loaded TextSpeed: got %v, want 2.0", settings.TextSpeed)
	}
}

// TestSettingsLoad_OldFormat 测试旧版本设置文件缺少的字段使用默认值
func TestSettingsLoad_OldFormat(t *testing.T) {
	gdataManager := openTestGdata(t, "test_dialog_settings_old")

	old := []byte("musicVolume: 0.3\nsoundVolume: 0.4\nmusicEnabled: true\nsoundEnabled: true\n")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, old); err != nil {
		t.Fatalf("SaveObjectProp failed: %v", err)
	}

	sm := NewSettingsManager(gdataManager)
	settings := sm.GetSettings()

	if settings.MusicVolume != 0.3 {
		t.Errorf("MusicVolume: got %v, want 0.3", settings.MusicVolume)
	}
	if !settings.VoiceEnabled || !settings.TypewriterSound {
		t.Error("Missing dialog toggles should default to true")
	}
	if settings.TextSpeed != 1.0 {
		t.Errorf("Missing TextSpeed should default to 1.0, got %v", settings.TextSpeed)
	}
}

// TestSettingsLoad_Corrupt 测试损坏的设置文件回退到默认设置
func TestSettingsLoad_Corrupt(t *testing.T) {
	gdataManager := openTestGdata(t, "test_dialog_settings_corrupt")

	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("textSpeed: [")); err != nil {
		t.Fatalf("SaveObjectProp failed: %v", err)
	}

	sm := NewSettingsManager(gdataManager)
	if sm.GetSettings().TextSpeed != 1.0 {
		t.Errorf("Expected defaults after corrupt file, got %+v", sm.GetSettings())
	}
	if err := sm.Load(); err == nil {
		t.Error("Expected Load() to report unmarshal error")
	}
}

// TestSetVolumeClamp 测试音量范围校验
func TestSetVolumeClamp(t *testing.T) {
	sm := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},  // 正常值
		{0.0, 0.0},  // 下限
		{1.0, 1.0},  // 上限
		{-0.5, 0.0}, // 低于下限
		{1.5, 1.0},  // 高于上限
	}

	for _, tt := range tests {
		sm.SetMusicVolume(tt.input)
		sm.SetSoundVolume(tt.input)
		if sm.GetSettings().MusicVolume != tt.expected || sm.GetSettings().SoundVolume != tt.expected {
			t.Errorf("SetVolume(%v): got music=%v sound=%v, want %v",
				tt.input, sm.GetSettings().MusicVolume, sm.GetSettings().SoundVolume, tt.expected)
		}
	}
}

// TestSetTextSpeedClamp 测试文字速度范围校验
func TestSetTextSpeedClamp(t *testing.T) {
	sm := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{1.5, 1.5},
		{0, 1.0},
		{0.1, MinTextSpeed},
		{-2, MinTextSpeed},
		{10, MaxTextSpeed},
	}

	for _, tt := range tests {
		sm.SetTextSpeed(tt.input)
		if got := sm.GetSettings().TextSpeed; got != tt.expected {
			t.Errorf("SetTextSpeed(%v): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

// TestLoadNilGdataManager 测试降级模式下 Load() 恢复默认设置
func TestLoadNilGdataManager(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetTextSpeed(3)

	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().TextSpeed != 1.0 {
		t.Errorf("After Load() in degraded mode, TextSpeed: got %v, want 1.0", sm.GetSettings().TextSpeed)
	}
}
