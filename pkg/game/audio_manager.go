package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/platformer/pkg/dialog"
)

// AudioManager 音频管理器
// 职责：
//   - 统一管理游戏中所有音效和背景音乐的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 为对话系统提供语音和打字音效的播放接口
type AudioManager struct {
	resourceManager *ResourceManager         // 资源管理器（用于加载音频），可为 nil
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置），可为 nil
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（资源ID -> 播放器）
	missing         map[string]bool          // 已确认找不到的资源ID，避免重复警告
	currentMusic    *audio.Player            // 当前播放的背景音乐
	currentMusicID  string                   // 当前播放的背景音乐ID
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件，可为 nil）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
		missing:         make(map[string]bool),
	}
}

// PlaySound 播放音效
// 音效使用 SoundVolume 设置控制音量，单次播放
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.GetSoundVolume())

	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()

	return true
}

// PlayClip 实现 dialog.AudioSink
func (am *AudioManager) PlayClip(clipID string) bool {
	return am.PlaySound(clipID)
}

// PlayMusic 播放背景音乐（循环）
// 同一时间只能播放一首背景音乐
func (am *AudioManager) PlayMusic(musicID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}

	// 如果已经在播放同一首音乐，不重复播放
	if am.currentMusicID == musicID && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}

	am.StopMusic()

	if am.resourceManager == nil {
		return false
	}
	player, err := am.resourceManager.LoadMusicByID(musicID)
	if err != nil {
		log.Printf("[AudioManager] Warning: Music not found: %s (%v)", musicID, err)
		return false
	}

	volume := am.getMusicVolume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind music %s: %v", musicID, err)
	}
	player.Play()

	am.currentMusic = player
	am.currentMusicID = musicID

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", musicID, volume)
	return true
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		am.currentMusic = nil
		am.currentMusicID = ""
	}
}

// CurrentMusicID 返回当前背景音乐ID
func (am *AudioManager) CurrentMusicID() string {
	return am.currentMusicID
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 0.7 // 默认值
}

// getSoundPlayer 获取或加载音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}
	if am.missing[soundID] || am.resourceManager == nil {
		return nil
	}

	player, err := am.resourceManager.LoadSoundByID(soundID)
	if err != nil {
		log.Printf("[AudioManager] Warning: Sound not found: %s (%v)", soundID, err)
		am.missing[soundID] = true
		return nil
	}

	am.soundPlayers[soundID] = player
	return player
}

// EnsureSound 确保音效可用：资源配置中没有时用 synth 生成的 PCM 注册
// 返回音效最终是否可用
func (am *AudioManager) EnsureSound(soundID string, synth func(sampleRate int) []byte) bool {
	if am.resourceManager == nil || am.resourceManager.AudioContext() == nil {
		return false
	}
	if am.resourceManager.HasResource(soundID) {
		return true
	}

	pcm := synth(am.resourceManager.AudioContext().SampleRate())
	if err := am.resourceManager.RegisterSound(soundID, pcm); err != nil {
		log.Printf("[AudioManager] Warning: %v", err)
		return false
	}
	delete(am.missing, soundID)
	log.Printf("[AudioManager] Registered synthesized sound: %s", soundID)
	return true
}

// VoiceSink 返回受语音开关控制的 dialog.AudioSink
func (am *AudioManager) VoiceSink() dialog.AudioSink {
	return &filteredSink{am: am, enabled: func(s *GameSettings) bool { return s.VoiceEnabled }}
}

// TypewriterSink 返回受打字音效开关控制的 dialog.AudioSink
func (am *AudioManager) TypewriterSink() dialog.AudioSink {
	return &filteredSink{am: am, enabled: func(s *GameSettings) bool { return s.TypewriterSound }}
}

// filteredSink 播放前检查对应的设置开关
type filteredSink struct {
	am      *AudioManager
	enabled func(*GameSettings) bool
}

func (f *filteredSink) PlayClip(clipID string) bool {
	if f.am.settingsManager != nil && !f.enabled(f.am.settingsManager.GetSettings()) {
		return false
	}
	return f.am.PlaySound(clipID)
}

// SynthesizeClick 生成一个短促的打字音效
// 输出为 16 位有符号小端立体声 PCM，时长约 25ms，指数衰减的方波
func SynthesizeClick(sampleRate int) []byte {
	const (
		duration  = 0.025
		frequency = 1800.0
		amplitude = 0.3
		decay     = 180.0
	)

	samples := int(float64(sampleRate) * duration)
	buf := make([]byte, samples*4)

	for i := 0; i < samples; i++ {
		t := float64(i) / float64(sampleRate)
		v := amplitude * math.Exp(-decay*t)
		if math.Sin(2*math.Pi*frequency*t) < 0 {
			v = -v
		}
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], s)
		binary.LittleEndian.PutUint16(buf[i*4+2:], s)
	}

	return buf
}
