package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"gopkg.in/yaml.v3"
)

// ResourceManager is responsible for centralized management of game resources.
// It provides loading and caching mechanisms for images, sounds and fonts,
// ensuring that resources are loaded only once and reused throughout the game.
//
// All files are read from an fs.FS: the embedded data/ tree in release builds,
// os.DirFS(".") during development.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the single-threaded game loop, no synchronization is needed.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(os.DirFS("."), audioContext)
//	if err := rm.LoadResourceConfig("data/resources.yaml"); err != nil {
//	    log.Printf("Failed to load resource config: %v", err)
//	}
type ResourceManager struct {
	fsys          fs.FS                       // Source of all resource files
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	audioCache    map[string]*audio.Player    // Cache for loaded audio players: path or ID -> Player
	audioContext  *audio.Context              // Global audio context, may be nil (audio disabled)
	fontSources   map[string]*text.GoTextFaceSource
	fontFaceCache map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces

	// YAML resource configuration
	config      *ResourceConfig   // Parsed YAML configuration
	resourceMap map[string]string // Resource ID -> file path mapping for quick lookup
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - fsys: The file system resources are read from.
//   - audioContext: The global audio context. nil disables sound loading.
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		fsys:          fsys,
		imageCache:    make(map[string]*ebiten.Image),
		audioCache:    make(map[string]*audio.Player),
		audioContext:  audioContext,
		fontSources:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
		resourceMap:   make(map[string]string),
	}
}

// AudioContext returns the audio context, or nil when audio is disabled.
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
//
// Error handling:
//   - Returns an error if the file does not exist or cannot be decoded.
//   - Does not panic - all errors are returned to the caller for handling.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	data, err := fs.ReadFile(rm.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImage := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImage

	return ebitenImage, nil
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadAudio loads a looping background track and caches the player.
// Supported formats: .mp3, .ogg
func (rm *ResourceManager) LoadAudio(path string) (*audio.Player, error) {
	cacheKey := "loop:" + path
	if cachedPlayer, exists := rm.audioCache[cacheKey]; exists {
		return cachedPlayer, nil
	}

	if rm.audioContext == nil {
		return nil, fmt.Errorf("cannot load music %s: audio context not available", path)
	}

	audioData, err := fs.ReadFile(rm.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read music file %s: %w", path, err)
	}

	reader := bytes.NewReader(audioData)

	var loop *audio.InfiniteLoop
	switch ext := strings.ToLower(pathExt(path)); ext {
	case ".mp3":
		stream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 music %s: %w", path, err)
		}
		loop = audio.NewInfiniteLoop(stream, stream.Length())
	case ".ogg":
		stream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG music %s: %w", path, err)
		}
		loop = audio.NewInfiniteLoop(stream, stream.Length())
	default:
		return nil, fmt.Errorf("unsupported music format: %s (supported: .mp3, .ogg)", ext)
	}

	player, err := rm.audioContext.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("failed to create music player for %s: %w", path, err)
	}

	rm.audioCache[cacheKey] = player
	return player, nil
}

// LoadMusicByID loads a looping background track using its resource ID.
func (rm *ResourceManager) LoadMusicByID(resourceID string) (*audio.Player, error) {
	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return nil, fmt.Errorf("resource ID not found: %s", resourceID)
	}
	return rm.LoadAudio(filePath)
}

// LoadSoundEffect loads a one-shot sound (no looping) and caches the player.
// Supported formats: .mp3, .ogg, .wav
func (rm *ResourceManager) LoadSoundEffect(path string) (*audio.Player, error) {
	if cachedPlayer, exists := rm.audioCache[path]; exists {
		return cachedPlayer, nil
	}

	if rm.audioContext == nil {
		return nil, fmt.Errorf("cannot load sound effect %s: audio context not available", path)
	}

	audioData, err := fs.ReadFile(rm.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound effect file %s: %w", path, err)
	}

	reader := bytes.NewReader(audioData)

	var stream io.Reader
	switch ext := strings.ToLower(pathExt(path)); ext {
	case ".mp3":
		decodedStream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 sound effect %s: %w", path, err)
		}
		stream = decodedStream
	case ".ogg":
		decodedStream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG sound effect %s: %w", path, err)
		}
		stream = decodedStream
	case ".wav":
		decodedStream, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV sound effect %s: %w", path, err)
		}
		stream = decodedStream
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}

	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// RegisterSound registers raw PCM data (16-bit signed little-endian stereo at the
// context sample rate) under a resource ID. Used for synthesized fallback sounds.
func (rm *ResourceManager) RegisterSound(id string, pcm []byte) error {
	if rm.audioContext == nil {
		return fmt.Errorf("cannot register sound %s: audio context not available", id)
	}
	rm.audioCache[id] = rm.audioContext.NewPlayerFromBytes(pcm)
	return nil
}

// GetAudioPlayer retrieves a previously loaded audio player (by path or registered ID), or nil.
func (rm *ResourceManager) GetAudioPlayer(key string) *audio.Player {
	return rm.audioCache[key]
}

// LoadFont loads a TrueType/OpenType font from the specified path and creates a text face with the given size.
// The font face is cached with a key combining path and size.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[path]
	if !ok {
		fontData, err := fs.ReadFile(rm.fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
		}
		rm.fontSources[path] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// defaultFontKey is the cache key of the bundled fallback font.
const defaultFontKey = "builtin:mplus1p"

// DefaultFont returns the bundled M+ 1p font (covers Latin, kana and common CJK)
// at the given size. It is used when no dialog font is configured.
func (rm *ResourceManager) DefaultFont(size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", defaultFontKey, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[defaultFontKey]
	if !ok {
		var err error
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fonts.MPlus1pRegular_ttf))
		if err != nil {
			return nil, fmt.Errorf("failed to create default font source: %w", err)
		}
		rm.fontSources[defaultFontKey] = source
	}

	face := &text.GoTextFace{Source: source, Size: size, Direction: text.DirectionLeftToRight}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// LoadResourceConfig loads and parses the YAML resource configuration.
// After loading, resources can be accessed by ID using the *ByID methods.
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	data, err := fs.ReadFile(rm.fsys, configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}

	var config ResourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse resource config %s: %w", configPath, err)
	}

	rm.config = &config
	rm.buildResourceMap()
	return nil
}

// buildResourceMap constructs a mapping from resource IDs to full file paths.
//
//	PORTRAIT_ALICE -> assets/portraits/alice.png
//	SOUND_TYPEWRITER -> assets/sounds/typewriter.ogg
func (rm *ResourceManager) buildResourceMap() {
	if rm.config == nil {
		return
	}

	rm.resourceMap = make(map[string]string)

	for _, group := range rm.config.Groups {
		for _, img := range group.Images {
			fullPath := buildFullPath(rm.config.BasePath, img.Path)
			if pathExt(fullPath) == "" {
				fullPath += ".png" // Default to PNG for images
			}
			rm.resourceMap[img.ID] = fullPath
		}

		for _, sound := range group.Sounds {
			fullPath := buildFullPath(rm.config.BasePath, sound.Path)
			if pathExt(fullPath) == "" {
				fullPath += ".ogg" // Default to OGG for sounds
			}
			rm.resourceMap[sound.ID] = fullPath
		}

		for _, font := range group.Fonts {
			rm.resourceMap[font.ID] = buildFullPath(rm.config.BasePath, font.Path)
		}
	}
}

// ResolvePath returns the file path mapped to a resource ID.
func (rm *ResourceManager) ResolvePath(resourceID string) (string, bool) {
	p, ok := rm.resourceMap[resourceID]
	return p, ok
}

// HasResource reports whether the ID is defined in the resource config.
func (rm *ResourceManager) HasResource(resourceID string) bool {
	_, ok := rm.resourceMap[resourceID]
	return ok
}

// LoadImageByID loads an image resource using its resource ID.
func (rm *ResourceManager) LoadImageByID(resourceID string) (*ebiten.Image, error) {
	if rm.config == nil {
		return nil, fmt.Errorf("resource config not loaded - call LoadResourceConfig first")
	}

	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return nil, fmt.Errorf("resource ID not found: %s", resourceID)
	}

	return rm.LoadImage(filePath)
}

// GetImageByID retrieves a previously loaded image using its resource ID, or nil.
func (rm *ResourceManager) GetImageByID(resourceID string) *ebiten.Image {
	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return nil
	}
	return rm.GetImage(filePath)
}

// LoadSoundByID loads a sound effect using its resource ID.
// Sounds registered with RegisterSound are returned directly.
func (rm *ResourceManager) LoadSoundByID(resourceID string) (*audio.Player, error) {
	if player, exists := rm.audioCache[resourceID]; exists {
		return player, nil
	}

	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return nil, fmt.Errorf("resource ID not found: %s", resourceID)
	}
	return rm.LoadSoundEffect(filePath)
}

// LoadFontByID loads a font resource by ID at the given size.
func (rm *ResourceManager) LoadFontByID(resourceID string, size float64) (*text.GoTextFace, error) {
	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return nil, fmt.Errorf("resource ID not found: %s", resourceID)
	}
	return rm.LoadFont(filePath, size)
}

// LoadResourceGroup loads all images and sounds in a group.
// Fonts are loaded on demand because their size is chosen by the caller.
func (rm *ResourceManager) LoadResourceGroup(groupName string) error {
	if rm.config == nil {
		return fmt.Errorf("resource config not loaded - call LoadResourceConfig first")
	}

	group, exists := rm.config.Groups[groupName]
	if !exists {
		return fmt.Errorf("resource group not found: %s", groupName)
	}

	for _, img := range group.Images {
		if _, err := rm.LoadImageByID(img.ID); err != nil {
			return fmt.Errorf("failed to load image %s in group %s: %w", img.ID, groupName, err)
		}
	}

	if rm.audioContext != nil {
		for _, sound := range group.Sounds {
			if _, err := rm.LoadSoundByID(sound.ID); err != nil {
				return fmt.Errorf("failed to load sound %s in group %s: %w", sound.ID, groupName, err)
			}
		}
	}

	return nil
}

// pathExt returns the extension of a slash-separated path.
func pathExt(p string) string {
	return path.Ext(p)
}
