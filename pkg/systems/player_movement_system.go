package systems

import (
	"math"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// PlayerMovementSystem 玩家移动系统
// 方向键 / WASD 移动玩家，位置限制在世界范围内
type PlayerMovementSystem struct {
	entityManager *ecs.EntityManager
	input         utils.Input
	worldWidth    float64
	worldHeight   float64
}

// NewPlayerMovementSystem 创建玩家移动系统
func NewPlayerMovementSystem(em *ecs.EntityManager, input utils.Input, worldWidth, worldHeight float64) *PlayerMovementSystem {
	return &PlayerMovementSystem{
		entityManager: em,
		input:         input,
		worldWidth:    worldWidth,
		worldHeight:   worldHeight,
	}
}

// Update 按输入方向移动所有玩家
// dt 为游戏时间，游戏暂停时为 0
func (s *PlayerMovementSystem) Update(dt float64) {
	if dt <= 0 || s.input == nil {
		return
	}

	dx, dy := s.direction()
	if dx == 0 && dy == 0 {
		return
	}

	// 斜向移动保持相同速度
	length := math.Hypot(dx, dy)
	dx, dy = dx/length, dy/length

	for _, id := range ecs.GetEntitiesWith3[*components.PlayerComponent, *components.PositionComponent, *components.CollisionComponent](s.entityManager) {
		player, _ := ecs.GetComponent[*components.PlayerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)

		pos.X += dx * player.Speed * dt
		pos.Y += dy * player.Speed * dt

		pos.X = clamp(pos.X, -box.OffsetX, s.worldWidth-box.Width-box.OffsetX)
		pos.Y = clamp(pos.Y, -box.OffsetY, s.worldHeight-box.Height-box.OffsetY)
	}
}

func (s *PlayerMovementSystem) direction() (dx, dy float64) {
	pressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if s.input.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}

	if pressed(ebiten.KeyArrowLeft, ebiten.KeyA) {
		dx--
	}
	if pressed(ebiten.KeyArrowRight, ebiten.KeyD) {
		dx++
	}
	if pressed(ebiten.KeyArrowUp, ebiten.KeyW) {
		dy--
	}
	if pressed(ebiten.KeyArrowDown, ebiten.KeyS) {
		dy++
	}
	return dx, dy
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
