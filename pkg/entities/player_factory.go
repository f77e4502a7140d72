package entities

import (
	"fmt"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
)

// 玩家碰撞盒尺寸（像素）
const (
	PlayerWidth  = 24.0
	PlayerHeight = 32.0
)

// NewPlayerEntity 创建玩家实体
//
// 参数:
//   - em: 实体管理器
//   - x, y: 出生点（碰撞盒左上角，世界坐标）
//   - speed: 移动速度（像素/秒），必须为正数
//
// 返回:
//   - ecs.EntityID: 玩家实体ID，失败时返回 0
//   - error: 参数不合法时返回错误
func NewPlayerEntity(em *ecs.EntityManager, x, y, speed float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if speed <= 0 {
		return 0, fmt.Errorf("invalid player speed %v, must be positive", speed)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PlayerComponent{Speed: speed})
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  PlayerWidth,
		Height: PlayerHeight,
	})

	return id, nil
}
