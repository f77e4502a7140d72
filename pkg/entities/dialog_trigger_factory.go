package entities

import (
	"fmt"
	"log"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
)

// SequenceLookup 按ID查找对话序列
// *config.DialogLibrary 实现了该接口
type SequenceLookup interface {
	Get(id string) (*dialog.Sequence, bool)
}

// NewDialogTriggerEntity 根据关卡配置创建对话触发区实体
//
// 触发区由 DialogTriggerComponent、PositionComponent 和 CollisionComponent 组成。
// 序列ID在 lookup 中不存在时返回错误，不创建实体。
func NewDialogTriggerEntity(em *ecs.EntityManager, cfg config.TriggerConfig, lookup SequenceLookup) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if lookup == nil {
		return 0, fmt.Errorf("sequence lookup cannot be nil")
	}

	seq, ok := lookup.Get(cfg.Sequence)
	if !ok {
		return 0, fmt.Errorf("trigger %s: unknown dialog sequence %q", cfg.ID, cfg.Sequence)
	}

	mode, ok := components.ParseTriggerMode(cfg.Mode)
	if !ok {
		return 0, fmt.Errorf("trigger %s: unknown mode %q", cfg.ID, cfg.Mode)
	}

	// 配置未经过 ParseLevelConfig 时默认只触发一次
	oneTime := true
	if cfg.OneTimeOnly != nil {
		oneTime = *cfg.OneTimeOnly
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.DialogTriggerComponent{
		SequenceID:   cfg.Sequence,
		Sequence:     seq,
		Mode:         mode,
		OneTimeOnly:  oneTime,
		PromptText:   cfg.Prompt,
		DelaySeconds: cfg.DelaySeconds,
		Debug:        cfg.Debug,
	})
	ecs.AddComponent(em, id, &components.PositionComponent{X: cfg.X, Y: cfg.Y})
	ecs.AddComponent(em, id, &components.CollisionComponent{Width: cfg.Width, Height: cfg.Height})

	if cfg.Debug {
		log.Printf("[DialogTriggerFactory] 创建触发区 %s (entity=%d, mode=%s, sequence=%q, rect=%.0f,%.0f %.0fx%.0f)",
			cfg.ID, id, mode, cfg.Sequence, cfg.X, cfg.Y, cfg.Width, cfg.Height)
	}

	return id, nil
}
