package systems

import (
	"image/color"
	"log"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// triggerDelayTimerName 延迟触发使用的计时器名称
const triggerDelayTimerName = "dialog_trigger_delay"

// DefaultInteractKeys 触发交互对话的按键
var DefaultInteractKeys = []ebiten.Key{ebiten.KeyE, ebiten.KeyEnter}

// DialogTriggerSystem 对话触发区系统
//
// 每帧检测玩家与触发区的重叠：
//   - TriggerOnEnter：玩家进入区域的那一帧触发
//   - TriggerOnInteract：玩家在区域内按下交互键触发，同时控制交互提示的显示
//   - TriggerManual：只能通过 TriggerDialog 触发
//
// 延迟触发使用游戏时间（Update 的 dt），游戏暂停时不计时。
type DialogTriggerSystem struct {
	entityManager *ecs.EntityManager
	manager       *dialog.Manager
	input         utils.Input // 可以为 nil（只处理进入触发）

	interactKeys []ebiten.Key
	promptFont   *text.GoTextFace
}

// NewDialogTriggerSystem 创建对话触发区系统
func NewDialogTriggerSystem(em *ecs.EntityManager, manager *dialog.Manager, input utils.Input) *DialogTriggerSystem {
	return &DialogTriggerSystem{
		entityManager: em,
		manager:       manager,
		input:         input,
		interactKeys:  DefaultInteractKeys,
	}
}

// SetPromptFont 设置交互提示字体，nil 时不绘制提示文字
func (s *DialogTriggerSystem) SetPromptFont(face *text.GoTextFace) {
	s.promptFont = face
}

// Update 检测触发区并推进延迟计时
func (s *DialogTriggerSystem) Update(dt float64) {
	s.updateDelays(dt)

	player, playerPos, playerBox, ok := s.findPlayer()
	interactPressed := s.input != nil && utils.AnyKeyJustPressed(s.input, s.interactKeys)
	dialogActive := s.manager.IsDialogActive()

	for _, id := range ecs.GetEntitiesWith3[*components.DialogTriggerComponent, *components.PositionComponent, *components.CollisionComponent](s.entityManager) {
		trigger, _ := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)

		inRange := ok && components.Overlaps(playerBox, playerPos, box, pos)
		entered := inRange && !trigger.PlayerInRange
		exited := !inRange && trigger.PlayerInRange
		trigger.PlayerInRange = inRange

		if trigger.Debug {
			if entered {
				log.Printf("[DialogTriggerSystem] 玩家 %d 进入触发区 %d (sequence=%q)", player, id, trigger.SequenceID)
			} else if exited {
				log.Printf("[DialogTriggerSystem] 玩家 %d 离开触发区 %d (sequence=%q)", player, id, trigger.SequenceID)
			}
		}

		switch trigger.Mode {
		case components.TriggerOnEnter:
			if entered {
				s.TriggerDialog(id)
			}
		case components.TriggerOnInteract:
			if inRange && interactPressed && !dialogActive {
				s.TriggerDialog(id)
			}
			trigger.PromptVisible = inRange && !s.manager.IsDialogActive() && canTrigger(trigger)
		case components.TriggerManual:
			// 只由 TriggerDialog 触发
		}
	}
}

// findPlayer 返回第一个玩家实体
func (s *DialogTriggerSystem) findPlayer() (ecs.EntityID, *components.PositionComponent, *components.CollisionComponent, bool) {
	players := ecs.GetEntitiesWith3[*components.PlayerComponent, *components.PositionComponent, *components.CollisionComponent](s.entityManager)
	if len(players) == 0 {
		return 0, nil, nil, false
	}
	id := players[0]
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
	return id, pos, box, true
}

// updateDelays 推进延迟计时器，到期后开始对话
// 到期时如果已有对话在进行，继续等待直到对话结束
func (s *DialogTriggerSystem) updateDelays(dt float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.DialogTriggerComponent, *components.TimerComponent](s.entityManager) {
		trigger, _ := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, id)
		timer, _ := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		if timer.Name != triggerDelayTimerName || !trigger.Pending {
			continue
		}

		timer.Tick(dt)
		if !timer.IsReady || s.manager.IsDialogActive() {
			continue
		}

		ecs.RemoveComponent[*components.TimerComponent](s.entityManager, id)
		trigger.Pending = false
		s.start(id, trigger)
	}
}

// canTrigger 一次性触发区触发过后不能再触发
func canTrigger(trigger *components.DialogTriggerComponent) bool {
	return !(trigger.OneTimeOnly && trigger.HasTriggered) && !trigger.Pending
}

// TriggerDialog 触发指定实体的对话
//
// 一次性触发区已触发过、已有对话进行中或正在等待延迟时不做任何事。
// 返回是否开始（或安排了延迟开始）对话。
func (s *DialogTriggerSystem) TriggerDialog(entity ecs.EntityID) bool {
	trigger, ok := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, entity)
	if !ok {
		log.Printf("[DialogTriggerSystem] Warning: entity %d has no DialogTriggerComponent", entity)
		return false
	}

	if !canTrigger(trigger) {
		if trigger.Debug {
			log.Printf("[DialogTriggerSystem] 触发区 %d 已触发过或正在等待，忽略", entity)
		}
		return false
	}

	if s.manager.IsDialogActive() {
		if trigger.Debug {
			log.Printf("[DialogTriggerSystem] 已有对话进行中，忽略触发区 %d", entity)
		}
		return false
	}

	if trigger.DelaySeconds > 0 {
		trigger.Pending = true
		trigger.HasTriggered = true
		ecs.AddComponent(s.entityManager, entity, &components.TimerComponent{
			Name:       triggerDelayTimerName,
			TargetTime: trigger.DelaySeconds,
		})
		if trigger.Debug {
			log.Printf("[DialogTriggerSystem] 触发区 %d 将在 %.2f 秒后开始对话", entity, trigger.DelaySeconds)
		}
		return true
	}

	return s.start(entity, trigger)
}

// start 开始对话并标记已触发
func (s *DialogTriggerSystem) start(entity ecs.EntityID, trigger *components.DialogTriggerComponent) bool {
	if trigger.Sequence.Len() == 0 {
		log.Printf("[DialogTriggerSystem] Warning: 触发区 %d 没有对话内容 (sequence=%q)", entity, trigger.SequenceID)
		return false
	}

	s.manager.StartDialog(trigger.Sequence)
	trigger.HasTriggered = true
	trigger.PromptVisible = false

	if trigger.Debug {
		log.Printf("[DialogTriggerSystem] 触发区 %d 开始对话 %q", entity, trigger.SequenceID)
	}
	return true
}

// ResetTrigger 重置触发状态，一次性触发区可以再次触发
// 正在等待的延迟触发会被取消
func (s *DialogTriggerSystem) ResetTrigger(entity ecs.EntityID) {
	trigger, ok := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, entity)
	if !ok {
		return
	}
	trigger.HasTriggered = false
	trigger.Pending = false
	ecs.RemoveComponent[*components.TimerComponent](s.entityManager, entity)
}

// SetDialogSequence 替换触发区的对话序列
func (s *DialogTriggerSystem) SetDialogSequence(entity ecs.EntityID, seq *dialog.Sequence) {
	trigger, ok := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, entity)
	if !ok {
		log.Printf("[DialogTriggerSystem] Warning: entity %d has no DialogTriggerComponent", entity)
		return
	}
	trigger.Sequence = seq
	if seq != nil {
		trigger.SequenceID = seq.ID
	}
}

// HasTriggered 触发区是否已经触发过
func (s *DialogTriggerSystem) HasTriggered(entity ecs.EntityID) bool {
	trigger, ok := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, entity)
	return ok && trigger.HasTriggered
}

// Draw 绘制交互提示；调试模式的触发区绘制边框
func (s *DialogTriggerSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith3[*components.DialogTriggerComponent, *components.PositionComponent, *components.CollisionComponent](s.entityManager) {
		trigger, _ := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		minX, minY, _, _ := box.Bounds(pos)

		if trigger.Debug {
			clr := color.RGBA{0, 200, 255, 255}
			if trigger.PlayerInRange {
				clr = color.RGBA{255, 200, 0, 255}
			}
			vector.StrokeRect(screen, float32(minX), float32(minY), float32(box.Width), float32(box.Height), 1, clr, false)
		}

		if !trigger.PromptVisible || trigger.PromptText == "" || s.promptFont == nil {
			continue
		}
		w, _ := text.Measure(trigger.PromptText, s.promptFont, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(minX+(box.Width-w)/2, minY-s.promptFont.Size-4)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, trigger.PromptText, s.promptFont, op)
	}
}
