package components

// PositionComponent 实体在世界坐标系中的位置（左上角，像素）
type PositionComponent struct {
	X float64
	Y float64
}

// PlayerComponent 标记玩家实体
type PlayerComponent struct {
	Speed float64 // 移动速度（像素/秒）
}
