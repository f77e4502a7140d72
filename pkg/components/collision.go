package components

// CollisionComponent 定义实体的碰撞检测边界框
// 用于触发区域检测（玩家进入/离开对话触发区）
type CollisionComponent struct {
	Width   float64 // 碰撞盒宽度（像素）
	Height  float64 // 碰撞盒高度（像素）
	OffsetX float64 // 碰撞盒相对于实体位置的X偏移量（像素），正值向右偏移
	OffsetY float64 // 碰撞盒相对于实体位置的Y偏移量（像素），正值向下偏移
}

// Bounds 返回碰撞盒在世界坐标中的范围
func (c *CollisionComponent) Bounds(pos *PositionComponent) (minX, minY, maxX, maxY float64) {
	minX = pos.X + c.OffsetX
	minY = pos.Y + c.OffsetY
	return minX, minY, minX + c.Width, minY + c.Height
}

// Overlaps 检测两个碰撞盒是否重叠（边缘接触不算重叠）
func Overlaps(a *CollisionComponent, aPos *PositionComponent, b *CollisionComponent, bPos *PositionComponent) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.Bounds(aPos)
	bMinX, bMinY, bMaxX, bMaxY := b.Bounds(bPos)
	return aMinX < bMaxX && bMinX < aMaxX && aMinY < bMaxY && bMinY < aMaxY
}
