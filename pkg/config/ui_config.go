package config

// DialogButtonIndex 对话框按钮索引
type DialogButtonIndex int

const (
	// ContinueButtonIndex 继续按钮
	ContinueButtonIndex DialogButtonIndex = iota
	// SkipButtonIndex 跳过按钮
	SkipButtonIndex
)

// DialogButtonOffset 按钮相对对话框右下角的偏移
type DialogButtonOffset struct {
	X float64 // 距右边缘（按钮右边）
	Y float64 // 距下边缘（按钮下边）
}

// DialogButtonOffsets 对话框按钮位置（可独立调整每个按钮）
// 索引顺序：0=继续, 1=跳过
var DialogButtonOffsets = []DialogButtonOffset{
	{X: DialogPadding, Y: DialogPadding / 2},
	{X: DialogPadding*2 + DialogButtonWidth, Y: DialogPadding / 2},
}

// CalculateDialogButtonPosition 计算按钮左上角的屏幕坐标
// 索引越界时返回 (0, 0)
func CalculateDialogButtonPosition(index DialogButtonIndex) (x, y float64) {
	if index < 0 || int(index) >= len(DialogButtonOffsets) {
		return 0, 0
	}

	off := DialogButtonOffsets[index]
	x = DialogPanelX + DialogPanelWidth - off.X - DialogButtonWidth
	y = DialogPanelY + DialogPanelHeight - off.Y - DialogButtonHeight
	return x, y
}

// DialogButtonClickPadding 按钮点击区域扩展（像素）
const DialogButtonClickPadding = 4.0
