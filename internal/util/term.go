package util

import "github.com/fatih/color"

// 终端着色
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
)

// StatusColor 按任务状态着色
func StatusColor(status string) string {
	switch status {
	case "Critical":
		return BoldRed(status)
	case "Completed":
		return Green(status)
	default:
		return status
	}
}

// DisableColor 关闭着色（--no-color 或输出被重定向时）
func DisableColor() {
	color.NoColor = true
}
