// dialogplay 在终端中预览和检查对话数据
//
// 用法：
//
//	dialogplay list [--levels]
//	dialogplay play <sequence-id> [--speed 1.5] [--auto]
//	dialogplay validate
//
// 所有命令读取 --dir 指定目录下的 data/dialogs、data/levels 和 data/resources.yaml。
package main

func main() {
	Execute()
}
