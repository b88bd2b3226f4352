package docchat

// ControllerV1 实现 v1 版本的 HTTP 接口
type ControllerV1 struct{}

// NewV1 创建 v1 控制器
func NewV1() *ControllerV1 {
	return &ControllerV1{}
}
