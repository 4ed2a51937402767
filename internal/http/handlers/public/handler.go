package public

import "github.com/walaa-next/internal/provider"

// Handler 公共接口处理器入口
// 仅承载无需登录态的接口（登录、健康检查）。
type Handler struct {
	*provider.Container
}

// New 创建公共处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
