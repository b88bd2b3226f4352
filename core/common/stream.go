package common

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/net/ghttp"
)

// SetSSEHeaders 设置SSE流式响应头
func SetSSEHeaders(r *ghttp.Request) {
	resp := r.Response
	resp.Header().Set("Content-Type", "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.Header().Set("X-Accel-Buffering", "no") // 禁用Nginx缓冲
	resp.Header().Set("Access-Control-Allow-Origin", "*")
}

// WriteSSEFrame 将 payload 序列化为一条数据事件并立即刷出
func WriteSSEFrame(r *ghttp.Request, payload any) error {
	marshal, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	writeSSEData(r.Response, string(marshal))
	return nil
}

// WriteSSEDone 发送结束事件
func WriteSSEDone(r *ghttp.Request) {
	r.Response.Writeln(fmt.Sprintf("data:%s\n", "[DONE]"))
	r.Response.Flush()
}

// writeSSEData 写入SSE数据事件
func writeSSEData(resp *ghttp.Response, data string) {
	if len(data) == 0 {
		return
	}
	resp.Writeln(fmt.Sprintf("data:%s\n", data))
	resp.Flush()
}
