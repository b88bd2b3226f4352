package common

import (
	"os"
	"testing"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/glog"
)

// TestMain 把日志限制为 stdout，避免测试运行产生日志文件
func TestMain(m *testing.M) {
	g.Log().SetConfig(glog.Config{
		Flags:       glog.F_TIME_STD,
		Level:       glog.LEVEL_ALL,
		StdoutPrint: true,
	})
	os.Exit(m.Run())
}
