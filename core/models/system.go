package models

import (
	"context"
	"math"
	"time"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryStats 系统内存概况（GB）
type MemoryStats struct {
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedGB      float64 `json:"used_gb"`
	PercentUsed float64 `json:"percent_used"`
}

// CPUStats CPU 概况
type CPUStats struct {
	Cores        int       `json:"cpu_count"`
	LogicalCores int       `json:"cpu_count_logical"`
	UsagePercent float64   `json:"cpu_percent"`
	LoadAverage  []float64 `json:"load_average,omitempty"`
}

// DiskStats 磁盘空间概况（GB）
type DiskStats struct {
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	FreeGB      float64 `json:"free_gb"`
	PercentUsed float64 `json:"percent_used"`
}

// SystemInfo 汇总系统内存、CPU 和磁盘信息
type SystemInfo struct {
	Memory MemoryStats `json:"memory"`
	CPU    CPUStats    `json:"cpu"`
	Disk   DiskStats   `json:"disk"`
}

// SystemMemory 读取系统内存信息。读取失败时返回零值而不是错误，
// 内存信息只作展示用途。
func SystemMemory(ctx context.Context) MemoryStats {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		g.Log().Warningf(ctx, "Failed to read system memory: %v", err)
		return MemoryStats{}
	}
	return MemoryStats{
		TotalGB:     roundGB(vm.Total),
		AvailableGB: roundGB(vm.Available),
		UsedGB:      roundGB(vm.Used),
		PercentUsed: round1(vm.UsedPercent),
	}
}

// SystemCPU 读取 CPU 信息。采样间隔一秒。
func SystemCPU(ctx context.Context) CPUStats {
	stats := CPUStats{}
	if physical, err := cpu.CountsWithContext(ctx, false); err == nil {
		stats.Cores = physical
	}
	if logical, err := cpu.CountsWithContext(ctx, true); err == nil {
		stats.LogicalCores = logical
	}
	if percents, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(percents) > 0 {
		stats.UsagePercent = round1(percents[0])
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		stats.LoadAverage = []float64{avg.Load1, avg.Load5, avg.Load15}
	}
	return stats
}

// SystemDisk 读取指定路径所在磁盘的空间信息
func SystemDisk(ctx context.Context, path string) DiskStats {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		g.Log().Warningf(ctx, "Failed to read disk usage for %s: %v", path, err)
		return DiskStats{}
	}
	return DiskStats{
		TotalGB:     roundGB(usage.Total),
		UsedGB:      roundGB(usage.Used),
		FreeGB:      roundGB(usage.Free),
		PercentUsed: round1(usage.UsedPercent),
	}
}

// Info 汇总完整的系统信息
func Info(ctx context.Context) SystemInfo {
	return SystemInfo{
		Memory: SystemMemory(ctx),
		CPU:    SystemCPU(ctx),
		Disk:   SystemDisk(ctx, "/"),
	}
}

func roundGB(bytes uint64) float64 {
	return math.Round(float64(bytes)/(1<<30)*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
