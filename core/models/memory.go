package models

import (
	"strings"
)

// MemoryInfo 单个模型的内存需求估算
type MemoryInfo struct {
	Model          string `json:"model"`
	EstimatedRAMGB int    `json:"estimated_ram_gb"`
	Category       string `json:"category"`
}

// sizeRequirement 规格标签到内存需求（GB）的映射项
type sizeRequirement struct {
	tag string
	gb  int
}

// sizeRequirements 按规格标签估算内存，长标签在前，避免 "3b" 抢先
// 匹配到 "13b" 这类带子串的规格。
var sizeRequirements = []sizeRequirement{
	{"405b", 450},
	{"1.1b", 2},
	{"2.7b", 4},
	{"11b", 12},
	{"13b", 14},
	{"14b", 15},
	{"22b", 24},
	{"27b", 30},
	{"33b", 36},
	{"34b", 38},
	{"70b", 80},
	{"72b", 82},
	{"1b", 2},
	{"2b", 3},
	{"3b", 4},
	{"7b", 8},
	{"8b", 9},
	{"9b", 10},
	{"mini", 2},
	{"instruct", 8},
	{"latest", 8},
	{"code", 15},
}

// EstimateMemory 根据模型名估算运行所需内存。规格标签优先，
// 无法识别时按模型族推断，最终附加 20% 的运行开销。
func EstimateMemory(model string) MemoryInfo {
	lower := strings.ToLower(model)
	base, variant, _ := strings.Cut(lower, ":")

	gb := 0
	for _, req := range sizeRequirements {
		if strings.Contains(variant, req.tag) {
			gb = req.gb
			break
		}
	}
	if gb == 0 {
		gb = inferFromFamily(base)
	}
	gb = int(float64(gb) * 1.2)

	return MemoryInfo{
		Model:          model,
		EstimatedRAMGB: gb,
		Category:       Categorize(gb),
	}
}

// inferFromFamily 按模型族给出基准内存需求
func inferFromFamily(base string) int {
	switch {
	case containsAny(base, "tinyllama", "phi"):
		return 3
	case containsAny(base, "llama3.2", "gemma", "mistral"):
		return 8
	case containsAny(base, "mixtral", "qwen2"):
		return 12
	case containsAny(base, "codellama", "deepseek"):
		return 15
	}
	return 8
}

// Categorize 按所需内存划分模型规模档位
func Categorize(gb int) string {
	switch {
	case gb <= 4:
		return "Small (up to 4GB)"
	case gb <= 16:
		return "Medium (4-16GB)"
	case gb <= 64:
		return "Large (16-64GB)"
	}
	return "Extra Large (64GB+)"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
