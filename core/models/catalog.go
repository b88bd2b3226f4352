package models

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gcache"

	"github.com/Malowking/docchat/core/config"
	apperrors "github.com/Malowking/docchat/core/errors"
)

const (
	catalogCacheKey  = "available_models"
	libraryUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// catalogVariants 为每个基础模型补充的常见规格
var catalogVariants = []string{"latest", "7b", "13b", "70b", "1b", "3b", "instruct"}

// modelFamilies 文本兜底抓取时识别的模型族关键词
var modelFamilies = []string{"llama", "mistral", "gemma", "phi", "qwen", "codestral"}

// Catalog 远端模型目录。目录页抓取结果带 TTL 缓存，
// 拉取新模型后缓存会被主动失效。
type Catalog struct {
	libraryURL string
	ttl        time.Duration
	httpClient *http.Client
	cache      *gcache.Cache
}

// NewCatalog 创建模型目录
func NewCatalog(cfg config.ModelsConfig) *Catalog {
	return &Catalog{
		libraryURL: cfg.LibraryURL,
		ttl:        cfg.CacheTTL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      gcache.New(),
	}
}

// Remote 返回可下载的远端模型列表，优先使用缓存
func (c *Catalog) Remote(ctx context.Context) ([]string, error) {
	if cached, err := c.cache.Get(ctx, catalogCacheKey); err == nil && cached != nil && !cached.IsNil() {
		return cached.Strings(), nil
	}

	models, err := c.fetchLibrary(ctx)
	if err != nil {
		return nil, err
	}
	sortModels(models)

	if err := c.cache.Set(ctx, catalogCacheKey, models, c.ttl); err != nil {
		g.Log().Warningf(ctx, "Failed to cache model catalog: %v", err)
	}
	return models, nil
}

// Invalidate 清除目录缓存，下次请求会重新抓取
func (c *Catalog) Invalidate(ctx context.Context) {
	if _, err := c.cache.Remove(ctx, catalogCacheKey); err != nil {
		g.Log().Warningf(ctx, "Failed to invalidate model catalog cache: %v", err)
	}
}

// fetchLibrary 抓取模型库页面并展开规格变体
func (c *Catalog) fetchLibrary(ctx context.Context) ([]string, error) {
	g.Log().Infof(ctx, "Fetching models from %s", c.libraryURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.libraryURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCatalogFetchFailed, err, "failed to build library request")
	}
	req.Header.Set("User-Agent", libraryUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCatalogFetchFailed, err, "network error while fetching model library")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.ErrCatalogFetchFailed, "model library returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCatalogFetchFailed, err, "failed to parse model library page")
	}

	bases := make(map[string]struct{})

	// 模型卡片链接形如 /library/<name>
	doc.Find(`a[href^="/library/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.Count(href, "/") != 2 {
			return
		}
		name := href[strings.LastIndex(href, "/")+1:]
		if name == "" || strings.ContainsAny(name, ":?#") {
			return
		}
		bases[name] = struct{}{}
	})

	// 兜底：从文本节点里识别常见模型族，页面结构变化时仍有产出
	doc.Find("span, div, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if !containsAny(text, modelFamilies...) {
			return
		}
		for _, word := range strings.Fields(text) {
			if !containsAny(word, modelFamilies...) {
				continue
			}
			clean := strings.Trim(word, ".,!?()[]{}")
			if len(clean) > 2 {
				bases[clean] = struct{}{}
			}
		}
	})

	if len(bases) == 0 {
		return nil, apperrors.New(apperrors.ErrCatalogFetchFailed, "no models found on library page")
	}
	g.Log().Infof(ctx, "Found %d base models in library", len(bases))

	models := make([]string, 0, len(bases)*(len(catalogVariants)+1))
	for base := range bases {
		models = append(models, base)
		for _, variant := range catalogVariants {
			models = append(models, base+":"+variant)
		}
	}
	return models, nil
}

// sortModels 按 (基础名, 数字规格, 变体名) 排序
func sortModels(models []string) {
	sort.Slice(models, func(i, j int) bool {
		baseI, sizeI, variantI := catalogSortKey(models[i])
		baseJ, sizeJ, variantJ := catalogSortKey(models[j])
		if baseI != baseJ {
			return baseI < baseJ
		}
		if sizeI != sizeJ {
			return sizeI < sizeJ
		}
		return variantI < variantJ
	})
}

func catalogSortKey(model string) (string, float64, string) {
	base, variant, found := strings.Cut(model, ":")
	if !found {
		return strings.ToLower(model), 0, ""
	}
	return strings.ToLower(base), numericSize(variant), variant
}

// numericSize 解析 "7b"、"1.1b" 这类规格里的数字，无数字时返回 0
func numericSize(variant string) float64 {
	stripped := strings.ReplaceAll(variant, "b", "")
	check := strings.ReplaceAll(stripped, ".", "")
	if check == "" || !isDigits(check) {
		return 0
	}
	parsed, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
