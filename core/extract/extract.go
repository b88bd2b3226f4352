package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	document_url "github.com/cloudwego/eino-ext/components/document/loader/url"
	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/parser/xlsx"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"

	apperrors "github.com/Malowking/docchat/core/errors"
)

// 提取字符上限。超限内容被截断并追加可见的截断标记。
const (
	maxCharsDefault   = 500000
	maxCharsLargeFile = 100000
	maxCharsPDF       = 1000000
	largeFileBytes    = 5 * 1024 * 1024
	largeTextBytes    = 1 * 1024 * 1024

	truncatedMarker = "\n\n[Content truncated due to size limit]"
)

// supportedExtensions 可提取的文件类型
var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".txt":  {},
	".md":   {},
	".html": {},
	".htm":  {},
	".xlsx": {},
}

// Supported 判断文件类型是否可提取
func Supported(filename string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extractor 文档文本提取器。按扩展名分发到对应解析器，
// 无法识别的类型按纯文本读取。
type Extractor struct {
	fileLoader document.Loader
	urlLoader  document.Loader
}

// Default 全局提取器，Init 后可用
var Default *Extractor

// Init 初始化全局提取器
func Init(ctx context.Context) error {
	extractor, err := New(ctx)
	if err != nil {
		return err
	}
	Default = extractor
	g.Log().Info(ctx, "Document extractor initialized")
	return nil
}

// New 创建提取器
func New(ctx context.Context) (*Extractor, error) {
	parserInstance, err := newParser(ctx)
	if err != nil {
		return nil, err
	}

	fileLoader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: false,
		Parser:      parserInstance,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create file loader")
	}

	urlLoader, err := document_url.NewLoader(ctx, &document_url.LoaderConfig{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create url loader")
	}

	return &Extractor{
		fileLoader: fileLoader,
		urlLoader:  urlLoader,
	}, nil
}

// newParser 按扩展名组装解析器，未注册的扩展名回退为纯文本
func newParser(ctx context.Context) (parser.Parser, error) {
	pdfParser, err := pdf.NewPDFParser(ctx, &pdf.Config{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create pdf parser")
	}
	docxParser, err := docx.NewDocxParser(ctx, &docx.Config{
		ToSections:      false,
		IncludeComments: false,
		IncludeHeaders:  false,
		IncludeFooters:  false,
		IncludeTables:   true,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create docx parser")
	}
	htmlParser, err := html.NewParser(ctx, &html.Config{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create html parser")
	}
	xlsxParser, err := xlsx.NewXlsxParser(ctx, &xlsx.Config{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, "failed to create xlsx parser")
	}

	return parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers: map[string]parser.Parser{
			".pdf":  pdfParser,
			".docx": docxParser,
			".doc":  docxParser,
			".html": htmlParser,
			".htm":  htmlParser,
			".xlsx": xlsxParser,
		},
		FallbackParser: parser.TextParser{},
	})
}

// File 提取本地文件的文本内容，按文件大小施加字符上限
func (e *Extractor) File(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrFileReadFailed, err, "failed to stat file")
	}
	g.Log().Infof(ctx, "Extracting %s (%.2f MB)", filepath.Base(path), float64(info.Size())/(1024*1024))

	docs, err := e.fileLoader.Load(ctx, document.Source{URI: path})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, fmt.Sprintf("failed to extract %s", filepath.Base(path)))
	}

	text := joinDocuments(docs)
	text = truncateForFile(text, filepath.Ext(path), info.Size())
	text = CleanText(text)

	g.Log().Infof(ctx, "Extracted %d characters from %s", len(text), filepath.Base(path))
	return text, nil
}

// URL 抓取网页并提取正文文本
func (e *Extractor) URL(ctx context.Context, rawURL string) (string, error) {
	g.Log().Infof(ctx, "Extracting content from %s", rawURL)

	docs, err := e.urlLoader.Load(ctx, document.Source{URI: rawURL})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDocumentParseFailed, err, fmt.Sprintf("failed to fetch %s", rawURL))
	}

	text := joinDocuments(docs)
	text = truncate(text, maxCharsDefault, truncatedMarker)
	return CleanText(text), nil
}

// joinDocuments 合并多段解析结果，空段落丢弃
func joinDocuments(docs []*schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || strings.TrimSpace(doc.Content) == "" {
			continue
		}
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n")
}

// truncateForFile 返回按扩展名与文件大小截断后的文本
func truncateForFile(text, ext string, sizeBytes int64) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return truncate(text, maxCharsPDF, truncatedMarker)
	case ".txt":
		limit := maxCharsDefault
		if sizeBytes > largeTextBytes {
			limit = maxCharsLargeFile
		}
		return truncate(text, limit, fmt.Sprintf("\n[... File truncated at %d characters ...]", limit))
	default:
		limit := maxCharsDefault
		if sizeBytes > largeFileBytes {
			limit = maxCharsLargeFile
		}
		return truncate(text, limit, truncatedMarker)
	}
}

// truncate 在 limit 处截断并追加标记，截断点回退到字符边界
func truncate(text string, limit int, marker string) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + marker
}
