package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1002 // 内部错误
	ErrNotFound         ErrCode = 1003 // 资源未找到
	ErrAlreadyExists    ErrCode = 1004 // 资源已存在
	ErrOperationFailed  ErrCode = 1005 // 操作失败

	// 推理引擎相关 2000-2999
	ErrEngineUnavailable  ErrCode = 2001 // 引擎不可用
	ErrEngineTimeout      ErrCode = 2002 // 引擎请求超时
	ErrModelNotFound      ErrCode = 2003 // 模型未找到
	ErrModelVerifyFailed  ErrCode = 2004 // 模型验证失败
	ErrModelPullFailed    ErrCode = 2005 // 模型拉取失败
	ErrGenerateFailed     ErrCode = 2006 // 文本生成失败
	ErrStreamingFailed    ErrCode = 2007 // 流式响应失败
	ErrModelListFailed    ErrCode = 2008 // 模型列表获取失败
	ErrModelDeleteFailed  ErrCode = 2009 // 模型删除失败
	ErrEngineNotConnected ErrCode = 2010 // 引擎未连接
	ErrCatalogFetchFailed ErrCode = 2011 // 模型目录抓取失败

	// 项目相关 3000-3999
	ErrProjectNotFound      ErrCode = 3001 // 项目未找到
	ErrProjectAlreadyExists ErrCode = 3002 // 项目已存在
	ErrProjectNameInvalid   ErrCode = 3003 // 项目名称非法
	ErrProjectCreateFailed  ErrCode = 3004 // 项目创建失败
	ErrProjectDeleteFailed  ErrCode = 3005 // 项目删除失败
	ErrProjectNotEmpty      ErrCode = 3006 // 项目非空

	// 文档相关 4000-4999
	ErrDocumentNotFound    ErrCode = 4001 // 文档未找到
	ErrDocumentParseFailed ErrCode = 4002 // 文档解析失败
	ErrFileAlreadyExists   ErrCode = 4003 // 文件已存在
	ErrFileSizeExceeded    ErrCode = 4004 // 文件大小超限
	ErrFileUploadFailed    ErrCode = 4005 // 文件上传失败
	ErrFileDeleteFailed    ErrCode = 4006 // 文件删除失败
	ErrFileReadFailed      ErrCode = 4007 // 文件读取失败
	ErrFileTypeUnsupported ErrCode = 4008 // 文件类型不支持
	ErrDocumentNotReady    ErrCode = 4009 // 文档尚未处理完成

	// 对象存储相关 5000-5999
	ErrStorageInit     ErrCode = 5001 // 存储初始化失败
	ErrStorageUpload   ErrCode = 5002 // 存储上传失败
	ErrStorageDownload ErrCode = 5003 // 存储下载失败
	ErrStorageDelete   ErrCode = 5004 // 存储删除失败

	// 对话相关 7000-7999
	ErrConversationNotFound ErrCode = 7001 // 对话未找到
	ErrChatFailed           ErrCode = 7002 // 聊天失败
	ErrChatTimeout          ErrCode = 7003 // 聊天超时
	ErrShareTokenNotFound   ErrCode = 7004 // 分享链接未找到
	ErrHistorySaveFailed    ErrCode = 7005 // 历史保存失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch {
	case e >= 1001 && e <= 1999:
		// 通用错误
		switch e {
		case ErrInvalidParameter:
			return 400
		case ErrNotFound:
			return 404
		case ErrAlreadyExists:
			return 409
		default:
			return 500
		}
	case e >= 2000 && e <= 2999:
		// 推理引擎相关错误
		switch e {
		case ErrEngineUnavailable, ErrEngineNotConnected, ErrCatalogFetchFailed:
			return 503
		case ErrEngineTimeout:
			return 504
		case ErrModelNotFound:
			return 404
		default:
			return 500
		}
	case e >= 3000 && e <= 3999:
		// 项目相关错误
		switch e {
		case ErrProjectNotFound:
			return 404
		case ErrProjectAlreadyExists:
			return 409
		case ErrProjectNameInvalid, ErrProjectNotEmpty:
			return 400
		default:
			return 500
		}
	case e >= 4000 && e <= 4999:
		// 文档相关错误
		switch e {
		case ErrDocumentNotFound:
			return 404
		case ErrFileAlreadyExists:
			return 409
		case ErrFileSizeExceeded:
			return 413
		case ErrFileTypeUnsupported:
			return 400
		default:
			return 500
		}
	case e >= 7000 && e <= 7999:
		// 对话相关错误
		switch e {
		case ErrConversationNotFound, ErrShareTokenNotFound:
			return 404
		case ErrChatTimeout:
			return 504
		default:
			return 500
		}
	default:
		return 500
	}
}
