package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/Malowking/docchat/core/config"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/net/ghttp"
)

const (
	contentTypeEventStream  = "text/event-stream"
	contentTypeOctetStream  = "application/octet-stream"
	contentTypeMixedReplace = "multipart/x-mixed-replace"
)

var (
	// streamContentType is the content types for stream response.
	streamContentType = []string{contentTypeEventStream, contentTypeOctetStream, contentTypeMixedReplace}
)

// MiddlewareUploadLimit 按 docs.maxFileSizeMb 限制 multipart 上传的请求体大小
func MiddlewareUploadLimit(r *ghttp.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		r.Middleware.Next()
		return
	}

	maxSizeMB := config.Docs(r.Context()).MaxFileSizeMB
	if err := r.ParseMultipartForm(maxSizeMB << 20); err != nil {
		r.Response.WriteHeader(http.StatusRequestEntityTooLarge)
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    int(apperrors.ErrFileSizeExceeded),
			Message: fmt.Sprintf("File size exceeds the upload limit (%dMB)", maxSizeMB),
			Data:    nil,
		})
		return
	}

	r.Middleware.Next()
}

// MiddlewareHandlerResponse is the default middleware handling handler response object and its error.
// 业务错误转换为对应的 HTTP 状态码与业务码，流式响应不做包装。
func MiddlewareHandlerResponse(r *ghttp.Request) {
	r.Middleware.Next()

	// There's custom buffer content, it then exits current handler.
	if r.Response.BufferLength() > 0 || r.Response.Writer.BytesWritten() > 0 {
		return
	}

	// It does not output common response content if it is stream response.
	mediaType, _, _ := mime.ParseMediaType(r.Response.Header().Get("Content-Type"))
	for _, ct := range streamContentType {
		if mediaType == ct {
			return
		}
	}

	var (
		err = r.GetError()
		res = r.GetHandlerResponse()
	)
	if err == nil {
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    gcode.CodeOK.Code(),
			Message: gcode.CodeOK.Message(),
			Data:    res,
		})
		return
	}

	var (
		bizCode int
		status  int
		msg     = err.Error()
	)
	if appErr := apperrors.GetAppError(err); appErr != nil {
		bizCode = int(appErr.Code)
		status = appErr.Code.HTTPStatusCode()
		msg = appErr.Message
	} else {
		switch gerror.Code(err) {
		case gcode.CodeValidationFailed, gcode.CodeMissingParameter, gcode.CodeInvalidParameter:
			bizCode = int(apperrors.ErrInvalidParameter)
			status = http.StatusBadRequest
		default:
			bizCode = int(apperrors.ErrInternalError)
			status = http.StatusInternalServerError
		}
	}
	r.Response.WriteHeader(status)
	r.Response.WriteJson(ghttp.DefaultHandlerResponse{
		Code:    bizCode,
		Message: msg,
		Data:    nil,
	})
}
