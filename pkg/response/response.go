package response

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"

	"alert-srv/pkg/discord"
	"alert-srv/pkg/errors"

	"github.com/gin-gonic/gin"
)

func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, NewOKResp(data))
}

func Unauthorized(c *gin.Context) {
	HttpError(c, errors.NewUnauthorizedHTTPError())
}

func Forbidden(c *gin.Context) {
	HttpError(c, errors.NewForbiddenHTTPError())
}

func parseError(err error, c *gin.Context, d discord.IDiscord) (int, Resp) {
	var (
		ve *errors.ValidationError
		vc *errors.ValidationErrorCollector
		he *errors.HTTPError
	)
	switch {
	case stderrors.As(err, &ve):
		return http.StatusBadRequest, Resp{
			ErrorCode: ve.Code,
			Message:   ve.Error(),
			Errors:    []*errors.ValidationError{ve},
		}
	case stderrors.As(err, &vc):
		return http.StatusBadRequest, Resp{
			ErrorCode: ValidationErrorCode,
			Message:   ValidationErrorMsg,
			Errors:    vc.Errors(),
		}
	case stderrors.As(err, &he):
		statusCode := he.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusBadRequest
		}
		return statusCode, Resp{
			ErrorCode: he.Code,
			Message:   he.Message,
		}
	default:
		if d != nil && err != nil {
			sendDiscordMessageAsync(d, buildInternalServerErrorDataForReportBug(c, err.Error(), captureStackTrace()))
		}
		return http.StatusInternalServerError, Resp{
			ErrorCode: InternalServerErrorCode,
			Message:   DefaultErrorMessage,
		}
	}
}

// Error writes the response for err. Unknown errors become 500 and are reported to d when set.
func Error(c *gin.Context, err error, d discord.IDiscord) {
	statusCode, resp := parseError(err, c, d)
	c.JSON(statusCode, resp)
}

func HttpError(c *gin.Context, err *errors.HTTPError) {
	statusCode, resp := parseError(err, c, nil)
	c.JSON(statusCode, resp)
}

// ErrorWithMap looks err up in eMap (unwrapping) before falling back to Error.
func ErrorWithMap(c *gin.Context, err error, eMap ErrorMapping, d discord.IDiscord) {
	for target, httpErr := range eMap {
		if stderrors.Is(err, target) {
			HttpError(c, httpErr)
			return
		}
	}
	Error(c, err, d)
}

// PanicError writes a 500 for a recovered panic value.
func PanicError(c *gin.Context, rec any, d discord.IDiscord) {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}
	statusCode, resp := parseError(err, c, d)
	c.JSON(statusCode, resp)
}

func captureStackTrace() []string {
	var pcs [DefaultStackTraceDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	var stackTrace []string
	for {
		f, more := frames.Next()
		stackTrace = append(stackTrace, fmt.Sprintf("%s:%d %s", f.File, f.Line, f.Function))
		if !more {
			break
		}
	}
	return stackTrace
}
