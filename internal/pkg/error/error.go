package error

import (
	"errors"
	"net/http"
)

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
	field     string
	details   []any
	cause     error
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

// From 將任意 error 轉成 *Error，包裝過的也會被找出來
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalServer(err.Error()).Wrap(err)
}

// Is 只比對 reason，讓 errors.Is(err, cErr.NotFound("")) 這種寫法可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.errorMsg == t.errorMsg
}

func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) WithField(field string) *Error {
	e.field = field
	return e
}

func (e *Error) WithDetails(details ...any) *Error {
	e.details = append(e.details, details...)
	return e
}

// ✅ 用戶端錯誤 (400 系列)
func Validation(field, errorDesc string) *Error {
	return New(http.StatusBadRequest, VALIDATION_FAILED, ReasonValidation, errorDesc).WithField(field)
}

func BadRequest(errorDesc string, errorCode ...int) *Error {
	errCode := BAD_REQUEST_BODY
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusBadRequest, errCode, ReasonBadRequest, errorDesc)
}

func BadRequestBody(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, ReasonBadRequest, errorDesc)
}

func BadRequestParams(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, ReasonBadRequest, errorDesc)
}

// ✅ 權限錯誤 (401, 403)
func Unauthorized(errorDesc string, errorCode ...int) *Error {
	errCode := UNAUTHORIZED
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusUnauthorized, errCode, ReasonUnauthorized, errorDesc)
}

func InvalidSession(errorDesc string) *Error {
	return New(http.StatusUnauthorized, INVALID_SESSION, ReasonUnauthorized, errorDesc)
}

func Forbidden(errorDesc string) *Error {
	return New(http.StatusForbidden, FORBIDDEN, ReasonForbidden, errorDesc)
}

// ✅ 資源找不到 (404)
func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, ReasonNotFound, errorDesc)
}

// ✅ 衝突 (409)，details[0] 為各類相依資料的筆數
func DependentRecords(errorDesc string, breakdown map[string]any) *Error {
	return New(http.StatusConflict, DEPENDENT_RECORDS_EXIST, ReasonDependentRecords, errorDesc).WithDetails(breakdown)
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, ReasonInternal, errorDesc)
}

func DatabaseError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, ReasonDatabase, errorDesc)
}

func DeleteFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DELETE_NOT_APPLIED, ReasonDeleteFailed, errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, ReasonServiceUnavailable, errorDesc)
}

// ✅ 外部 API 錯誤 (502, 504)
func ExternalRequestError(errorDesc string) *Error {
	return New(http.StatusBadGateway, EXTERNAL_REQUEST_ERROR, ReasonExternalRequest, errorDesc)
}

// 本地交易已 commit，但身分帳號刪除失敗；result 放在 details[0]
func IdentityCleanupPending(errorDesc string, result any, cause error) *Error {
	return New(http.StatusBadGateway, IDENTITY_CLEANUP_DELAYED, ReasonIdentityCleanupPending, errorDesc).
		WithDetails(result).
		Wrap(cause)
}

func GatewayTimeout(errorDesc string) *Error {
	return New(http.StatusGatewayTimeout, GATEWAY_TIMEOUT, ReasonGatewayTimeout, errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}

func (e *Error) ErrorDesc() string {
	return e.errorDesc
}

func (e *Error) Reason() string {
	return e.errorMsg
}

func (e *Error) Field() string {
	return e.field
}

func (e *Error) Details() []any {
	return e.details
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Error() string {
	return e.errorMsg
}

func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusUnauthorized:
		return Unauthorized(desc)
	case http.StatusForbidden:
		return Forbidden(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	case http.StatusGatewayTimeout:
		return GatewayTimeout(desc)
	default:
		return InternalServer(desc)
	}
}
