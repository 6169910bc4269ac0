package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY    = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS  = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS = 40002 // 400 - 無效的請求標頭
	VALIDATION_FAILED   = 40003 // 400 - 欄位驗證失敗 (reassignTo 等)

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED    = 40100 // 401 - 未授權
	INVALID_SESSION = 40101 // 401 - 會話失效
	FORBIDDEN       = 40301 // 403 - 禁止訪問

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 40900 ~ 40999: 資源衝突 (409 系列)
	DEPENDENT_RECORDS_EXIST = 40900 // 409 - 仍有相依資料，需要指定 reassignTo

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	DATABASE_ERROR      = 50001 // 500 - 資料庫錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)
	DELETE_NOT_APPLIED  = 50003 // 500 - 刪除主文件時沒有任何文件被刪除

	// 50200 ~ 50499: 外部請求錯誤 (502 504 系列)
	EXTERNAL_REQUEST_ERROR   = 50200 // 502 - 外部 API 請求錯誤
	IDENTITY_CLEANUP_DELAYED = 50202 // 502 - 身分帳號刪除失敗，已排入 outbox
	GATEWAY_TIMEOUT          = 50400 // 504 - 外部 API 超時
)

// reason 字串，回應 body 的 message 欄位直接使用
const (
	ReasonNotFound               = "NOT_FOUND"
	ReasonForbidden              = "FORBIDDEN"
	ReasonDependentRecords       = "DEPENDENT_RECORDS"
	ReasonValidation             = "VALIDATION_ERROR"
	ReasonDeleteFailed           = "DELETE_FAILED"
	ReasonIdentityCleanupPending = "IDENTITY_CLEANUP_PENDING"
	ReasonDatabase               = "DATABASE_ERROR"
	ReasonInternal               = "INTERNAL_ERROR"
	ReasonBadRequest             = "BAD_REQUEST"
	ReasonUnauthorized           = "UNAUTHORIZED"
	ReasonServiceUnavailable     = "SERVICE_UNAVAILABLE"
	ReasonExternalRequest        = "EXTERNAL_REQUEST_FAILED"
	ReasonGatewayTimeout         = "GATEWAY_TIMEOUT"
)
