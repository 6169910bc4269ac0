package request

import (
	"errors"
	"regexp"

	cErr "workforce/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var reg = regexp.MustCompile(`\[\d\]`)

// GetError 從請求和錯誤中獲取錯誤信息，只回傳第一個欄位錯誤
func GetError(request interface{}, err error) *cErr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return cErr.BadRequestBody("Parameter error")
	}

	v := verrs[0]
	field := reg.ReplaceAllString(v.Field(), ".*")
	if r, ok := request.(Validator); ok {
		if message, exist := r.GetMessages()[field+"."+v.Tag()]; exist {
			return cErr.Validation(field, message)
		}
	}
	return cErr.Validation(field, v.Error())
}
