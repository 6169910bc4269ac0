package validate

import (
	"reflect"
	"strings"

	"workforce/internal/pkg/request"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterMongoIDValidator 註冊 `mongodb` tag，空字串交給 required/omitempty 處理
func RegisterMongoIDValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("mongodb", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			return s == "" || primitive.IsValidObjectID(s)
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// BindOptionalJSON 綁定可有可無的 JSON body（DELETE 搭配 reassignTo）
func BindOptionalJSON(c *gin.Context, req any) (cause error, responseErr error) {
	if c.Request.ContentLength != 0 && c.Request.Body != nil {
		if err := c.ShouldBindJSON(req); err != nil {
			return err, request.GetError(req, err)
		}
		return nil, nil
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return err, request.GetError(req, err)
	}
	return nil, nil
}

func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return err, request.GetError(req, err)
	}
	return nil, nil
}
