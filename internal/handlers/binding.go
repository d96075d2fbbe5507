package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/dailydo-api/internal/errors"
)

// respondBindError answers a failed bind of req with 400. Validation
// failures are listed in details as json field name -> failed rule.
func respondBindError(c *gin.Context, req interface{}, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		details[jsonFieldName(req, fe.StructField())] = fe.Tag()
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}

func jsonFieldName(req interface{}, structField string) string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return structField
	}
	return name
}
