package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

// Response is the envelope every endpoint returns. Code mirrors the HTTP
// status.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func init() {
	// Report binding errors under the json field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Validate the wrapped value of nullable fields.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			switch o := field.Interface().(type) {
			case types.Optional[int]:
				return o.Validatable()
			case types.Optional[string]:
				return o.Validatable()
			}
			return nil
		}, types.Optional[int]{}, types.Optional[string]{})
	}
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func ok(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func created(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

// respondError maps service errors onto the envelope. Anything unrecognized is
// attached to the context for the request logger and reported as a 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		message := verr.Message
		if message == "" {
			message = "validation failed"
		}
		var data interface{}
		if len(verr.Fields) > 0 {
			data = verr.Fields
		}
		respond(c, http.StatusBadRequest, message, data)
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		respond(c, http.StatusForbidden, service.ErrForbidden.Error(), nil)
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		respond(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrConflict):
		respond(c, http.StatusConflict, service.ErrConflict.Error(), nil)
	default:
		_ = c.Error(err)
		respond(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindJSON decodes the body into obj and writes a 400 on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return &service.ValidationError{Message: "validation failed", Fields: fields}
	}
	return service.Invalid("malformed request body: %v", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "url":
		return "enter a valid URL"
	case "eqfield":
		return "the two password fields didn't match"
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	case "datetime":
		return "date has wrong format, use YYYY-MM-DD"
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "no more than"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("ensure this field has %s %s characters", bound, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("ensure this list has %s %s items", bound, fe.Param())
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}

// pathID parses a uuid route parameter. Malformed ids cannot name a row, so
// they are reported as not found.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respond(c, http.StatusNotFound, "not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func principal(c *gin.Context) *types.Principal {
	return middleware.GetPrincipal(c)
}
