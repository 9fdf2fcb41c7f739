package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// configureValidator makes validation errors report the wire names clients
// sent and registers the history beat checks.
func configureValidator() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		v.RegisterStructValidation(selectedIsOffered, historyBeat{})
	})
}

func validate(obj interface{}) error {
	return binding.Validator.ValidateStruct(obj)
}

func fieldErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Rule: "json", Message: err.Error()}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

// fieldPath drops the Go struct name from the namespace: history[0].storyText.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		if fe.Param() == "" {
			return "must be one of the beat's choices"
		}
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func abortValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, validationErrorResponse{
		Error:   "Validation failed",
		Details: fieldErrors(err),
	})
}
