// Package forms decodes and validates the HTML forms posted by the site.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/AnshRaj112/feedback-notes/pkg/utils"
)

type RegisterForm struct {
	Username  string `schema:"username" validate:"required,username"`
	Password  string `schema:"password" validate:"required,max=128"`
	Email     string `schema:"email" validate:"required,email,max=50"`
	FirstName string `schema:"first_name" validate:"required,max=30"`
	LastName  string `schema:"last_name" validate:"required,max=30"`
}

type LoginForm struct {
	Username string `schema:"username" validate:"required,max=20"`
	Password string `schema:"password" validate:"required,max=128"`
}

type FeedbackForm struct {
	Title   string `schema:"title" validate:"required,max=100"`
	Content string `schema:"content" validate:"required"`
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

var (
	decoder = newDecoder()

	validateOnce sync.Once
	validate     *validator.Validate
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// report fields by their form name
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return utils.ValidateUsername(fl.Field().String()) == nil
		})
	})
	return validate
}

// Decode parses the request body into dst and trims surrounding whitespace
// from every field except passwords.
func Decode(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return err
	}
	trimStrings(dst)
	return nil
}

func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() || t.Field(i).Name == "Password" {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}

// Validate checks form against its validate tags. It returns nil when the form is valid.
func Validate(form interface{}) Errors {
	err := validatorInstance().Struct(form)
	if err == nil {
		return nil
	}

	errs := Errors{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("form", "Invalid form submission.")
		return errs
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "username":
		var ve *utils.ValidationError
		if err := utils.ValidateUsername(fmt.Sprint(fe.Value())); errors.As(err, &ve) {
			return ve.Message + "."
		}
	}
	return "Invalid value."
}
