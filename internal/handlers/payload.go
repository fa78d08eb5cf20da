package handlers

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/validation"
)

type credentialsForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (f credentialsForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&f.Password, validation.Required),
	)
}

type postForm struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

func (f postForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Content, validation.Required),
	)
}

// bindForm decodes the urlencoded body into dst and validates it. On failure
// it returns a message fit for a flash.
func bindForm(c *gin.Context, dst validation.Validatable) (string, bool) {
	if err := c.ShouldBind(dst); err != nil {
		return msgInvalidForm, false
	}
	if err := dst.Validate(); err != nil {
		return formErrorMessage(err), false
	}
	return "", true
}

// formErrorMessage turns validation errors into "Title cannot be blank" style text.
func formErrorMessage(err error) string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return msgInvalidForm
	}
	parts := make([]string, 0, len(verrs))
	for _, field := range slices.Sorted(maps.Keys(verrs)) {
		name := field
		if name != "" {
			name = strings.ToUpper(name[:1]) + name[1:]
		}
		parts = append(parts, name+" "+verrs[field].Error())
	}
	return strings.Join(parts, "; ")
}
