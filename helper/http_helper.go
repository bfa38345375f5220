package helper

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/rs/zerolog/log"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

// HTTPHelper owns response shaping: the uniform error envelope, the
// paginated list envelope, and DTO validation with translated messages.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

func NewHTTPHelper() *HTTPHelper {
	validate := validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// ValidateStruct runs the DTO validators and returns a ValidationError
// with per-field messages, or nil.
func (u *HTTPHelper) ValidateStruct(req interface{}) *models.APIError {
	if err := u.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := map[string][]string{}
			translations := verrs.Translate(u.Translator)
			for _, ferr := range verrs {
				key := Underscore(ferr.StructField())
				fields[key] = append(fields[key], translations[ferr.Namespace()])
			}
			return models.NewValidationError(fields)
		}
		return models.NewFieldError("non_field_errors", err.Error())
	}
	return nil
}

// SendError emits any error through the uniform envelope, translating
// persistence errors into their API classes.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	apiErr := repositories.TranslateError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
	}
	body := gin.H{
		"status_code": apiErr.StatusCode,
		"error_type":  apiErr.ErrorType,
	}
	if apiErr.Fields != nil {
		body["errors"] = apiErr.Fields
	} else {
		body["detail"] = apiErr.Detail
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		// The raw error stays in the log line only; it can carry DSNs
		// or SQL fragments.
		body["message"] = "unexpected server error"
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, body)
}

// SendData writes a success payload.
func (u *HTTPHelper) SendData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// SendList writes the paginated list envelope with absolute next and
// previous page URLs preserving all other query parameters.
func (u *HTTPHelper) SendList(c *gin.Context, page, pageSize int, count int64, results interface{}) {
	var next, previous interface{}
	if int64(page*pageSize) < count {
		next = u.PageURL(c, page+1)
	}
	if page > 1 {
		previous = u.PageURL(c, page-1)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

// PageURL rebuilds the request URL with the page parameter swapped.
func (u *HTTPHelper) PageURL(c *gin.Context, page int) string {
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))
	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// ParseID reads a path parameter as a record identifier.
func (u *HTTPHelper) ParseID(c *gin.Context, name string) (uint, *models.APIError) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, models.NewNotFound("Not found.")
	}
	return uint(id), nil
}
