package providers

import (
	"auroscope/internal/structures"
	"fmt"
	"net/url"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	u, err := url.ParseRequestURI(cv.conf.NocoDB.Url)
	if err != nil || u.Host == "" {
		return fmt.Errorf("nocodb.url must be an absolute URL, got %q", cv.conf.NocoDB.Url)
	}

	if _, err := time.Parse("15:04", cv.conf.Schedule.Time); err != nil {
		return fmt.Errorf("schedule.time must be HH:MM, got %q", cv.conf.Schedule.Time)
	}

	if cv.conf.NocoDB.PageSize < 0 {
		return fmt.Errorf("nocodb.pageSize must not be negative")
	}

	return nil
}
