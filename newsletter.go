package blog

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pagrico/blog/internal/logger"
)

// Newsletter form outcomes, shown once on the page the visitor returns to.
const (
	newsletterOK      = "ok"
	newsletterExists  = "exists"
	newsletterInvalid = "invalid"
	newsletterLimited = "limited"
)

var validate = validator.New()

type signup struct {
	Email string `validate:"required,email,max=254"`
}

func (a *App) handleNewsletter(c echo.Context) error {
	back := returnPath(c)
	in := signup{Email: normalizeEmail(c.FormValue("email"))}

	status := newsletterOK
	switch {
	case !a.newsletterLimiter.Allow(c.RealIP()):
		status = newsletterLimited
	case validate.Struct(in) != nil:
		status = newsletterInvalid
	default:
		created, err := a.Store.Subscribe(in.Email, back)
		if err != nil {
			return err
		}
		if !created {
			status = newsletterExists
		} else {
			logger.InfoWithFields("newsletter signup", logger.Fields{"source": back})
		}
	}
	if err := setFlash(c, status); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, back+"#newsletter")
}

func (a *App) handleUnsubscribe(c echo.Context) error {
	removed, err := a.Store.Unsubscribe(c.Param("token"))
	if err != nil {
		return err
	}
	if !removed {
		return c.String(http.StatusNotFound, "Inscrição não encontrada.")
	}
	return c.String(http.StatusOK, "Inscrição cancelada.")
}

// returnPath is the same-site page the form was posted from, or "/".
func returnPath(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Host != c.Request().Host || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
