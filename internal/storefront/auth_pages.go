package storefront

import (
	"net/http"
	"strings"

	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

type loginPage struct {
	page
	Email    string
	Redirect string
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Redirect string `form:"redirect"`
}

func (h *Handler) LoginForm(c *gin.Context) {
	data := loginPage{page: h.newPage(c, "Connexion"), Redirect: SanitizeRedirect(c.Query("redirect"))}
	h.views.render(c, http.StatusOK, "login.html", data)
}

// Login forwards the credentials to the identity backend and stores the token.
func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	_ = c.ShouldBind(&form)
	form.Email = strings.TrimSpace(form.Email)

	data := loginPage{
		page:     h.newPage(c, "Connexion"),
		Email:    form.Email,
		Redirect: SanitizeRedirect(form.Redirect),
	}

	if err := h.forms.validate.Struct(form); err != nil {
		data.Banner = errorBanner("Veuillez saisir un email et un mot de passe valides.")
		h.views.render(c, http.StatusBadRequest, "login.html", data)
		return
	}

	token, err := h.api.Login(c.Request.Context(), client.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		data.Banner = errorBanner(client.Message(err))
		h.views.render(c, statusFor(err), "login.html", data)
		return
	}

	h.sessions(c).Set(token)
	c.Redirect(http.StatusSeeOther, data.Redirect)
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions(c).Clear()
	c.Redirect(http.StatusSeeOther, "/services")
}
