package storefront

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const bannerCookie = "florist_banner"

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "danger"
)

// Banner is a one-shot message shown at the top of the next page.
type Banner struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
}

// flashes carries a banner across a redirect through a short-lived cookie.
type flashes struct {
	ttl    time.Duration
	secure bool
}

func (f flashes) set(c *gin.Context, b Banner) {
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	maxAge := int(f.ttl / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(bannerCookie, base64.RawURLEncoding.EncodeToString(raw), maxAge, "/", "", f.secure, true)
}

// take reads and clears the pending banner.
func (f flashes) take(c *gin.Context) *Banner {
	value, err := c.Cookie(bannerCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(bannerCookie, "", -1, "/", "", f.secure, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var b Banner
	if err := json.Unmarshal(raw, &b); err != nil || b.Message == "" {
		return nil
	}
	return &b
}
