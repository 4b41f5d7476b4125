package storefront

import (
	"log/slog"
	"net/http"

	"florist/internal/catalog"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

type servicesPage struct {
	page
	QuoteOnly bool
	Services  []catalog.ServiceResponse
}

type servicePage struct {
	page
	Service *catalog.ServiceResponse
}

// Services lists the catalog; ?devis=1 keeps only quote-eligible services.
func (h *Handler) Services(c *gin.Context) {
	data := servicesPage{page: h.newPage(c, "Nos prestations"), QuoteOnly: c.Query("devis") == "1"}

	tarification := ""
	if data.QuoteOnly {
		tarification = catalog.TarificationOnQuote
		data.Title = "Prestations sur devis"
	}

	services, err := h.api.ListServices(c.Request.Context(), tarification)
	if err != nil {
		h.log.Error("Failed to list services", slog.Any("error", err))
		data.Banner = errorBanner(client.Message(err))
		services = nil
	}
	if data.QuoteOnly && err == nil {
		h.rememberQuoteServices(services)
	}
	data.Services = services

	h.views.render(c, http.StatusOK, "services.html", data)
}

func (h *Handler) ServiceDetail(c *gin.Context) {
	data := servicePage{page: h.newPage(c, "Prestation")}

	service, err := h.api.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		data.Banner = errorBanner(client.Message(err))
		h.views.render(c, http.StatusOK, "service.html", data)
		return
	}
	data.Service = service
	data.Title = service.Name

	h.views.render(c, http.StatusOK, "service.html", data)
}
