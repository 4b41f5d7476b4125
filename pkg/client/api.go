package client

import (
	"context"
	"net/http"
	"net/url"

	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/notifications"
	"florist/internal/reservations"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for an access token at the identity backend.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var out loginResponse
	if _, err := c.doJSON(ctx, http.MethodPost, c.LoginURL, "", req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{StatusCode: http.StatusBadGateway}
	}
	return out.AccessToken, nil
}

// ListServices lists available services; tarification may be "" or a label such as "Sur devis".
func (c *Client) ListServices(ctx context.Context, tarification string) ([]catalog.ServiceResponse, error) {
	query := url.Values{}
	if tarification != "" {
		query.Set("tarification", tarification)
	}
	var out catalog.ServiceListResponse
	if _, err := c.doJSON(ctx, http.MethodGet, c.url("/services", query), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*catalog.ServiceResponse, error) {
	var out catalog.ServiceResponse
	if _, err := c.doJSON(ctx, http.MethodGet, c.url("/services/"+url.PathEscape(id), nil), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReservation returns the created reservation and the backend's confirmation message.
func (c *Client) CreateReservation(ctx context.Context, token string, req reservations.CreateReservationRequest) (*reservations.ReservationResponse, string, error) {
	var out reservations.ReservationResponse
	msg, err := c.doJSON(ctx, http.MethodPost, c.url("/reservations", nil), token, req, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, msg, nil
}

func (c *Client) CancelReservation(ctx context.Context, token, id string) (string, error) {
	return c.doJSON(ctx, http.MethodPost, c.url("/reservations/"+url.PathEscape(id)+"/cancel", nil), token, nil, nil)
}

func (c *Client) ListReservations(ctx context.Context, token string) ([]reservations.ReservationResponse, error) {
	var out reservations.ReservationListResponse
	if _, err := c.doJSON(ctx, http.MethodGet, c.url("/users/reservations", nil), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Reservations, nil
}

func (c *Client) CreateDiscussion(ctx context.Context, token string, req discussions.CreateDiscussionRequest) (*discussions.DiscussionResponse, string, error) {
	var out discussions.DiscussionResponse
	msg, err := c.doJSON(ctx, http.MethodPost, c.url("/discussions", nil), token, req, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, msg, nil
}

func (c *Client) ListDiscussions(ctx context.Context, token string) ([]discussions.DiscussionResponse, error) {
	var out discussions.DiscussionListResponse
	if _, err := c.doJSON(ctx, http.MethodGet, c.url("/users/discussions", nil), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Discussions, nil
}

// FinalizeDiscussion sends valider or annuler for a discussion awaiting the client.
func (c *Client) FinalizeDiscussion(ctx context.Context, token, id string, action discussions.Action) (*discussions.FinalizeResponse, string, error) {
	var out discussions.FinalizeResponse
	msg, err := c.doJSON(ctx, http.MethodPost, c.url("/discussions/"+url.PathEscape(id)+"/finalize", nil), token,
		discussions.FinalizeRequest{Action: action}, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, msg, nil
}

func (c *Client) ListNotifications(ctx context.Context, token string) ([]notifications.Notification, error) {
	var out notifications.NotificationListResponse
	if _, err := c.doJSON(ctx, http.MethodGet, c.url("/users/notifications", nil), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}
