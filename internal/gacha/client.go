package gacha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/models"
)

// Client talks to the authenticated item management API.
type Client struct {
	http *httpx.Client
}

// NewClient wraps an httpx client bound to the API base URL
// (including the /api prefix).
func NewClient(h *httpx.Client) *Client {
	return &Client{http: h}
}

type loginResponse struct {
	// The server really does spell the field this way.
	AcessToken string `json:"acess_token"`
	Message    string `json:"message"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.http.PostJSON(ctx, "/login", body, &resp); err != nil {
		return "", err
	}
	if resp.AcessToken == "" {
		if resp.Message != "" {
			return "", errors.New(resp.Message)
		}
		return "", errors.New("login failed")
	}
	return resp.AcessToken, nil
}

// Register creates an account. The server may hand back a session
// token right away; the token is "" when it does not.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (token, message string, err error) {
	body := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}

	var resp loginResponse
	if err := c.http.PostJSON(ctx, "/registrar", body, &resp); err != nil {
		return "", "", err
	}
	return resp.AcessToken, resp.Message, nil
}

// List fetches every item. A response body that is not a well-formed
// collection is coerced to an empty one rather than surfaced as an
// error, so the list screen can always render.
func (c *Client) List(ctx context.Context) ([]models.GachaItem, error) {
	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, "/gacha-items", &raw); err != nil {
		return nil, err
	}

	var items []models.GachaItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return []models.GachaItem{}, nil
	}
	if items == nil {
		items = []models.GachaItem{}
	}
	return items, nil
}

// Create submits a new item: multipart when an image asset is
// attached, plain form fields otherwise. List fields go out as
// indexed parts (passivas[0], passivas[1], ...).
func (c *Client) Create(ctx context.Context, item models.GachaItem, asset *models.ImageAsset) error {
	if asset == nil {
		form := itemValues(item)
		return c.http.PostForm(ctx, "/gacha-items",
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), nil)
	}

	contentType, body, err := multipartBody(item, asset)
	if err != nil {
		return err
	}
	return c.http.PostForm(ctx, "/gacha-items", contentType, body, nil)
}

type updatePayload struct {
	models.GachaItem
	// Method override hint some backends expect alongside a PUT.
	Method string `json:"_method"`
}

// Update submits a full-record replacement for the given identifier.
func (c *Client) Update(ctx context.Context, id int, item models.GachaItem) error {
	item.ID = id
	payload := updatePayload{GachaItem: item, Method: "PUT"}
	return c.http.PutJSON(ctx, fmt.Sprintf("/gacha-items/%d", id), payload, nil)
}

// Remove deletes the record with the given identifier.
func (c *Client) Remove(ctx context.Context, id int) error {
	return c.http.Delete(ctx, fmt.Sprintf("/gacha-items/%d", id))
}

func itemValues(item models.GachaItem) url.Values {
	form := url.Values{}
	form.Set("nome", item.Name)
	form.Set("titulo", item.Title)
	form.Set("raridade", string(item.Rarity))
	form.Set("tipo", string(item.Kind))
	form.Set("descricao", item.Description)
	form.Set("taxa_drop", strconv.FormatFloat(item.DropRate, 'f', -1, 64))
	for i, p := range item.Passives {
		form.Set(fmt.Sprintf("passivas[%d]", i), p)
	}
	for i, a := range item.Abilities {
		form.Set(fmt.Sprintf("habilidades[%d]", i), a)
	}
	return form
}

func multipartBody(item models.GachaItem, asset *models.ImageAsset) (string, *bytes.Buffer, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, vals := range itemValues(item) {
		for _, v := range vals {
			if err := w.WriteField(key, v); err != nil {
				return "", nil, err
			}
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="imagem"; filename="%s"`, asset.Name))
	header.Set("Content-Type", imageMIME(asset.Name))
	part, err := w.CreatePart(header)
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(asset.Data); err != nil {
		return "", nil, err
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}

// imageMIME infers the content type from the file extension.
func imageMIME(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "":
		return "application/octet-stream"
	default:
		return "image/" + ext
	}
}
