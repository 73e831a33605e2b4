package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

// selectColumns задает встраиваемые связи для каждой таблицы
var selectColumns = map[Entity]string{
	EntityTrees:   "*,species:species_master(id,name),client:clients(id,name)",
	EntitySpecies: "*",
	EntityClients: "*",
}

// Client представляет HTTP клиент PostgREST-совместимого сервера
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ Gateway = (*Client)(nil)

// NewClient создает новый клиент
// baseURL указывается без /rest/v1, apiKey может быть пустым
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем ключ при редиректе
				if len(via) > 0 && via[0].Header.Get(api.HeaderAPIKey) != "" {
					req.Header.Set(api.HeaderAPIKey, via[0].Header.Get(api.HeaderAPIKey))
				}
				return nil
			},
		},
	}
}

// Select returns the rows of entity matching q
func (c *Client) Select(ctx context.Context, entity Entity, q Query, dest any) error {
	values := q.Values()
	values.Set("select", selectColumns[entity])

	if err := c.doRequest(ctx, http.MethodGet, entity, values, nil, dest); err != nil {
		return fmt.Errorf("select %s failed: %w", entity, err)
	}
	return nil
}

// SelectOne returns one row by id
func (c *Client) SelectOne(ctx context.Context, entity Entity, id string, dest any) error {
	values := api.IDFilter(id)
	values.Set("select", selectColumns[entity])
	values.Set("limit", "1")

	var rows []json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, entity, values, nil, &rows); err != nil {
		return fmt.Errorf("select %s %s failed: %w", entity, id, err)
	}

	if err := decodeFirst(rows, dest); err != nil {
		return fmt.Errorf("select %s %s failed: %w", entity, id, err)
	}
	return nil
}

// Insert creates a row
func (c *Client) Insert(ctx context.Context, entity Entity, fields models.FieldUpdates, dest any) error {
	values := url.Values{}
	values.Set("select", selectColumns[entity])

	var rows []json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, entity, values, fields, &rows); err != nil {
		return fmt.Errorf("insert %s failed: %w", entity, err)
	}

	if dest == nil {
		return nil
	}
	if err := decodeFirst(rows, dest); err != nil {
		return fmt.Errorf("insert %s failed: %w", entity, err)
	}
	return nil
}

// Update overwrites fields of one row
func (c *Client) Update(ctx context.Context, entity Entity, id string, fields models.FieldUpdates) error {
	values := api.IDFilter(id)
	values.Set("select", "id")

	var rows []json.RawMessage
	if err := c.doRequest(ctx, http.MethodPatch, entity, values, fields, &rows); err != nil {
		return fmt.Errorf("update %s %s failed: %w", entity, id, err)
	}

	// PostgREST отвечает пустым массивом, если фильтр не совпал ни с одной строкой
	if len(rows) == 0 {
		return fmt.Errorf("update %s %s failed: %w", entity, id, ErrNotFound)
	}
	return nil
}

func decodeFirst(rows []json.RawMessage, dest any) error {
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("failed to decode row: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос к /rest/v1/<entity>
func (c *Client) doRequest(ctx context.Context, method string, entity Entity, values url.Values, body, result any) error {
	u := c.baseURL + api.RestPrefix + string(entity)
	if len(values) > 0 {
		u += "?" + values.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(api.HeaderPrefer, api.PreferRepresentation)
	}
	if c.apiKey != "" {
		req.Header.Set(api.HeaderAPIKey, c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrUnavailable, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			statusErr.Code = errResp.Code
			statusErr.Message = errResp.Message
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
