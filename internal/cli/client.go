package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// FlowSummary — flow каталога из API.
type FlowSummary struct {
	ID        string   `json:"id"`
	Available bool     `json:"available"`
	Main      string   `json:"main,omitempty"`
	Subflows  []string `json:"subflows,omitempty"`
}

// Problem — проблема валидации flow.
type Problem struct {
	SubflowID string `json:"subflow_id,omitempty"`
	ElementID string `json:"element_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

// ValidationResponse — результат валидации flow.
type ValidationResponse struct {
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems"`
}

// SessionResponse — сессия из API.
type SessionResponse struct {
	ID        string   `json:"id"`
	FlowID    string   `json:"flow_id,omitempty"`
	SubflowID string   `json:"subflow_id"`
	Subflows  []string `json:"subflows,omitempty"`
	Loaded    bool     `json:"loaded"`
	CreatedAt string   `json:"created_at"`
}

// UpdateResponse — результат правки элемента.
type UpdateResponse struct {
	Applied   bool   `json:"applied"`
	Reason    string `json:"reason"`
	ElementID string `json:"element_id,omitempty"`
}

// Location — адрес слота.
type Location struct {
	Line     int `json:"line"`
	Position int `json:"position"`
}

// Slot — слот layout. Element оставлен сырым JSON.
type Slot struct {
	Location  Location        `json:"location"`
	ElementID string          `json:"element_id"`
	Element   json.RawMessage `json:"element"`
	PriorID   string          `json:"prior_id,omitempty"`
}

// LayoutResponse — layout текущего subflow.
type LayoutResponse struct {
	FlowID    string `json:"flow_id,omitempty"`
	SubflowID string `json:"subflow_id"`
	Slots     []Slot `json:"slots"`
}

// --- Request types ---

// UpdateElementRequest — правка элемента.
type UpdateElementRequest struct {
	Location Location        `json:"location"`
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для modeler API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Flows ---

// ListFlows возвращает flows каталога.
func (c *Client) ListFlows() ([]FlowSummary, error) {
	var flows []FlowSummary
	err := c.list("/api/v1/flows", &flows)
	return flows, err
}

// GetFlow возвращает документ flow.
func (c *Client) GetFlow(id string) (json.RawMessage, error) {
	var flow json.RawMessage
	err := c.get("/api/v1/flows/"+id, &flow)
	return flow, err
}

// ImportFlow сохраняет документ flow (YAML или JSON) под ID.
func (c *Client) ImportFlow(id string, document []byte) (*FlowSummary, error) {
	var flow FlowSummary
	err := c.doRaw(http.MethodPut, "/api/v1/flows/"+id, document, &flow)
	return &flow, err
}

// DeleteFlow удаляет flow из хранилища.
func (c *Client) DeleteFlow(id string) error {
	return c.delete("/api/v1/flows/" + id)
}

// ValidateFlow проверяет документ flow на сервере.
func (c *Client) ValidateFlow(document []byte) (*ValidationResponse, error) {
	var result ValidationResponse
	err := c.doRaw(http.MethodPost, "/api/v1/flows/validate", document, &result)
	return &result, err
}

// --- Sessions ---

// OpenSession открывает сессию для flow.
func (c *Client) OpenSession(flowID string) (*SessionResponse, error) {
	var session SessionResponse
	err := c.post("/api/v1/sessions", map[string]string{"flow_id": flowID}, &session)
	return &session, err
}

// GetSession возвращает состояние сессии.
func (c *Client) GetSession(id string) (*SessionResponse, error) {
	var session SessionResponse
	err := c.get("/api/v1/sessions/"+id, &session)
	return &session, err
}

// CloseSession закрывает сессию.
func (c *Client) CloseSession(id string) error {
	return c.delete("/api/v1/sessions/" + id)
}

// SelectFlow загружает flow в сессию.
func (c *Client) SelectFlow(id, flowID string) (*SessionResponse, error) {
	var session SessionResponse
	err := c.put("/api/v1/sessions/"+id+"/flow", map[string]string{"flow_id": flowID}, &session)
	return &session, err
}

// SelectSubflow выбирает subflow в сессии.
func (c *Client) SelectSubflow(id, subflowID string) (*SessionResponse, error) {
	var session SessionResponse
	err := c.put("/api/v1/sessions/"+id+"/subflow", map[string]string{"subflow_id": subflowID}, &session)
	return &session, err
}

// UpdateElement заменяет value элемента.
func (c *Client) UpdateElement(id string, req UpdateElementRequest) (*UpdateResponse, error) {
	var result UpdateResponse
	err := c.put("/api/v1/sessions/"+id+"/elements", req, &result)
	return &result, err
}

// Layout возвращает layout текущего subflow.
func (c *Client) Layout(id string) (*LayoutResponse, error) {
	var layout LayoutResponse
	err := c.get("/api/v1/sessions/"+id+"/layout", &layout)
	return &layout, err
}

// LayoutSVG возвращает layout как SVG документ.
func (c *Client) LayoutSVG(id string) ([]byte, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/sessions/"+id+"/layout.svg", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.doRaw(method, path, data, result)
}

// doRaw отправляет тело как есть и разбирает {"data": ...} в result.
func (c *Client) doRaw(method, path string, body []byte, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil && json.Valid(body) {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
