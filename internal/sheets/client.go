// internal/sheets/client.go
package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Row is one spreadsheet row. RowNumber is the external, authoritative
// address; zero means the row has not been placed in the sheet yet.
type Row struct {
	RowNumber int               `json:"row_number"`
	Fields    map[string]string `json:"fields"`
}

// WriteResult reports where the gateway placed each pushed row, keyed
// by the local record id carried in the push.
type WriteResult struct {
	Added       int         `json:"added"`
	Updated     int         `json:"updated"`
	Assignments map[int]int `json:"assignments"` // record id -> row number
}

// Client is the external spreadsheet collaborator. The transport behind
// it is out of scope for this service.
type Client interface {
	ReadRows(tab string) ([]Row, error)
	WriteRows(tab string, rows []PushRow) (*WriteResult, error)
	DeleteRows(tab string, rowNumbers []int) (int, error)
}

// PushRow pairs a local record id with its sheet content so the
// gateway can report back the assigned row number.
type PushRow struct {
	RecordID  int               `json:"record_id"`
	RowNumber int               `json:"row_number"` // 0 = append
	Fields    map[string]string `json:"fields"`
}

// GatewayClient talks JSON to the sheet gateway service that fronts the
// actual spreadsheet.
type GatewayClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *GatewayClient) ReadRows(tab string) ([]Row, error) {
	var out struct {
		Rows []Row `json:"rows"`
	}
	err := c.post("/rows/read", map[string]any{"tab": tab}, &out)
	if err != nil {
		return nil, err
	}
	return out.Rows, nil
}

func (c *GatewayClient) WriteRows(tab string, rows []PushRow) (*WriteResult, error) {
	var out WriteResult
	err := c.post("/rows/write", map[string]any{"tab": tab, "rows": rows}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GatewayClient) DeleteRows(tab string, rowNumbers []int) (int, error) {
	var out struct {
		Deleted int `json:"deleted"`
	}
	err := c.post("/rows/delete", map[string]any{"tab": tab, "row_numbers": rowNumbers}, &out)
	if err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func (c *GatewayClient) post(path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Post(c.BaseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet gateway %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Client = (*GatewayClient)(nil)
