package crm

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	viewPath   = "/view/All_Payment_Initiations"
	updatePath = "/form/Payment_Initiation/record/update"
)

// Bridge reads and updates payment records in the CRM. The protocol
// is query-string parameters in, XML with CDATA-wrapped values out;
// authentication is a static token parameter.
type Bridge struct {
	baseURL    string
	authToken  string
	httpClient http.Client
}

func NewBridge(baseURL, authToken string) (*Bridge, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if authToken == "" {
		return nil, fmt.Errorf("auth token is required")
	}
	return &Bridge{baseURL: baseURL, authToken: authToken}, nil
}

// FetchPaymentRecord retrieves the record whose reference_id equals
// referenceID.
func (b *Bridge) FetchPaymentRecord(ctx context.Context, referenceID string) (*PaymentRecord, error) {
	params := url.Values{}
	params.Set("authtoken", b.authToken)
	params.Set("criteria", fmt.Sprintf("reference_id==%q", referenceID))

	body, err := b.call(ctx, http.MethodGet, viewPath, params)
	if err != nil {
		return nil, err
	}

	columns, err := parseRecordColumns(body)
	if err != nil {
		return nil, err
	}
	return recordFromColumns(columns)
}

// UpdateResult is the CRM's acknowledgement of an update.
type UpdateResult struct {
	Status string
}

// UpdatePaymentRecord posts the given fields against the record whose
// reference_id equals referenceID. Last write wins on the CRM side.
func (b *Bridge) UpdatePaymentRecord(ctx context.Context, referenceID string, fields url.Values) (*UpdateResult, error) {
	if referenceID == "" {
		return nil, fmt.Errorf("reference id is required")
	}

	params := url.Values{}
	for name, values := range fields {
		for _, v := range values {
			params.Add(name, v)
		}
	}
	params.Set("criteria", fmt.Sprintf("reference_id=%q", referenceID))
	params.Set("authtoken", b.authToken)

	body, err := b.call(ctx, http.MethodPost, updatePath, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		XMLName xml.Name `xml:"response"`
		Result  struct {
			Status string `xml:"status"`
		} `xml:"result"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}

	return &UpdateResult{Status: resp.Result.Status}, nil
}

// UpdateStatus is the common single-field update.
func (b *Bridge) UpdateStatus(ctx context.Context, referenceID string, status Status) (*UpdateResult, error) {
	fields := url.Values{}
	fields.Set("status", string(status))
	return b.UpdatePaymentRecord(ctx, referenceID, fields)
}

func (b *Bridge) call(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	uri := b.baseURL + path + "?" + params.Encode()
	slog.Debug("CRM request", "method", method, "path", path)

	req, err := http.NewRequestWithContext(ctx, method, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("create CRM request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call CRM: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read CRM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CRM returned status %d", resp.StatusCode)
	}
	return body, nil
}
