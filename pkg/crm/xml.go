package crm

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"
)

// ShapeError reports a CRM XML payload that deviates from the
// expected response/records/record/column[] structure. Deviations are
// hard errors, never silently ignored.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected CRM response shape: %s", e.Reason)
}

type viewResponse struct {
	XMLName xml.Name `xml:"response"`
	Records struct {
		Record []recordElem `xml:"record"`
	} `xml:"records"`
}

type recordElem struct {
	Columns []columnElem `xml:"column"`
}

type columnElem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// parseRecordColumns decodes a view response into a flat name→value
// mapping from the first record. CDATA-wrapped values decode as plain
// character data.
func parseRecordColumns(data []byte) (map[string]string, error) {
	var resp viewResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}

	if len(resp.Records.Record) == 0 {
		return nil, &ShapeError{Reason: "no record matched the filter"}
	}

	record := resp.Records.Record[0]
	if len(record.Columns) == 0 {
		return nil, &ShapeError{Reason: "record has no columns"}
	}

	columns := make(map[string]string, len(record.Columns))
	for _, col := range record.Columns {
		if col.Name == "" {
			return nil, &ShapeError{Reason: "column without name attribute"}
		}
		columns[col.Name] = col.Value
	}
	return columns, nil
}

// recordFromColumns extracts the typed payment record, requiring the
// fields the orchestrator depends on.
func recordFromColumns(columns map[string]string) (*PaymentRecord, error) {
	referenceID, ok := columns["reference_id"]
	if !ok {
		return nil, &ShapeError{Reason: "missing reference_id column"}
	}
	status, ok := columns["status"]
	if !ok {
		return nil, &ShapeError{Reason: "missing status column"}
	}

	amount := decimal.Zero
	if raw, ok := columns["amount"]; ok && raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &ShapeError{Reason: fmt.Sprintf("amount %q is not a number", raw)}
		}
		amount = parsed
	}

	return &PaymentRecord{
		ReferenceID: referenceID,
		RecipientID: columns["recipient_id"],
		Status:      Status(status),
		Currency:    columns["currency"],
		Amount:      amount,
	}, nil
}
