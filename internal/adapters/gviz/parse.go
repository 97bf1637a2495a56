package gviz

import (
	"bytes"
	"encoding/json"
	"strconv"

	"sheeets/internal/domain"
)

// Response is the decoded GViz query payload.
type Response struct {
	Version string `json:"version"`
	Status  string `json:"status"`
	Errors  []struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"errors"`
	Table Table `json:"table"`
}

// Table is the row/column structure of a GViz response.
type Table struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

// Column describes one table column.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Row holds the cells of one row; a nil cell is an empty spreadsheet cell.
type Row struct {
	C []*Cell `json:"c"`
}

// Cell carries a raw value and/or its formatted string.
type Cell struct {
	V any     `json:"v"`
	F *string `json:"f"`
}

// ParseResponse strips the comment preamble and callback wrapper from a GViz
// body and decodes the JSON payload. A status other than "ok" is a
// *domain.SourceFormatError.
func ParseResponse(body []byte) (*Response, error) {
	payload := bytes.TrimSpace(body)

	if bytes.HasPrefix(payload, []byte("/*")) {
		end := bytes.Index(payload, []byte("*/"))
		if end < 0 {
			return nil, &domain.SourceFormatError{Reason: "unterminated comment preamble"}
		}
		payload = bytes.TrimSpace(payload[end+2:])
	}

	if open := bytes.IndexByte(payload, '('); open >= 0 && !bytes.HasPrefix(payload, []byte("{")) {
		payload = payload[open+1:]
		payload = bytes.TrimSpace(payload)
		payload = bytes.TrimSuffix(payload, []byte(";"))
		payload = bytes.TrimSuffix(payload, []byte(")"))
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &domain.SourceFormatError{Reason: "invalid json payload", Err: err}
	}
	if resp.Status != "ok" {
		reason := "status " + strconv.Quote(resp.Status)
		if len(resp.Errors) > 0 {
			reason += ": " + resp.Errors[0].Message
		}
		return nil, &domain.SourceFormatError{Reason: reason}
	}
	return &resp, nil
}

// CellString prefers the formatted value, then the raw value as a string,
// then "".
func CellString(c *Cell) string {
	if c == nil {
		return ""
	}
	if c.F != nil {
		return *c.F
	}
	switch v := c.V.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// CellBool maps a cell to true when its string value is a truthy token.
func CellBool(c *Cell) bool {
	if c == nil {
		return false
	}
	if b, ok := c.V.(bool); ok {
		return b
	}
	return domain.IsTruthy(CellString(c))
}

// Cell returns the i-th cell of the row, or nil when out of range.
func (r Row) Cell(i int) *Cell {
	if i < 0 || i >= len(r.C) {
		return nil
	}
	return r.C[i]
}
