// Package courier is the transport to the courier's SOAP web services. It injects
// the account credentials, sanitizes outgoing text, and turns transport failures and
// structured error codes into the typed errors of package apperrors. Wire records
// never leave this package: every operation maps its response to a typed result.
package courier

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/httpclient"
	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/proxy"

	"go.uber.org/zap"
)

// Credential parameter names, sent first on authenticated calls.
const (
	ParamAccount  = "Code"
	ParamCRM      = "CRM"
	ParamUsername = "User"
	ParamPassword = "Pass"
)

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// Param is a single flat request element.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered parameter list; the courier validates element order.
type Params []Param

// Add appends a parameter.
func (p Params) Add(name, value string) Params {
	return append(p, Param{Name: name, Value: value})
}

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Request describes a single remote procedure call.
type Request struct {
	// Endpoint is the service path under the base URL (e.g. EndpointCreate).
	Endpoint string
	// Operation is the SOAP operation name.
	Operation string
	// Params are the operation parameters, without credentials.
	Params Params
	// RequiresAuth prepends the stored credentials.
	RequiresAuth bool
	// AllWarehouses marks calls not scoped to a single warehouse.
	AllWarehouses bool
}

// Result is the decoded body of a successful call.
type Result struct {
	Operation string
	inner     []byte
}

// Decode unmarshals the result fields into v.
func (r *Result) Decode(v any) error {
	return decodeFields(r.inner, v)
}

// Client executes calls against the courier services.
type Client struct {
	cfg    config.CourierConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a courier client from the injected configuration.
func NewClient(cfg config.CourierConfig) *Client {
	egress := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	return &Client{
		cfg:    cfg,
		http:   httpclient.NewClient("courier", cfg.Timeout(), httpclient.WithProxy(egress)),
		logger: logger.Named("courier"),
	}
}

// Locale returns the configured description language.
func (c *Client) Locale() string {
	return c.cfg.Locale
}

// Call executes req. Transport and protocol failures return *apperrors.ConnectionError,
// a non-zero courier error code returns *apperrors.APIError, and incomplete credentials
// return *apperrors.ConfigurationError before any I/O. Calls are never retried.
func (c *Client) Call(ctx context.Context, req Request) (*Result, error) {
	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}

	body := encodeEnvelope(c.cfg.Namespace, req.Operation, params)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(req.Endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: err}
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", c.cfg.Namespace+req.Operation)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	inner, err := decodeEnvelope(raw, resp.StatusCode)
	if err != nil {
		return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: err}
	}

	result := &Result{Operation: req.Operation, inner: inner}

	var status resultStatus
	if err := result.Decode(&status); err != nil {
		return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("malformed result: %w", err)}
	}
	if code, msg := status.code(); code != 0 {
		c.logger.Warn("Courier returned an error code",
			zap.String("operation", req.Operation),
			zap.Int("code", code),
			zap.String("message", msg),
		)
		return result, &apperrors.APIError{Operation: req.Operation, Code: code, Message: msg}
	}

	return result, nil
}

// Handlers customize how Execute converts a call outcome.
type Handlers[T any] struct {
	// Decode converts a successful result. When nil the result is decoded into T.
	Decode func(*Result) (T, error)
	// OnReject handles a structured courier error. When nil the *apperrors.APIError is returned.
	OnReject func(*apperrors.APIError) (T, error)
}

// Execute runs req through c and converts the outcome with h.
func Execute[T any](ctx context.Context, c *Client, req Request, h Handlers[T]) (T, error) {
	var zero T

	res, err := c.Call(ctx, req)
	if err != nil {
		var apiErr *apperrors.APIError
		if errors.As(err, &apiErr) && h.OnReject != nil {
			return h.OnReject(apiErr)
		}
		return zero, err
	}

	if h.Decode != nil {
		return h.Decode(res)
	}

	var out T
	if err := res.Decode(&out); err != nil {
		return zero, &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("malformed result: %w", err)}
	}
	return out, nil
}

func (c *Client) url(endpoint string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + endpoint
}

// buildParams prepends the credentials when required and sanitizes the text values.
func (c *Client) buildParams(req Request) (Params, error) {
	out := make(Params, 0, len(req.Params)+4)

	if req.RequiresAuth {
		sendCRM := !(req.AllWarehouses && c.cfg.OmitCRMUnscoped)

		var missing []string
		if c.cfg.AccountNumber == "" {
			missing = append(missing, "COURIER_ACCOUNT_NUMBER")
		}
		if sendCRM && c.cfg.WarehouseCRM == "" {
			missing = append(missing, "COURIER_WAREHOUSE_CRM")
		}
		if c.cfg.Username == "" {
			missing = append(missing, "COURIER_USERNAME")
		}
		if c.cfg.Password == "" {
			missing = append(missing, "COURIER_PASSWORD")
		}
		if len(missing) > 0 {
			return nil, &apperrors.ConfigurationError{Missing: missing}
		}

		out = out.Add(ParamAccount, c.cfg.AccountNumber)
		if sendCRM {
			out = out.Add(ParamCRM, c.cfg.WarehouseCRM)
		}
		out = out.Add(ParamUsername, c.cfg.Username).Add(ParamPassword, c.cfg.Password)
	}

	for _, p := range req.Params {
		if err := CheckLength(p.Name, p.Value); err != nil {
			return nil, err
		}
		out = out.Add(p.Name, Sanitize(p.Name, p.Value))
	}
	return out, nil
}

// resultStatus holds the structured error fields present on every result.
type resultStatus struct {
	Error     string `xml:"Error"`
	ErrorCode string `xml:"Error_Code"`
}

// code returns the courier error code (0 on success) and its accompanying text.
// A non-numeric error text is reported as code -1.
func (s resultStatus) code() (int, string) {
	errText := strings.TrimSpace(s.Error)

	if raw := strings.TrimSpace(s.ErrorCode); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return -1, raw
		}
		return n, errText
	}

	if errText == "" {
		return 0, ""
	}
	if n, err := strconv.Atoi(errText); err == nil {
		return n, ""
	}
	return -1, errText
}

func encodeEnvelope(namespace, operation string, params Params) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<soap:Envelope xmlns:soap="` + soapEnvelopeNS + `"><soap:Body>`)
	buf.WriteString("<" + operation + ` xmlns="`)
	_ = xml.EscapeText(&buf, []byte(namespace))
	buf.WriteString(`">`)
	for _, p := range params {
		buf.WriteString("<" + p.Name + ">")
		_ = xml.EscapeText(&buf, []byte(p.Value))
		buf.WriteString("</" + p.Name + ">")
	}
	buf.WriteString("</" + operation + "></soap:Body></soap:Envelope>")
	return buf.Bytes()
}

type soapEnvelope struct {
	Body struct {
		Fault   *soapFault `xml:"Fault"`
		Content []byte     `xml:",innerxml"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type anyElement struct {
	XMLName xml.Name
	Inner   []byte `xml:",innerxml"`
}

// decodeEnvelope returns the inner XML of <Body><OperationResponse><OperationResult>.
func decodeEnvelope(raw []byte, statusCode int) ([]byte, error) {
	var env soapEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		if statusCode < 200 || statusCode >= 300 {
			return nil, fmt.Errorf("unexpected HTTP status %d", statusCode)
		}
		return nil, fmt.Errorf("malformed SOAP envelope: %w", err)
	}

	if f := env.Body.Fault; f != nil {
		return nil, fmt.Errorf("SOAP fault %s: %s", strings.TrimSpace(f.Code), strings.TrimSpace(f.String))
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("unexpected HTTP status %d", statusCode)
	}

	var response anyElement
	if err := xml.Unmarshal(env.Body.Content, &response); err != nil {
		return nil, fmt.Errorf("empty SOAP body: %w", err)
	}

	var result anyElement
	if err := xml.Unmarshal(response.Inner, &result); err != nil {
		return nil, fmt.Errorf("missing %s result: %w", response.XMLName.Local, err)
	}

	return result.Inner, nil
}

// decodeFields unmarshals a sequence of sibling elements into v.
func decodeFields(inner []byte, v any) error {
	wrapped := make([]byte, 0, len(inner)+17)
	wrapped = append(wrapped, "<result>"...)
	wrapped = append(wrapped, inner...)
	wrapped = append(wrapped, "</result>"...)
	return xml.Unmarshal(wrapped, v)
}
