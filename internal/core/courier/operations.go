package courier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"courier-bridge/internal/core/apperrors"

	"github.com/shopspring/decimal"
)

// Service endpoints, relative to the configured base URL.
const (
	EndpointStock       = "/Stock.asmx"
	EndpointCreate      = "/CreateJob.asmx"
	EndpointModify      = "/ModifyJob.asmx"
	EndpointAction      = "/JobAction.asmx"
	EndpointStatusCodes = "/StatusCodes.asmx"
	EndpointHistory     = "/TrackAndTrace.asmx"
)

// ActionCancel is the job action that cancels a shipment.
const ActionCancel = "Cancel"

// MultiProductSeparator joins the sku:qty pairs of the Multi_Prod field.
const MultiProductSeparator = ";"

// StockLevel is the remaining warehouse quantity of a SKU.
type StockLevel struct {
	SKU      string
	Quantity int
}

type stockResult struct {
	Items []struct {
		Code      string `xml:"Prod_Code"`
		Remaining string `xml:"Remaining"`
	} `xml:"Stock>Item"`
}

// QueryStock returns the stock of every SKU held for the account, across warehouses.
func (c *Client) QueryStock(ctx context.Context) ([]StockLevel, error) {
	req := Request{
		Endpoint:      EndpointStock,
		Operation:     "GetStock",
		RequiresAuth:  true,
		AllWarehouses: true,
	}

	return Execute(ctx, c, req, Handlers[[]StockLevel]{
		Decode: func(res *Result) ([]StockLevel, error) {
			var wire stockResult
			if err := res.Decode(&wire); err != nil {
				return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("malformed stock list: %w", err)}
			}

			levels := make([]StockLevel, 0, len(wire.Items))
			for _, item := range wire.Items {
				sku := strings.TrimSpace(item.Code)
				if sku == "" {
					continue
				}
				qty, err := parseQuantity(item.Remaining)
				if err != nil {
					return nil, &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("sku %s: %w", sku, err)}
				}
				levels = append(levels, StockLevel{SKU: sku, Quantity: qty})
			}
			return levels, nil
		},
	})
}

// parseQuantity accepts integer and decimal renderings ("12", "12.00").
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return int(d.IntPart()), nil
}

// ProductLine is one sku:qty pair of a multi-product shipment.
type ProductLine struct {
	SKU      string
	Quantity int
}

// ShipmentRequest is the payload of a shipment creation.
type ShipmentRequest struct {
	RecipientName    string
	RecipientAddress string
	RecipientArea    string
	RecipientPC      string
	RecipientCountry string
	Phone1           string
	Phone2           string
	Email            string
	Comments         string
	OrderID          string

	// Product and Pieces describe the first shipped item, Additional the rest.
	Product    string
	Pieces     int
	Additional []ProductLine

	Weight decimal.Decimal
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal

	// CashOnDelivery is the amount collected on delivery; invalid means none.
	CashOnDelivery decimal.NullDecimal

	SMS      bool
	Morning  bool
	Saturday bool
}

// MultiProduct renders the Multi_Prod field.
func (r ShipmentRequest) MultiProduct() string {
	parts := make([]string, 0, len(r.Additional))
	for _, line := range r.Additional {
		parts = append(parts, fmt.Sprintf("%s:%d", line.SKU, line.Quantity))
	}
	return strings.Join(parts, MultiProductSeparator)
}

// Params returns the request fields in wire order.
func (r ShipmentRequest) Params() Params {
	cod := ""
	if r.CashOnDelivery.Valid {
		cod = r.CashOnDelivery.Decimal.StringFixed(2)
	}

	return Params{}.
		Add("R_Name", r.RecipientName).
		Add("R_Address", r.RecipientAddress).
		Add("R_Area", r.RecipientArea).
		Add("R_PC", r.RecipientPC).
		Add("R_Country", r.RecipientCountry).
		Add("R_Phone1", r.Phone1).
		Add("R_Phone2", r.Phone2).
		Add("R_Email", r.Email).
		Add("Comments", r.Comments).
		Add("Order_Id", r.OrderID).
		Add("Prod", r.Product).
		Add("Pieces", strconv.Itoa(r.Pieces)).
		Add("Multi_Prod", r.MultiProduct()).
		Add("Weight", r.Weight.String()).
		Add("Length", r.Length.String()).
		Add("Width", r.Width.String()).
		Add("Height", r.Height.String()).
		Add("Cash_On_Delivery", cod).
		Add("SMS", flag(r.SMS)).
		Add("Morning_Delivery", flag(r.Morning)).
		Add("Saturday_Delivery", flag(r.Saturday))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// CreateShipment submits a shipment and returns the assigned voucher.
func (c *Client) CreateShipment(ctx context.Context, shipment ShipmentRequest) (string, error) {
	req := Request{
		Endpoint:     EndpointCreate,
		Operation:    "CreateJob",
		Params:       shipment.Params(),
		RequiresAuth: true,
	}

	return Execute(ctx, c, req, Handlers[string]{
		Decode: func(res *Result) (string, error) {
			var wire struct {
				Voucher string `xml:"Voucher"`
			}
			if err := res.Decode(&wire); err != nil {
				return "", &apperrors.ConnectionError{Operation: req.Operation, Err: err}
			}
			voucher := strings.TrimSpace(wire.Voucher)
			if voucher == "" {
				return "", &apperrors.ConnectionError{Operation: req.Operation, Err: fmt.Errorf("response carries no voucher")}
			}
			return voucher, nil
		},
	})
}

// ModifyShipment sends a free-text modification request and returns the modification id.
func (c *Client) ModifyShipment(ctx context.Context, voucher, message string) (string, error) {
	req := Request{
		Endpoint:     EndpointModify,
		Operation:    "ModifyJob",
		Params:       Params{}.Add("Voucher", voucher).Add("Mod_Message", message),
		RequiresAuth: true,
	}

	type modifyResult struct {
		ModCode string `xml:"ModCode"`
	}
	out, err := Execute(ctx, c, req, Handlers[modifyResult]{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.ModCode), nil
}

// ActionResult is the outcome of a job action. Rejection is set when the courier
// answered with a structured error instead of an action id.
type ActionResult struct {
	ActID     string
	Rejection *apperrors.APIError
}

// CancelShipment asks the courier to cancel the shipment. Structured rejections are
// returned in the result, not as an error.
func (c *Client) CancelShipment(ctx context.Context, voucher string) (ActionResult, error) {
	req := Request{
		Endpoint:     EndpointAction,
		Operation:    "JobAction",
		Params:       Params{}.Add("Voucher", voucher).Add("Action", ActionCancel),
		RequiresAuth: true,
	}

	return Execute(ctx, c, req, Handlers[ActionResult]{
		Decode: func(res *Result) (ActionResult, error) {
			var wire struct {
				ActID string `xml:"ActId"`
			}
			if err := res.Decode(&wire); err != nil {
				return ActionResult{}, &apperrors.ConnectionError{Operation: req.Operation, Err: err}
			}
			return ActionResult{ActID: strings.TrimSpace(wire.ActID)}, nil
		},
		OnReject: func(apiErr *apperrors.APIError) (ActionResult, error) {
			return ActionResult{Rejection: apiErr}, nil
		},
	})
}

// StatusDefinition describes a remote status code.
type StatusDefinition struct {
	Code        string
	Level       string
	Description string
}

// StatusDefinitions returns every status code the courier knows. No credentials are sent.
func (c *Client) StatusDefinitions(ctx context.Context) ([]StatusDefinition, error) {
	req := Request{
		Endpoint:  EndpointStatusCodes,
		Operation: "GetStatusCodes",
	}

	type statusCodesResult struct {
		Statuses []struct {
			Code        string `xml:"Status_Code"`
			Level       string `xml:"Status_Level"`
			Description string `xml:"Status_Description"`
		} `xml:"Status_Codes>Status"`
	}

	wire, err := Execute(ctx, c, req, Handlers[statusCodesResult]{})
	if err != nil {
		return nil, err
	}

	defs := make([]StatusDefinition, 0, len(wire.Statuses))
	for _, s := range wire.Statuses {
		defs = append(defs, StatusDefinition{
			Code:        strings.TrimSpace(s.Code),
			Level:       strings.TrimSpace(s.Level),
			Description: strings.TrimSpace(s.Description),
		})
	}
	return defs, nil
}

// HistoryEntry is one raw row of a voucher's status history. Rows repeating a
// status carry an additional action.
type HistoryEntry struct {
	Date                string
	Time                string
	Code                string
	Description         string
	DescriptionEn       string
	Comments            string
	ActionDate          string
	ActionTime          string
	ActionDescription   string
	ActionDescriptionEn string
	PartTrackingNum     string
}

type historyResult struct {
	Entries []struct {
		Date                string `xml:"Status_Date"`
		Time                string `xml:"Status_Time"`
		Code                string `xml:"Status_Code"`
		Description         string `xml:"Status_Description"`
		DescriptionEn       string `xml:"Status_Description_En"`
		Comments            string `xml:"Comments"`
		ActionDate          string `xml:"Action_Date"`
		ActionTime          string `xml:"Action_Time"`
		ActionDescription   string `xml:"Action_Description"`
		ActionDescriptionEn string `xml:"Action_Description_En"`
		PartTrackingNum     string `xml:"Part_Tracking_Num"`
	} `xml:"Status_History>Entry"`
}

// StatusHistory returns the raw status rows of a voucher in the order the courier sent them.
func (c *Client) StatusHistory(ctx context.Context, voucher string) ([]HistoryEntry, error) {
	req := Request{
		Endpoint:     EndpointHistory,
		Operation:    "GetVoucherHistory",
		Params:       Params{}.Add("Voucher", voucher),
		RequiresAuth: true,
	}

	wire, err := Execute(ctx, c, req, Handlers[historyResult]{})
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(wire.Entries))
	for _, e := range wire.Entries {
		entries = append(entries, HistoryEntry{
			Date:                strings.TrimSpace(e.Date),
			Time:                strings.TrimSpace(e.Time),
			Code:                strings.TrimSpace(e.Code),
			Description:         strings.TrimSpace(e.Description),
			DescriptionEn:       strings.TrimSpace(e.DescriptionEn),
			Comments:            strings.TrimSpace(e.Comments),
			ActionDate:          strings.TrimSpace(e.ActionDate),
			ActionTime:          strings.TrimSpace(e.ActionTime),
			ActionDescription:   strings.TrimSpace(e.ActionDescription),
			ActionDescriptionEn: strings.TrimSpace(e.ActionDescriptionEn),
			PartTrackingNum:     strings.TrimSpace(e.PartTrackingNum),
		})
	}
	return entries, nil
}
