package cielo

import (
	"time"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

// Establishment identifies the merchant (dados-ec).
type Establishment struct {
	Number string
	Key    string
}

// Object returns the appstruct of dados-ec.
func (e Establishment) Object() *xmlskema.Object {
	return xmlskema.NewObject().Set("number", e.Number).Set("key", e.Key)
}

// Card is the card holder data (dados-portador). The security code
// indicator is derived from SecurityCode unless Indicator is set.
type Card struct {
	Brand          string
	Number         string
	HolderName     string
	ExpirationDate time.Time
	SecurityCode   string
	Indicator      string
}

// Object returns the appstruct of dados-portador.
func (c Card) Object() *xmlskema.Object {
	ind := c.Indicator
	if ind == "" {
		ind = SecurityCodeNotInformed
		if c.SecurityCode != "" {
			ind = SecurityCodeInformed
		}
	}
	o := xmlskema.NewObject().
		Set("number", c.Number).
		Set("expiration_date", c.ExpirationDate).
		Set("security_code_indicator", ind)
	if c.SecurityCode != "" {
		o.Set("security_code", c.SecurityCode)
	}
	if c.HolderName != "" {
		o.Set("holder_name", c.HolderName)
	}
	return o
}

// BIN returns the first six digits of the card number.
func (c Card) BIN() string {
	if len(c.Number) < 6 {
		return c.Number
	}
	return c.Number[:6]
}

// Order is dados-pedido.
type Order struct {
	Number      string
	Value       decimal.Decimal
	Currency    string
	DateTime    time.Time
	Description string
	Language    string
}

// Object returns the appstruct of dados-pedido. Empty optional fields are
// left out.
func (o Order) Object() *xmlskema.Object {
	obj := xmlskema.NewObject().
		Set("number", o.Number).
		Set("value", o.Value).
		Set("currency", o.Currency).
		Set("datetime", o.DateTime)
	if o.Description != "" {
		obj.Set("description", o.Description)
	}
	if o.Language != "" {
		obj.Set("language", o.Language)
	}
	return obj
}

func orderFromObject(obj *xmlskema.Object) Order {
	return Order{
		Number:      obj.String("number"),
		Value:       obj.Decimal("value"),
		Currency:    obj.String("currency"),
		DateTime:    obj.Time("datetime"),
		Description: obj.String("description"),
		Language:    obj.String("language"),
	}
}

// Payment is forma-pagamento.
type Payment struct {
	Brand        string
	Product      string
	Installments int64
}

// Object returns the appstruct of forma-pagamento.
func (p Payment) Object() *xmlskema.Object {
	return xmlskema.NewObject().
		Set("brand", p.Brand).
		Set("product", p.Product).
		Set("installments", p.Installments)
}

// Event is one of the autenticacao, autorizacao, captura and cancelamento
// blocks of a transaction.
type Event struct {
	Code     int64
	Message  string
	DateTime time.Time
	Value    decimal.Decimal
	// authentication only
	ECI int64
	// authorization only
	LR  int64
	NSU string
	ARP string
}

func eventFromObject(obj *xmlskema.Object) *Event {
	if obj == nil {
		return nil
	}
	return &Event{
		Code:     obj.Int("code"),
		Message:  obj.String("message"),
		DateTime: obj.Time("datetime"),
		Value:    obj.Decimal("value"),
		ECI:      obj.Int("eci"),
		LR:       obj.Int("lr"),
		NSU:      obj.String("nsu"),
		ARP:      obj.String("arp"),
	}
}

// TransactionResult is the decoded transacao document.
type TransactionResult struct {
	ID                string
	Version           string
	TID               string
	Order             Order
	Payment           Payment
	Status            Status
	Authentication    *Event
	Authorization     *Event
	Capture           *Event
	Cancel            *Event
	PAN               string
	AuthenticationURL string
}

// TransactionFromObject converts a decoded transacao mapping.
func TransactionFromObject(obj *xmlskema.Object) *TransactionResult {
	pay := obj.Object("payment")
	return &TransactionResult{
		ID:      obj.String("id"),
		Version: obj.String("version"),
		TID:     obj.String("tid"),
		Order:   orderFromObject(obj.Object("order")),
		Payment: Payment{
			Brand:        pay.String("brand"),
			Product:      pay.String("product"),
			Installments: pay.Int("installments"),
		},
		Status:            Status(obj.Int("status")),
		Authentication:    eventFromObject(obj.Object("authentication")),
		Authorization:     eventFromObject(obj.Object("authorization")),
		Capture:           eventFromObject(obj.Object("capture")),
		Cancel:            eventFromObject(obj.Object("cancel")),
		PAN:               obj.String("pan"),
		AuthenticationURL: obj.String("authentication_url"),
	}
}
