// Package client talks to the Cielo e-commerce web service: it builds
// request documents from typed arguments, posts them and decodes the reply.
package client

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/dispatch"
	"github.com/reoring/xmlskema/xmldoc"
)

// ErrInconsistentProduct is returned when a product does not match the
// number of installments.
var ErrInconsistentProduct = errors.New("client: inconsistent product and installments")

// Client sends requests built from Config.
type Client struct {
	cfg       Config
	sender    Sender
	log       logrus.FieldLogger
	responses *dispatch.Registry
	newID     func() string
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSender replaces the HTTP sender.
func WithSender(s Sender) Option { return func(c *Client) { c.sender = s } }

// WithLogger sets the logger of request/response exchanges.
func WithLogger(l logrus.FieldLogger) Option { return func(c *Client) { c.log = l } }

// WithIDGenerator replaces the request id generator (uuid v4 by default).
func WithIDGenerator(fn func() string) Option { return func(c *Client) { c.newID = fn } }

// WithClock replaces the clock used for order timestamps.
func WithClock(fn func() time.Time) Option { return func(c *Client) { c.now = fn } }

// New validates cfg and returns a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := cielo.Responses()
	if err != nil {
		return nil, errors.Wrap(err, "load response schemas")
	}
	c := &Client{
		cfg:       cfg,
		log:       logrus.StandardLogger(),
		responses: reg,
		newID:     func() string { return uuid.NewString() },
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(c)
	}
	if c.sender == nil {
		c.sender = NewHTTPSender(cfg.Timeout, cfg.FormField)
	}
	return c, nil
}

// TransactionRequest holds the arguments of CreateTransaction. Card may be
// nil when the card data is collected by the remote service, in which case
// Brand is required.
type TransactionRequest struct {
	Value        decimal.Decimal
	Card         *cielo.Card
	Brand        string
	Installments int64
	Authorize    int64
	// Capture is sent only when non-nil.
	Capture         *bool
	CreatedAt       time.Time
	Description     string
	Currency        string
	Language        string
	InstallmentType string
	ReturnURL       string
	Product         string
	OrderNumber     string
}

// GenerateOrderNumber returns a 20 character order number.
func GenerateOrderNumber() string {
	sum := sha1.Sum([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])[:20]
}

// product picks the payment product for the request.
func (c *Client) product(r TransactionRequest) (string, error) {
	if r.Product != "" {
		single := r.Product == cielo.CreditInFull || r.Product == cielo.Debit
		if single != (r.Installments == 1) {
			return "", errors.Wrapf(ErrInconsistentProduct, "product %q with %d installments", r.Product, r.Installments)
		}
		return r.Product, nil
	}
	if r.Installments == 1 {
		return cielo.CreditInFull, nil
	}
	if r.InstallmentType != "" {
		return r.InstallmentType, nil
	}
	return c.cfg.InstallmentType, nil
}

// TransactionObject builds the requisicao-transacao appstruct.
func (c *Client) TransactionObject(r TransactionRequest) (*xmlskema.Object, error) {
	prod, err := c.product(r)
	if err != nil {
		return nil, err
	}
	brand := r.Brand
	if r.Card != nil && r.Card.Brand != "" {
		brand = r.Card.Brand
	}
	order := cielo.Order{
		Number:      r.OrderNumber,
		Value:       r.Value,
		Currency:    firstNonEmpty(r.Currency, c.cfg.Currency),
		DateTime:    r.CreatedAt,
		Description: r.Description,
		Language:    firstNonEmpty(r.Language, c.cfg.Language),
	}
	if order.Number == "" {
		order.Number = GenerateOrderNumber()
	}
	if order.DateTime.IsZero() {
		order.DateTime = c.now()
	}
	obj := c.root().
		Set("order", order.Object()).
		Set("payment", cielo.Payment{Brand: brand, Product: prod, Installments: r.Installments}.Object()).
		Set("return_url", firstNonEmpty(r.ReturnURL, c.cfg.ReturnURL)).
		Set("authorize", r.Authorize)
	if r.Capture != nil {
		obj.Set("capture", *r.Capture)
	}
	if r.Card != nil {
		obj.Set("holder", r.Card.Object()).Set("bin", r.Card.BIN())
	}
	return obj, nil
}

// CreateTransaction sends requisicao-transacao.
func (c *Client) CreateTransaction(ctx context.Context, r TransactionRequest) (*cielo.TransactionResult, error) {
	obj, err := c.TransactionObject(r)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, cielo.TransactionRequest(), obj)
}

// QueryByTID sends requisicao-consulta.
func (c *Client) QueryByTID(ctx context.Context, tid string) (*cielo.TransactionResult, error) {
	return c.post(ctx, cielo.Query(), c.root().Set("tid", tid))
}

// QueryByOrderNumber sends requisicao-consulta-chsec.
func (c *Client) QueryByOrderNumber(ctx context.Context, number string) (*cielo.TransactionResult, error) {
	return c.post(ctx, cielo.OrderQuery(), c.root().Set("order_number", number))
}

// Capture sends requisicao-captura. A nil value captures the authorized
// amount.
func (c *Client) Capture(ctx context.Context, tid string, value *decimal.Decimal, attachment string) (*cielo.TransactionResult, error) {
	obj := c.root().Set("tid", tid)
	if value != nil {
		obj.Set("value", *value)
	}
	if attachment != "" {
		obj.Set("attachment", attachment)
	}
	return c.post(ctx, cielo.CaptureRequest(), obj)
}

// Cancel sends requisicao-cancelamento. A nil value cancels the whole
// amount.
func (c *Client) Cancel(ctx context.Context, tid string, value *decimal.Decimal) (*cielo.TransactionResult, error) {
	obj := c.root().Set("tid", tid)
	if value != nil {
		obj.Set("value", *value)
	}
	return c.post(ctx, cielo.CancelRequest(), obj)
}

func (c *Client) root() *xmlskema.Object {
	return xmlskema.NewObject().
		Set("id", c.newID()).
		Set("version", c.cfg.Version).
		Set("establishment", c.cfg.establishment().Object())
}

func (c *Client) post(ctx context.Context, n *xmlskema.Node, obj *xmlskema.Object) (*cielo.TransactionResult, error) {
	log := c.log.WithFields(logrus.Fields{"request": n.WireName(), "id": obj.String("id")})
	body, err := xmldoc.Encode(ctx, n, obj, xmldoc.WithEncoding(c.cfg.Encoding))
	if err != nil {
		log.WithError(err).Debug("request rejected before sending")
		return nil, err
	}
	log.WithField("document", string(body)).Debug("sending request")

	start := time.Now()
	resp, err := c.sender.Send(ctx, c.cfg.ServiceURL, body)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, err
	}
	log = log.WithField("elapsed", time.Since(start))
	log.WithField("document", string(resp)).Debug("received response")

	v, err := c.responses.DecodeBytes(ctx, resp)
	if err != nil {
		var re *xmlskema.RemoteError
		if errors.As(err, &re) {
			log.WithFields(logrus.Fields{"code": re.Code, "message": re.Message}).Info("remote error")
		} else {
			log.WithError(err).Warn("invalid response")
		}
		return nil, err
	}
	tx, ok := v.(*cielo.TransactionResult)
	if !ok {
		return nil, fmt.Errorf("client: unexpected response type %T", v)
	}
	log.WithFields(logrus.Fields{"tid": tx.TID, "status": tx.Status.String()}).Info("transaction response")
	return tx, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
