// Package cielo holds the document schemas and vocabulary of the Cielo
// e-commerce web service (protocol version 1.1.1).
package cielo

import (
	_ "embed"
	"sync"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/schemafile"
)

// Service endpoints and protocol defaults.
const (
	ServiceVersion  = "1.1.1"
	ProductionURL   = "https://ecommerce.cbmp.com.br/servicos/ecommwsec.do"
	SandboxURL      = "https://qasecommerce.cielo.com.br/servicos/ecommwsec.do"
	DefaultCurrency = "986"
	DefaultLanguage = LangPT
)

// Languages of the payment pages.
const (
	LangPT = "PT"
	LangEN = "EN"
	LangES = "ES"
)

// Card brands.
const (
	Mastercard = "mastercard"
	Diners     = "diners"
	Discover   = "discover"
	Elo        = "elo"
	Visa       = "visa"
)

// Payment products.
const (
	CreditInFull           = "1"
	InstallmentByStore     = "2"
	InstallmentByProcessor = "3"
	Debit                  = "A"
)

// Security code indicator symbols.
const (
	SecurityCodeNotInformed = "nao-informado"
	SecurityCodeInformed    = "informado"
	SecurityCodeIllegible   = "ilegivel"
	SecurityCodeNonexistent = "inexistente"
)

// Status is the transaction status code.
type Status int64

const (
	StatusCreated          Status = 0
	StatusInProgress       Status = 1
	StatusAuthenticated    Status = 2
	StatusNotAuthenticated Status = 3
	StatusAuthorized       Status = 4
	StatusNotAuthorized    Status = 5
	StatusCaptured         Status = 6
	StatusNotCaptured      Status = 8
	StatusCancelled        Status = 9
	StatusAuthenticating   Status = 10
)

var statusNames = map[Status]string{
	StatusCreated:          "created",
	StatusInProgress:       "in-progress",
	StatusAuthenticated:    "authenticated",
	StatusNotAuthenticated: "not-authenticated",
	StatusAuthorized:       "authorized",
	StatusNotAuthorized:    "not-authorized",
	StatusCaptured:         "captured",
	StatusNotCaptured:      "not-captured",
	StatusCancelled:        "cancelled",
	StatusAuthenticating:   "authenticating",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// SecurityCodeIndicator is the adapter of dados-portador/indicador.
func SecurityCodeIndicator() xmlskema.Type {
	return codec.Indicator("security-code-indicator",
		codec.IndicatorCode{Symbol: SecurityCodeNotInformed, Code: 0},
		codec.IndicatorCode{Symbol: SecurityCodeInformed, Code: 1},
		codec.IndicatorCode{Symbol: SecurityCodeIllegible, Code: 2},
		codec.IndicatorCode{Symbol: SecurityCodeNonexistent, Code: 9},
	)
}

// Root schema names as declared in schemas.yaml.
const (
	SchemaTransactionRequest = "transaction_request"
	SchemaQuery              = "query"
	SchemaOrderQuery         = "order_query"
	SchemaCaptureRequest     = "capture_request"
	SchemaCancelRequest      = "cancel_request"
	SchemaTransaction        = "transaction"
	SchemaError              = "error"
)

//go:embed schemas.yaml
var schemaYAML []byte

var (
	loadOnce sync.Once
	loaded   *schemafile.Set
	loadErr  error
)

// Definitions returns the raw YAML the schemas are built from.
func Definitions() []byte { return append([]byte(nil), schemaYAML...) }

// Schemas returns every schema of the protocol, built once.
func Schemas() (*schemafile.Set, error) {
	loadOnce.Do(func() {
		loaded, loadErr = schemafile.Load(schemaYAML,
			schemafile.WithType("security-code-indicator", SecurityCodeIndicator()))
	})
	return loaded, loadErr
}

// Schema returns one schema by name and panics if the embedded definitions
// are broken or name is not defined.
func Schema(name string) *xmlskema.Node {
	s, err := Schemas()
	if err != nil {
		panic(err)
	}
	return s.MustGet(name)
}

// TransactionRequest returns the requisicao-transacao schema.
func TransactionRequest() *xmlskema.Node { return Schema(SchemaTransactionRequest) }

// Query returns the requisicao-consulta schema.
func Query() *xmlskema.Node { return Schema(SchemaQuery) }

// OrderQuery returns the requisicao-consulta-chsec schema.
func OrderQuery() *xmlskema.Node { return Schema(SchemaOrderQuery) }

// CaptureRequest returns the requisicao-captura schema.
func CaptureRequest() *xmlskema.Node { return Schema(SchemaCaptureRequest) }

// CancelRequest returns the requisicao-cancelamento schema.
func CancelRequest() *xmlskema.Node { return Schema(SchemaCancelRequest) }

// Transaction returns the transacao response schema.
func Transaction() *xmlskema.Node { return Schema(SchemaTransaction) }

// Error returns the erro response schema.
func Error() *xmlskema.Node { return Schema(SchemaError) }
