package cielo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/xmldoc"
)

const transactionResponse = `<?xml version="1.0" encoding="ISO-8859-1"?>
<transacao versao="1.1.1" id="af32f93c-5e9c-4f44-9478-ccc5aca9319e" xmlns="http://ecommerce.cbmp.com.br">
  <tid>10069930690A16A61001</tid>
  <pan>uv9yI5tkhX9jpuCt+dfrtoSVM4U3gIjvrcwMBfZcadE=</pan>
  <dados-pedido>
    <numero>178148599</numero>
    <valor>20021</valor>
    <moeda>986</moeda>
    <data-hora>2011-12-07T11:43:37.687-02:00</data-hora>
    <descricao>[origem:10.50.54.156]</descricao>
    <idioma>PT</idioma>
  </dados-pedido>
  <forma-pagamento>
    <bandeira>visa</bandeira>
    <produto>1</produto>
    <parcelas>1</parcelas>
  </forma-pagamento>
  <status>6</status>
  <autenticacao>
    <codigo>6</codigo>
    <mensagem>Transacao sem autenticacao</mensagem>
    <data-hora>2011-12-07T11:43:37.687-02:00</data-hora>
    <valor>20021</valor>
    <eci>7</eci>
  </autenticacao>
  <autorizacao>
    <codigo>6</codigo>
    <mensagem>Transacao autorizada</mensagem>
    <data-hora>2011-12-07T11:43:38.342-02:00</data-hora>
    <valor>20021</valor>
    <lr>00</lr>
    <arp>123456</arp>
    <nsu>549935</nsu>
  </autorizacao>
  <captura>
    <codigo>6</codigo>
    <mensagem>Transacao capturada com sucesso</mensagem>
    <data-hora>2011-12-07T11:43:39.110-02:00</data-hora>
    <valor>20021</valor>
  </captura>
</transacao>`

func validRequest() *xmlskema.Object {
	return xmlskema.NewObject().
		Set("id", "1").
		Set("version", ServiceVersion).
		Set("establishment", Establishment{Number: "1006993069", Key: "25fbb99741c739dd"}.Object()).
		Set("holder", Card{Number: "4012001037141112", ExpirationDate: time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC), SecurityCode: "123", HolderName: "Augusto"}.Object()).
		Set("order", Order{Number: "178148599", Value: decimal.RequireFromString("200.21"), Currency: DefaultCurrency, DateTime: time.Date(2011, 12, 7, 11, 43, 37, 0, time.UTC)}.Object()).
		Set("payment", Payment{Brand: Visa, Product: CreditInFull, Installments: 1}.Object()).
		Set("return_url", "http://example.com").
		Set("authorize", 3).
		Set("capture", true)
}

func TestSchemas_Load(t *testing.T) {
	s, err := Schemas()
	if err != nil {
		t.Fatalf("embedded schemas: %v", err)
	}
	for name, wire := range map[string]string{
		SchemaTransactionRequest: "requisicao-transacao",
		SchemaQuery:              "requisicao-consulta",
		SchemaOrderQuery:         "requisicao-consulta-chsec",
		SchemaCaptureRequest:     "requisicao-captura",
		SchemaCancelRequest:      "requisicao-cancelamento",
		SchemaTransaction:        "transacao",
		SchemaError:              "erro",
	} {
		n, ok := s.Get(name)
		if !ok || n.WireName() != wire {
			t.Fatalf("%s: expected root %s", name, wire)
		}
	}
}

func TestTransactionRequest_Encode(t *testing.T) {
	ctx := context.Background()
	out, err := xmldoc.Encode(ctx, TransactionRequest(), validRequest())
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	doc := string(out)
	for _, want := range []string{
		`<?xml version="1.0" encoding="ISO-8859-1"?>`,
		`<requisicao-transacao id="1" versao="1.1.1">`,
		`<dados-ec><numero>1006993069</numero><chave>25fbb99741c739dd</chave></dados-ec>`,
		`<dados-portador><numero>4012001037141112</numero><validade>203012</validade><indicador>1</indicador><codigo-seguranca>123</codigo-seguranca><nome-portador>Augusto</nome-portador></dados-portador>`,
		`<valor>20021</valor><moeda>986</moeda><data-hora>2011-12-07T11:43:37</data-hora></dados-pedido>`,
		`<forma-pagamento><bandeira>visa</bandeira><produto>1</produto><parcelas>1</parcelas></forma-pagamento>`,
		`<url-retorno>http://example.com</url-retorno><autorizar>3</autorizar><capturar>true</capturar></requisicao-transacao>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document misses %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "descricao") || strings.Contains(doc, "<bin") {
		t.Fatalf("absent optional fields must not be emitted:\n%s", doc)
	}
}

func TestTransactionRequest_SecurityCodeRule(t *testing.T) {
	ctx := context.Background()
	req := validRequest()
	req.Object("holder").Delete("security_code")
	req.Object("holder").Set("security_code_indicator", SecurityCodeInformed)
	_, err := TransactionRequest().Encode(ctx, req)
	iss, ok := xmlskema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/holder/security_code" || iss[0].Code != xmlskema.CodeRequired {
		t.Fatalf("expected security code issue, got %v", err)
	}

	req.Object("holder").Set("security_code_indicator", SecurityCodeNonexistent)
	if _, err := TransactionRequest().Encode(ctx, req); err != nil {
		t.Fatalf("nonexistent indicator needs no code: %v", err)
	}
}

func TestTransactionRequest_ValidationIssues(t *testing.T) {
	ctx := context.Background()
	req := validRequest()
	req.Object("payment").Set("brand", "amex").Set("installments", 0)
	_, err := TransactionRequest().Encode(ctx, req)
	iss, _ := xmlskema.AsIssues(err)
	if len(iss) != 2 || iss[0].Path != "/payment/brand" || iss[1].Path != "/payment/installments" {
		t.Fatalf("unexpected issues: %v", err)
	}

	req = validRequest()
	req.Object("order").Set("value", decimal.RequireFromString("200.543"))
	if _, err := TransactionRequest().Encode(ctx, req); !errors.Is(err, xmlskema.ErrEncoding) {
		t.Fatalf("expected ErrEncoding for three decimal places, got %v", err)
	}

	req = validRequest()
	req.Object("order").Set("datetime", time.Date(2011, 12, 7, 11, 43, 37, 0, time.FixedZone("BRST", -2*3600)))
	if _, err := TransactionRequest().Encode(ctx, req); !errors.Is(err, xmlskema.ErrEncoding) {
		t.Fatalf("expected ErrEncoding for zoned time, got %v", err)
	}
}

func TestResponses_Transaction(t *testing.T) {
	ctx := context.Background()
	reg, err := Responses()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	v, err := reg.DecodeBytes(ctx, []byte(transactionResponse))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	tx := v.(*TransactionResult)
	if tx.TID != "10069930690A16A61001" || tx.Status != StatusCaptured || tx.Status.String() != "captured" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Order.Value.Equal(decimal.RequireFromString("200.21")) {
		t.Fatalf("unexpected value %v", tx.Order.Value)
	}
	wantTime := time.Date(2011, 12, 7, 11, 43, 37, 687*int(time.Millisecond), time.UTC)
	if !tx.Order.DateTime.Equal(wantTime) {
		t.Fatalf("unexpected datetime %v", tx.Order.DateTime)
	}
	if tx.Authentication == nil || tx.Authentication.ECI != 7 || tx.Authentication.Message != "Transacao sem autenticacao" {
		t.Fatalf("unexpected authentication: %+v", tx.Authentication)
	}
	if tx.Authorization == nil || tx.Authorization.LR != 0 || tx.Authorization.Message != "Transacao autorizada" {
		t.Fatalf("unexpected authorization: %+v", tx.Authorization)
	}
	if tx.Capture == nil || tx.Cancel != nil || tx.AuthenticationURL != "" {
		t.Fatalf("unexpected optional blocks: %+v", tx)
	}
}

func TestResponses_Errors(t *testing.T) {
	ctx := context.Background()
	reg, _ := Responses()

	_, err := reg.DecodeBytes(ctx, []byte(`<erro><codigo>98</codigo><mensagem>Timeout</mensagem></erro>`))
	var te *TimeoutError
	if !errors.As(err, &te) || !errors.Is(err, ErrTimeout) || !errors.Is(err, xmlskema.ErrRemote) {
		t.Fatalf("expected TimeoutError, got %T %v", err, err)
	}
	_, err = reg.DecodeBytes(ctx, []byte(`<erro><codigo>97</codigo><mensagem>Sistema indisponivel</mensagem></erro>`))
	if !errors.Is(err, ErrSystemUnavailable) {
		t.Fatalf("expected ErrSystemUnavailable, got %v", err)
	}
	_, err = reg.DecodeBytes(ctx, []byte(`<erro><codigo>1</codigo><mensagem>Mensagem inválida</mensagem></erro>`))
	var re *xmlskema.RemoteError
	if !errors.As(err, &re) || re.Code != 1 || errors.Is(err, ErrTimeout) {
		t.Fatalf("expected generic RemoteError, got %T %v", err, err)
	}
	_, err = reg.DecodeBytes(ctx, []byte(`<erro id="a1" versao="1.1.1"><codigo>98</codigo><mensagem>Timeout</mensagem></erro>`))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout with root attributes, got %v", err)
	}
	v, err := xmldoc.Decode(ctx, Error(), []byte(`<erro id="a1" versao="1.1.1"><codigo>1</codigo><mensagem>m</mensagem></erro>`))
	if err != nil {
		t.Fatalf("decode erro: %v", err)
	}
	if obj := v.(*xmlskema.Object); obj.String("id") != "a1" || obj.String("version") != "1.1.1" {
		t.Fatalf("unexpected erro attributes %v", obj.Map())
	}
	_, err = reg.DecodeBytes(ctx, []byte(`<retorno-desconhecido/>`))
	if !errors.Is(err, xmlskema.ErrUnrecognizedResponse) {
		t.Fatalf("expected ErrUnrecognizedResponse, got %v", err)
	}
}

func TestRoundTrip_MoneyThroughDocuments(t *testing.T) {
	ctx := context.Background()
	req, err := xmldoc.Encode(ctx, TransactionRequest(), validRequest())
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if !strings.Contains(string(req), "<valor>20021</valor>") {
		t.Fatalf("request misses the amount:\n%s", req)
	}
	back, err := xmldoc.Decode(ctx, TransactionRequest(), req)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	got := back.(*xmlskema.Object).Object("order").Decimal("value")
	if !got.Equal(decimal.RequireFromString("200.21")) {
		t.Fatalf("unexpected amount %v", got)
	}
}
