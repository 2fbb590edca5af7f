package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/cielo"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const transacao = `<?xml version="1.0" encoding="ISO-8859-1"?>
<transacao versao="1.1.1" id="5">
  <tid>10017348980735271001</tid>
  <dados-pedido>
    <numero>abc</numero>
    <valor>1000</valor>
    <moeda>986</moeda>
    <data-hora>2012-08-11T08:48:23.659-03:00</data-hora>
    <idioma>PT</idioma>
  </dados-pedido>
  <forma-pagamento>
    <bandeira>visa</bandeira>
    <produto>1</produto>
    <parcelas>1</parcelas>
  </forma-pagamento>
  <status>4</status>
  <pan>xyz</pan>
</transacao>`

func TestDecode_EmbeddedResponses(t *testing.T) {
	out, err := run(t, transacao, "decode")
	assert.NilError(t, err)
	var got map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, got["TID"], "10017348980735271001")
	assert.Equal(t, got["Status"], float64(cielo.StatusAuthorized))

	_, err = run(t, `<erro><codigo>98</codigo><mensagem>Timeout</mensagem></erro>`, "decode")
	assert.Check(t, errors.Is(err, cielo.ErrTimeout))

	_, err = run(t, `<transacao/>`, "decode", "-")
	assert.Check(t, errors.Is(err, xmlskema.ErrValidation))
}

func TestDecode_ByRoot(t *testing.T) {
	out, err := run(t, `<erro><codigo>1</codigo><mensagem>bad</mensagem></erro>`, "decode", "--root", "error")
	assert.NilError(t, err)
	var got map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &got))
	assert.DeepEqual(t, got, map[string]any{"code": float64(1), "message": "bad"})

	_, err = run(t, "<erro/>", "decode", "--root", "nope")
	assert.ErrorContains(t, err, `unknown schema "nope"`)
}

func TestEncode_Query(t *testing.T) {
	in := `{"id":"1","version":"1.1.1","tid":"abc","establishment":{"number":"1006993069","key":"k"}}`
	out, err := run(t, in, "encode", "--root", "query", "--no-declaration")
	assert.NilError(t, err)
	assert.Equal(t, out, `<requisicao-consulta id="1" versao="1.1.1"><tid>abc</tid><dados-ec><numero>1006993069</numero><chave>k</chave></dados-ec></requisicao-consulta>`+"\n")

	out, err = run(t, in, "encode", "--root", "query", "--encoding", "UTF-8")
	assert.NilError(t, err)
	assert.Check(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))

	long := strings.Replace(in, `"abc"`, `"`+strings.Repeat("9", 41)+`"`, 1)
	_, err = run(t, long, "encode", "--root", "query")
	assert.Check(t, errors.Is(err, xmlskema.ErrValidation))

	_, err = run(t, "[1]", "encode", "--root", "query")
	assert.ErrorContains(t, err, "parse JSON input")
}

func TestEncode_TransactionFromJSON(t *testing.T) {
	in := `{
	  "id": "1", "version": "1.1.1",
	  "establishment": {"number": "1006993069", "key": "k"},
	  "holder": {"number": "4012001037141112", "expiration_date": "2030-12", "security_code_indicator": "informado", "security_code": "123"},
	  "order": {"number": "178148599", "value": 200.21, "currency": "986", "datetime": "2011-12-07T11:43:37Z"},
	  "payment": {"brand": "visa", "product": "1", "installments": 1},
	  "return_url": "http://example.com",
	  "authorize": 3,
	  "capture": true
	}`
	out, err := run(t, in, "encode", "--root", "transaction_request", "--no-declaration")
	assert.NilError(t, err)
	for _, want := range []string{
		"<validade>203012</validade>",
		"<indicador>1</indicador>",
		"<valor>20021</valor>",
		"<data-hora>2011-12-07T11:43:37</data-hora>",
		"<capturar>true</capturar>",
	} {
		assert.Check(t, is.Contains(out, want))
	}
	// Defaults are a decode concern; an unset language is not written.
	assert.Check(t, !strings.Contains(out, "<idioma>"), out)
}

func TestSchemas(t *testing.T) {
	out, err := run(t, "", "schemas")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "transaction_request"))
	assert.Check(t, is.Contains(out, "requisicao-transacao"))

	out, err = run(t, "", "schemas", "--yaml")
	assert.NilError(t, err)
	assert.Equal(t, out, string(cielo.Definitions()))
}

func TestCustomSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(`
schemas:
  - name: item
    tag: item
    fields:
      - {name: sku, type: string, attribute: true}
      - {name: qty, tag: quantidade, type: integer}
`), 0o600))

	out, err := run(t, `<item sku="A-1"><quantidade>2</quantidade></item>`, "--schema", path, "decode")
	assert.NilError(t, err)
	var got map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &got))
	assert.DeepEqual(t, got, map[string]any{"sku": "A-1", "qty": float64(2)})

	out, err = run(t, `{"sku":"B","qty":7}`, "--schema", path, "encode", "--root", "item", "--no-declaration")
	assert.NilError(t, err)
	assert.Equal(t, out, `<item sku="B"><quantidade>7</quantidade></item>`+"\n")

	_, err = run(t, "", "--schema", filepath.Join(dir, "missing.yaml"), "schemas")
	assert.Check(t, err != nil)
}

func TestQuery(t *testing.T) {
	var form string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form = r.FormValue("mensagem")
		io.WriteString(w, transacao)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "client.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("service_url: "+srv.URL+"\nestablishment_number: \"1006993069\"\nestablishment_key: k\n"), 0o600))

	out, err := run(t, "", "query", "--config", path, "--order", "abc")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(form, "<numero-pedido>abc</numero-pedido>"))
	assert.Check(t, is.Contains(out, "10017348980735271001"))

	_, err = run(t, "", "query", "--config", path)
	assert.ErrorContains(t, err, "exactly one of")
}
