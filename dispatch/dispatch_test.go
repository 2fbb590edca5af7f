package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/dsl"
)

type timeoutError struct{ *xmlskema.RemoteError }

func (e timeoutError) Unwrap() error { return e.RemoteError }

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	errNode := dsl.Object("error").Tag("erro").
		Field("code", codec.Integer()).Tag("codigo").
		Field("message", codec.String()).Tag("mensagem").
		MustBuild()
	tx := dsl.Object("transaction").Tag("transacao").
		Attribute("id", codec.String()).
		Field("tid", codec.String()).
		MustBuild()
	query := dsl.Object("query").Tag("consulta").
		Field("tid", codec.String()).
		MustBuild()
	r, err := New(
		WithErrorSchema(errNode, "code", "message"),
		WithSchema(tx, func(obj *xmlskema.Object) (any, error) { return "tid:" + obj.String("tid"), nil }),
		WithSchema(query, nil),
		WithErrorCode(98, func(base *xmlskema.RemoteError) error { return timeoutError{base} }),
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return r
}

func TestRegistry_ContentSchemas(t *testing.T) {
	ctx := context.Background()
	r := testRegistry(t)
	v, err := r.DecodeBytes(ctx, []byte(`<transacao id="1"><tid>abc</tid></transacao>`))
	if err != nil || v != "tid:abc" {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	v, err = r.DecodeBytes(ctx, []byte(`<consulta><tid>x</tid></consulta>`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if obj, ok := v.(*xmlskema.Object); !ok || obj.String("tid") != "x" {
		t.Fatalf("expected object, got %#v", v)
	}
	if got := r.Roots(); len(got) != 2 || got[0] != "transacao" || got[1] != "consulta" {
		t.Fatalf("unexpected roots: %v", got)
	}
	if _, ok := r.Schema("consulta"); !ok {
		t.Fatalf("schema lookup failed")
	}
}

func TestRegistry_ErrorDocuments(t *testing.T) {
	ctx := context.Background()
	r := testRegistry(t)

	_, err := r.DecodeBytes(ctx, []byte(`<erro><codigo>98</codigo><mensagem>Timeout</mensagem></erro>`))
	var te timeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected timeout variant, got %T %v", err, err)
	}
	var re *xmlskema.RemoteError
	if !errors.As(err, &re) || re.Code != 98 || re.Message != "Timeout" {
		t.Fatalf("expected wrapped RemoteError, got %v", err)
	}

	_, err = r.DecodeBytes(ctx, []byte(`<erro><codigo>1</codigo><mensagem>Mensagem invalida</mensagem></erro>`))
	if !errors.As(err, &re) || re.Code != 1 || errors.As(err, &te) {
		t.Fatalf("unknown code should yield the generic error, got %T %v", err, err)
	}
	if !errors.Is(err, xmlskema.ErrRemote) {
		t.Fatalf("expected ErrRemote")
	}
}

func TestRegistry_Failures(t *testing.T) {
	ctx := context.Background()
	r := testRegistry(t)

	_, err := r.DecodeBytes(ctx, []byte(`<desconhecido/>`))
	var ue *xmlskema.UnrecognizedResponseError
	if !errors.As(err, &ue) || ue.Name != "desconhecido" {
		t.Fatalf("expected UnrecognizedResponseError, got %v", err)
	}
	if _, err := r.DecodeBytes(ctx, []byte(`<transacao>`)); !errors.Is(err, xmlskema.ErrDocumentParse) {
		t.Fatalf("expected ErrDocumentParse, got %v", err)
	}
	if _, err := r.DecodeBytes(ctx, []byte(`<transacao id="1"/>`)); !errors.Is(err, xmlskema.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing tid, got %v", err)
	}
	if _, err := r.DecodeBytes(ctx, []byte(`<erro><codigo>x</codigo><mensagem>m</mensagem></erro>`)); !errors.Is(err, xmlskema.ErrValidation) {
		t.Fatalf("malformed error document should be a validation error, got %v", err)
	}
}

func TestNew_DuplicateRoot(t *testing.T) {
	n := dsl.Object("a").Field("x", codec.String()).MustBuild()
	if _, err := New(WithSchema(n, nil), WithSchema(n, nil)); err == nil {
		t.Fatalf("expected duplicate root error")
	}
	if _, err := New(WithSchema(nil, nil)); err == nil {
		t.Fatalf("expected nil schema error")
	}
}

func ExampleRegistry_DecodeBytes() {
	reg := MustNew(WithSchema(dsl.Object("ping").Field("n", codec.Integer()).MustBuild(), nil))
	v, _ := reg.DecodeBytes(context.Background(), []byte(`<ping><n>7</n></ping>`))
	fmt.Println(v.(*xmlskema.Object).Int("n"))
	// Output: 7
}
