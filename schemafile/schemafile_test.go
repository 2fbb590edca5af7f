package schemafile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/dsl"
	"github.com/reoring/xmlskema/rules"
)

const sample = `
schemas:
  - name: establishment
    tag: dados-ec
    fields:
      - {name: number, tag: numero, type: string, validate: [{maxLength: 20}]}
      - {name: key, tag: chave, type: string, validate: [{maxLength: 100}]}
  - name: query
    tag: requisicao-consulta
    fields:
      - {name: id, type: string, attribute: true}
      - {name: version, tag: versao, type: string, attribute: true}
      - {name: tid, type: string, validate: [{length: {max: 40}}]}
      - {name: establishment, ref: establishment}
      - name: card
        tag: dados-portador
        optional: true
        fields:
          - {name: indicator, tag: indicador, type: flag}
          - {name: code, tag: codigo-seguranca, type: string, optional: true, validate: [{length: {min: 3, max: 4}}]}
        rules:
          - name: code-when-set
            if: {path: /indicator, op: eq, value: "yes"}
            require: [code]
      - {name: language, tag: idioma, type: string, default: PT, validate: [{oneOf: [PT, EN, ES]}]}
      - {name: status, type: integer, optional: true, validate: [{oneOf: [0, 1, 2]}]}
      - {name: value, tag: valor, type: money, optional: true, validate: [{range: {min: "0.01", max: "9999999999.99"}}]}
`

func flag() xmlskema.Type {
	return codec.Indicator("flag", codec.IndicatorCode{Symbol: "no", Code: 0}, codec.IndicatorCode{Symbol: "yes", Code: 1})
}

func load(t *testing.T) *Set {
	t.Helper()
	s, err := Load([]byte(sample), WithType("flag", flag()))
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	return s
}

type shape struct {
	Name, Wire, Type string
	Kind             xmlskema.NodeKind
	Place            xmlskema.Placement
	Required         bool
	Default          any
	Validators       int
	Children         []shape
}

func shapeOf(n *xmlskema.Node) shape {
	s := shape{Name: n.Name(), Wire: n.WireName(), Kind: n.Kind(), Place: n.Placement(), Required: n.Required(), Validators: n.Validators()}
	if n.Type() != nil {
		s.Type = n.Type().Name()
	}
	s.Default, _ = n.Default()
	for _, c := range n.Children() {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func TestLoad_MatchesBuilder(t *testing.T) {
	s := load(t)
	if got := s.Names(); !reflect.DeepEqual(got, []string{"establishment", "query"}) {
		t.Fatalf("unexpected names: %v", got)
	}
	ec := dsl.Object("establishment").Tag("dados-ec").
		Field("number", codec.String()).Tag("numero").Validate(rules.MaxLength(20)).
		Field("key", codec.String()).Tag("chave").Validate(rules.MaxLength(100)).
		MustBuild()
	card := dsl.Object("card").Tag("dados-portador").Optional().
		Field("indicator", flag()).Tag("indicador").
		Field("code", codec.String()).Tag("codigo-seguranca").Optional().Validate(rules.Length(3, 4)).
		MustBuild()
	want := dsl.Object("query").Tag("requisicao-consulta").
		Attribute("id", codec.String()).
		Attribute("version", codec.String()).Tag("versao").
		Field("tid", codec.String()).Validate(rules.MaxLength(40)).
		Nested("establishment", ec).
		Nested("card", card).Optional().
		Field("language", codec.String()).Tag("idioma").Default("PT").Validate(rules.OneOf("PT", "EN", "ES")).
		Field("status", codec.Integer()).Optional().Validate(rules.OneOf(0, 1, 2)).
		Field("value", codec.Money()).Tag("valor").Optional().Validate(rules.Range("0.01", "9999999999.99")).
		MustBuild()
	if got, exp := shapeOf(s.MustGet("query")), shapeOf(want); !reflect.DeepEqual(got, exp) {
		t.Fatalf("shape mismatch:\n got %+v\nwant %+v", got, exp)
	}
}

func TestLoad_DecodesWithValidatorsAndRules(t *testing.T) {
	ctx := context.Background()
	q := load(t).MustGet("query")
	base := xmlskema.Fields(
		xmlskema.Entry{Name: "id", Value: xmlskema.Text("1")},
		xmlskema.Entry{Name: "version", Value: xmlskema.Text("1.1.1")},
		xmlskema.Entry{Name: "tid", Value: xmlskema.Text("abc")},
		xmlskema.Entry{Name: "establishment", Value: xmlskema.Fields(
			xmlskema.Entry{Name: "number", Value: xmlskema.Text("1006993069")},
			xmlskema.Entry{Name: "key", Value: xmlskema.Text("k")},
		)},
		xmlskema.Entry{Name: "status", Value: xmlskema.Text("2")},
	)
	out, err := q.Decode(ctx, base)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if obj := out.(*xmlskema.Object); obj.String("language") != "PT" || obj.Int("status") != 2 {
		t.Fatalf("unexpected decode: %v", obj)
	}

	_, err = q.Decode(ctx, base.With("status", xmlskema.Text("7")))
	if iss, _ := xmlskema.AsIssues(err); len(iss) != 1 || iss[0].Code != xmlskema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}

	withCard := base.With("card", xmlskema.Fields(xmlskema.Entry{Name: "indicator", Value: xmlskema.Text("1")}))
	_, err = q.Decode(ctx, withCard)
	iss, _ := xmlskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/card/code" || iss[0].Rule != "require" {
		t.Fatalf("expected rule issue, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown type": `
schemas:
  - name: a
    fields: [{name: x, type: nope}]`,
		"unknown ref": `
schemas:
  - name: a
    fields: [{name: x, ref: b}]`,
		"type and ref": `
schemas:
  - name: b
    fields: [{name: y, type: string}]
  - name: a
    fields: [{name: x, type: string, ref: b}]`,
		"two validators": `
schemas:
  - name: a
    fields: [{name: x, type: string, validate: [{maxLength: 1, pattern: "x"}]}]`,
		"bad pattern": `
schemas:
  - name: a
    fields: [{name: x, type: string, validate: [{pattern: "("}]}]`,
		"duplicate": `
schemas:
  - name: a
    fields: [{name: x, type: string}]
  - name: a
    fields: [{name: x, type: string}]`,
		"bad op": `
schemas:
  - name: a
    fields: [{name: x, type: string}]
    rules: [{name: r, if: {path: /x, op: like}, require: [x]}]`,
	}
	for name, doc := range cases {
		if _, err := Load([]byte(doc)); !errors.Is(err, xmlskema.ErrInvalidSchema) {
			t.Fatalf("%s: expected ErrInvalidSchema, got %v", name, err)
		}
	}
	if _, err := Load([]byte("schemas: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
