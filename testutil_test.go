package xmlskema_test

import (
	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/rules"
)

// orderNode is a small two-level schema shared by the root package tests.
func orderNode() *xmlskema.Node {
	item := xmlskema.MustMapping("item", []*xmlskema.Node{
		xmlskema.Scalar("sku", codec.String(), xmlskema.AsAttribute()),
		xmlskema.Scalar("qty", codec.Integer(), xmlskema.Tag("quantidade"), xmlskema.Validate(rules.Range(1, 99))),
	}, xmlskema.Tag("produto"))
	return xmlskema.MustMapping("order", []*xmlskema.Node{
		xmlskema.Scalar("id", codec.String(), xmlskema.AsAttribute()),
		xmlskema.Scalar("number", codec.String(), xmlskema.Tag("numero"), xmlskema.Validate(rules.MaxLength(5))),
		xmlskema.Scalar("value", codec.Money(), xmlskema.Tag("valor")),
		xmlskema.Scalar("note", codec.String(), xmlskema.Tag("obs"), xmlskema.Optional()),
		xmlskema.Scalar("lang", codec.String(), xmlskema.Tag("idioma"), xmlskema.Default("PT")),
		item,
	}, xmlskema.Tag("pedido"))
}
