// Package dsl provides a fluent builder for xmlskema schema trees.
//
// Overview
//   - Object(name) starts a mapping; Field/Attribute/Nested add children in
//     serialization order.
//   - Each field step accepts Tag (wire name), Attr (attribute placement),
//     Optional, Default and Validate; Refine adds cross-field rules to the
//     mapping.
//   - Build validates the definition (unique names, attribute placement) and
//     returns an immutable *xmlskema.Node; MustBuild panics instead.
//
// Example
//
//	order := dsl.Object("order").Tag("dados-pedido").
//	    Field("number", codec.String()).Tag("numero").Validate(rules.MaxLength(20)).
//	    Field("value", codec.Money()).Tag("valor").Validate(rules.Range("0.01", nil)).
//	    Field("language", codec.String()).Tag("idioma").Default("PT").
//	    MustBuild()
//
//	req := dsl.Object("request").
//	    Attribute("id", codec.String()).
//	    Nested("order", order).
//	    MustBuild()
//
// Fields are required unless Optional or Default is called. Defaults are
// substituted on decode only and are not validated.
package dsl
