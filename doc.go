// Package xmlskema converts application values to XML documents and back
// through a declarative schema tree.
//
// The conversion runs in two stages:
//
//   - the schema tree (Node) validates an appstruct and turns it into a
//     canonical Value of strings and ordered mappings, or the reverse;
//   - the structural mapper (ToDocument, FromDocument) turns a canonical
//     Value into an Element tree using only wire names, placement and child
//     order.
//
// Scalar conversions are delegated to Type adapters (see the codec package);
// xmldoc serializes and parses Element trees and dispatch selects a schema
// from the root element of a response.
//
// Validation failures are reported as Issues, a stable error model keyed by
// JSON Pointer paths over semantic field names:
//
//	v, err := order.Encode(ctx, obj)
//	if iss, ok := xmlskema.AsIssues(err); ok {
//		for _, it := range iss {
//			log.Printf("%s at %s", it.Code, it.Path)
//		}
//	}
//	el, err := xmlskema.ToDocument(order, v)
//
// By default every issue is collected; WithFailFast stops at the first one.
package xmlskema
