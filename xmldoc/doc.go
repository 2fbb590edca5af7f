// Package xmldoc converts document trees to and from XML bytes and chains
// them with the schema tree.
//
// Marshal writes an XML declaration naming the output encoding (ISO-8859-1 by
// default, UTF-8 on request), self-closes empty elements and writes characters
// the target charset lacks as numeric character references. Parse accepts any
// declared charset, strips namespaces from element and attribute names and
// drops whitespace between child elements.
package xmldoc
