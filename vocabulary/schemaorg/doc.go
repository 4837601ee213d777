// Package schemaorg provides Schema.org vocabulary terms used when reading
// JSON-LD graphs.
//
// Pages publish Schema.org data under two namespaces (https://schema.org/ and
// the legacy http://schema.org/) and, when the document was never expanded,
// under bare short names. Keys returns all three spellings of a term in the
// order property lookups try them.
//
// # Usage
//
//	name, ok := resolve.PropertyText(node, schemaorg.Keys(schemaorg.PropName))
//
// Class and property names are plain short names ("Product", "hasVariant");
// the IRI forms are built with IRI and LegacyIRI.
package schemaorg
