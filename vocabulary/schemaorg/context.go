package schemaorg

import _ "embed"

// ContextURL is the context IRI publishers reference.
const ContextURL = "https://schema.org"

// ContextURLs are the spellings of the Schema.org context IRI served from
// ContextDocument.
var ContextURLs = []string{
	"https://schema.org",
	"https://schema.org/",
	"http://schema.org",
	"http://schema.org/",
	"https://schema.org/docs/jsonldcontext.jsonld",
	"http://schema.org/docs/jsonldcontext.jsonld",
	"https://schema.org/docs/jsonldcontext.json",
}

// ContextDocument is a compact Schema.org context: the vocabulary mapping
// plus the terms whose values are node references.
//
//go:embed context.jsonld
var ContextDocument []byte
