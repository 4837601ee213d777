// Package page turns a web page into the inputs of the knowledge graph
// builder.
//
// # Overview
//
// A page is fetched, its embedded JSON-LD blocks are extracted and expanded,
// and its visible content is converted to Markdown for the report.
//
//   - Fetcher: HTTP client with SSRF protection, size limit and ETag support
//   - ExtractJSONLD / CombineBlocks: JSON-LD script discovery
//   - Expander: JSON-LD expansion into graph documents
//   - Converter: HTML to Markdown with optional readability extraction
//
// # Security
//
// The fetcher validates the URL and every redirect target, and resolves host
// names itself so that a public name pointing at a private address is
// refused at dial time.
//
// # Contexts
//
// The Schema.org context is served from an embedded copy unless remote
// contexts are requested. Other remote contexts are fetched once through the
// fetcher's HTTP client and cached for the lifetime of the Expander.
package page
