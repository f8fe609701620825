// Package resource loads and saves the flat key=value files backing the
// locales of a translation project.
//
// Responsibilities:
//   - Ref names one resource: directory, locale and extension. The file name
//     is base[_language[_country[_variant]]] followed by the extension.
//   - Store loads and saves one snapshot (map key -> text) per Ref and lists
//     the resources of a project directory.
//   - FileStore persists .properties files; MemoryStore keeps snapshots in
//     memory for tests and examples.
//
// Meta.SnapshotID is derived from the content, so two equal snapshots share
// an id. Saving with Meta.ETag set fails with ErrETagMismatch when the
// resource changed since it was loaded.
package resource
