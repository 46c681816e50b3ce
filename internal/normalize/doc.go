// Package normalize contains the per-field coercion rules applied while
// migrating legacy rows into the target schema. Every function is pure:
// raw text in, canonical value or a classified error out.
package normalize
