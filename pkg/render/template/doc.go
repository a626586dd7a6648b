// Package template renders form values into sentences through per-schema
// templates. The engine contract lives here; gotemplate provides the
// pongo2-backed implementation and Sentence adapts it to render.Renderer.
package template
