// Package template defines the engine seam page renderers use to draw the
// options page chrome. The pongo2 engine lives in the pongo subpackage.
package template
