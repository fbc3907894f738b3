// Package definition loads options pages from YAML or JSON documents so a
// host can declare its settings without Go code:
//
//	pages:
//	  - id: theme-options
//	    title: Theme Options
//	    capability: edit_theme_options
//	    rules:
//	      - key: accent
//	        expr: value.matches('^#[0-9a-fA-F]{6}$')
//	        message: Accent must be a hex color.
//	    tabs:
//	      - id: general
//	        name: General
//	        sections:
//	          - id: basics
//	            name: Basics
//	            fields:
//	              - {id: site_title, label: Site title, type: text}
//	              - id: layout
//	                label: Layout
//	                type: radio
//	                default: wide
//	                options:
//	                  wide: Wide
//	                  boxed: Boxed
//
// Options may be written as a mapping (document order is kept) or as a
// sequence of {value, label} pairs.
package definition
