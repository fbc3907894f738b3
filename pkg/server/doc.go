// Package server hosts options pages over HTTP with a chi router.
//
// GET {admin}?page=<id>&tab=<tab> and GET {admin}/<id> render a page after a
// capability check. POST {options} accepts the form a page renders: it
// verifies the nonce bound to option_page, collects the <tab>[<field>]
// inputs, submits them through the settings store (which runs the page
// sanitizer) and redirects back to the referring tab with
// settings-updated=true.
package server
