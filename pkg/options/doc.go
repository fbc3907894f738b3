// Package options assembles admin settings pages. A Page owns an ordered set
// of tabs, each tab an ordered set of sections holding typed fields. The page
// registers its tabs as storage namespaces with a host.SettingsStore, resolves
// the active tab for a request, renders navigation plus the current tab's form
// and sanitizes submissions through an injected validation.Filter.
//
// Typical wiring:
//
//	page := options.New("theme-options", "Theme Options",
//		options.WithFilter(validation.TrimSpace),
//	)
//	general := page.AddTab("general", "General")
//	general.AddSection("basics", "Basics").
//		AddText("site_title", "Site title", "", "", nil).
//		AddCheckbox("enable", "Enable", "0", "Turn the feature on", nil)
//
//	if err := page.RegisterSettings(ctx, registry); err != nil { ... }
//	err := page.RenderPage(ctx, w, options.RenderRequest{Tab: r.URL.Query().Get("tab")})
package options
