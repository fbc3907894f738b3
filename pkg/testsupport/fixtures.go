package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/goliatone/go-optionspage/pkg/model"
)

// SampleTab builds a tab that exercises every field kind. Tests across
// packages share it so renderer and storage expectations stay aligned.
func SampleTab() *model.Tab {
	tab := model.NewTab("general", "General")
	tab.AddSection("basics", "Basics").
		AddText("title", "Title", "My Site", "Shown in the header", nil).
		AddInput("email", "Email", "", "", map[string]string{"type": "email"}).
		AddTextarea("footer", "Footer", "", "", nil).
		AddEditor("intro", "Intro", "Welcome", "")
	tab.AddSection("toggles", "Toggles").
		AddCheckbox("enable", "Enable", "0", "Turn the feature on", nil).
		AddRadio("layout", "Layout", "wide", "", nil,
			model.Option{Value: "wide", Label: "Wide"},
			model.Option{Value: "Boxed Layout", Label: "Boxed"}).
		AddSelect("color_scheme", "Color scheme", "light", "", nil,
			model.Option{Value: "light", Label: "Light"},
			model.Option{Value: "dark", Label: "Dark"})
	tab.AddSection("media", "Media").
		AddColor("accent", "Accent", "#336699", "", nil).
		AddUpload("logo_file", "Logo file", "", "", nil).
		AddImage("logo", "Logo", "", "").
		AddImageGallery("slides", "Slides", "", "").
		AddHTML("notice", "<em>Images are resized on upload.</em>")
	return tab
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
