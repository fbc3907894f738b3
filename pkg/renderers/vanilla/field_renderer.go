package vanilla

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-optionspage/internal/slug"
	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
)

// FieldOption configures a FieldRenderer.
type FieldOption func(*FieldRenderer)

// WithMedia sets the media store used by image and gallery fields.
func WithMedia(media host.MediaStore) FieldOption {
	return func(r *FieldRenderer) {
		if media != nil {
			r.media = media
		}
	}
}

// WithEditor sets the rich text widget used by editor fields.
func WithEditor(editor host.EditorWidget) FieldOption {
	return func(r *FieldRenderer) {
		if editor != nil {
			r.editor = editor
		}
	}
}

// WithLabels overrides button and link captions.
func WithLabels(labels render.Labels) FieldOption {
	return func(r *FieldRenderer) {
		r.labels = labels.WithDefaults()
	}
}

// WithPlaceholderImage sets the preview shown by empty image fields.
func WithPlaceholderImage(src string) FieldOption {
	return func(r *FieldRenderer) {
		if strings.TrimSpace(src) != "" {
			r.placeholder = src
		}
	}
}

// FieldRenderer writes the control markup of a single field. Output depends
// only on the field, the namespace and the current value, plus whatever the
// media store reports for attachment ids.
type FieldRenderer struct {
	media       host.MediaStore
	editor      host.EditorWidget
	labels      render.Labels
	placeholder string
}

// NewFieldRenderer builds a renderer with an empty media library and the
// textarea editor unless options say otherwise.
func NewFieldRenderer(opts ...FieldOption) *FieldRenderer {
	r := &FieldRenderer{
		media:       host.NewMemoryMedia(),
		editor:      host.TextareaEditor{},
		labels:      render.DefaultLabels(),
		placeholder: DefaultPlaceholderImage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLabels returns a copy of r using labels, for per-request localisation.
func (r *FieldRenderer) WithLabels(labels render.Labels) *FieldRenderer {
	clone := *r
	clone.labels = labels.WithDefaults()
	return &clone
}

// Render writes field's control for namespace with the given current value.
func (r *FieldRenderer) Render(ctx context.Context, w io.Writer, namespace string, field model.Field, current string) error {
	var b strings.Builder

	switch field.Kind {
	case model.KindText:
		r.input(&b, namespace, field, current, map[string]string{"class": string(ClassRegularText)})
	case model.KindInput:
		r.input(&b, namespace, field, current, nil)
	case model.KindColor:
		r.input(&b, namespace, field, current, map[string]string{"class": string(ClassColorField)})
	case model.KindTextarea:
		r.textarea(&b, namespace, field, current)
	case model.KindEditor:
		if err := r.editorField(&b, namespace, field, current); err != nil {
			return fmt.Errorf("vanilla: render editor %q: %w", field.ID, err)
		}
	case model.KindCheckbox:
		r.checkbox(&b, namespace, field, current)
	case model.KindRadio:
		r.radio(&b, namespace, field, current)
	case model.KindSelect:
		r.selectField(&b, namespace, field, current)
	case model.KindUpload:
		r.upload(&b, namespace, field, current)
	case model.KindImage:
		r.image(ctx, &b, namespace, field, current)
	case model.KindImageGallery:
		r.gallery(ctx, &b, namespace, field, current)
	case model.KindHTML:
		b.WriteString(field.Description)
	default:
		return fmt.Errorf("vanilla: field %q: %w: %q", field.ID, model.ErrUnknownKind, field.Kind)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderString is Render into a string.
func (r *FieldRenderer) RenderString(ctx context.Context, namespace string, field model.Field, current string) (string, error) {
	var b strings.Builder
	if err := r.Render(ctx, &b, namespace, field, current); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *FieldRenderer) input(b *strings.Builder, namespace string, field model.Field, current string, overrides map[string]string) {
	attrs := map[string]string{"type": "text"}
	if value, ok := field.Attr("type"); ok && strings.TrimSpace(value) != "" {
		attrs["type"] = value
	}
	for key, value := range overrides {
		attrs[key] = value
	}

	b.WriteString(`<input`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	writeAttr(b, "value", current)
	writeAttributes(b, field, attrs, "id", "name", "value")
	b.WriteString(` />`)
	writeDescription(b, field)
}

func (r *FieldRenderer) textarea(b *strings.Builder, namespace string, field model.Field, current string) {
	defaults := map[string]string{}
	if _, ok := field.Attr("cols"); !ok {
		defaults["cols"] = "60"
	}
	if _, ok := field.Attr("rows"); !ok {
		defaults["rows"] = "5"
	}

	b.WriteString(`<textarea`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	writeAttributes(b, field, defaults, "id", "name")
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(current))
	b.WriteString(`</textarea>`)
	writeDescription(b, field)
}

func (r *FieldRenderer) editorField(b *strings.Builder, namespace string, field model.Field, current string) error {
	b.WriteString(`<div class="`)
	b.WriteString(string(ClassEditorWrap))
	b.WriteString(`" style="width: 600px;">`)
	if err := r.editor.Render(b, field.ID, inputName(namespace, field.ID), render.AutoParagraph(current), field.EditorOptions()); err != nil {
		return err
	}
	b.WriteString(`</div>`)
	writeDescription(b, field)
	return nil
}

func (r *FieldRenderer) checkbox(b *strings.Builder, namespace string, field model.Field, current string) {
	b.WriteString(`<input type="checkbox"`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	b.WriteString(` value="1"`)
	if strings.TrimSpace(current) == "1" {
		b.WriteString(` checked="checked"`)
	}
	writeAttributes(b, field, nil, "id", "name", "value", "type", "checked")
	b.WriteString(` />`)

	if strings.TrimSpace(field.Description) != "" {
		b.WriteString(`<label for="`)
		b.WriteString(html.EscapeString(field.ID))
		b.WriteString(`"> `)
		b.WriteString(field.Description)
		b.WriteString(`</label>`)
	}
}

func (r *FieldRenderer) radio(b *strings.Builder, namespace string, field model.Field, current string) {
	selected := slug.Make(current)
	for _, opt := range field.Options {
		key := slug.Make(opt.Value)
		itemID := field.ID + "_" + key

		b.WriteString(`<input type="radio"`)
		writeAttr(b, "id", itemID)
		writeAttr(b, "name", inputName(namespace, field.ID))
		writeAttr(b, "value", key)
		if key == selected {
			b.WriteString(` checked="checked"`)
		}
		writeAttributes(b, field, nil, "id", "name", "value", "type", "checked")
		b.WriteString(` />`)
		b.WriteString(`<label for="`)
		b.WriteString(html.EscapeString(itemID))
		b.WriteString(`"> `)
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString(`</label><br />`)
	}
	writeDescription(b, field)
}

func (r *FieldRenderer) selectField(b *strings.Builder, namespace string, field model.Field, current string) {
	_, multiple := field.Attr("multiple")
	name := inputName(namespace, field.ID)

	selected := make(map[string]struct{})
	if multiple {
		for value := range splitMulti(current) {
			selected[slug.Make(value)] = struct{}{}
		}
	} else {
		selected[slug.Make(current)] = struct{}{}
	}
	if multiple {
		name += "[]"
	}

	b.WriteString(`<select`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", name)
	writeAttributes(b, field, nil, "id", "name")
	b.WriteString(`>`)
	for _, opt := range field.Options {
		key := slug.Make(opt.Value)
		b.WriteString(`<option`)
		writeAttr(b, "value", key)
		if _, ok := selected[key]; ok {
			b.WriteString(` selected="selected"`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	writeDescription(b, field)
}

func (r *FieldRenderer) upload(b *strings.Builder, namespace string, field model.Field, current string) {
	b.WriteString(`<input type="text"`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	writeAttr(b, "value", cleanURL(current))
	writeAttributes(b, field, map[string]string{"class": string(ClassRegularText)}, "id", "name", "value", "type")
	b.WriteString(` /> <input`)
	writeAttr(b, "class", string(ClassUploadButton))
	writeAttr(b, "id", field.ID+"-button")
	b.WriteString(` type="button"`)
	writeAttr(b, "value", r.labels.SelectFile)
	b.WriteString(` />`)
	writeDescription(b, field)
}

func (r *FieldRenderer) image(ctx context.Context, b *strings.Builder, namespace string, field model.Field, current string) {
	preview := r.placeholder
	if id := strings.TrimSpace(current); id != "" {
		if src, ok := r.media.Thumbnail(ctx, id); ok {
			preview = src
		}
	}

	b.WriteString(`<span class="`)
	b.WriteString(string(ClassDefaultImage))
	b.WriteString(`" style="display: none;">`)
	b.WriteString(html.EscapeString(r.placeholder))
	b.WriteString(`</span>`)

	b.WriteString(`<input`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	b.WriteString(` type="hidden"`)
	writeAttr(b, "class", string(ClassUploadImage))
	writeAttr(b, "value", current)
	b.WriteString(` />`)

	b.WriteString(`<img`)
	writeAttr(b, "src", preview)
	writeAttr(b, "class", string(ClassPreviewImage))
	b.WriteString(` style="height: 150px; width: 150px;" alt="" /><br />`)

	b.WriteString(`<input`)
	writeAttr(b, "id", field.ID+"-button")
	writeAttr(b, "class", string(ClassImageButton))
	b.WriteString(` type="button"`)
	writeAttr(b, "value", r.labels.SelectImage)
	b.WriteString(` /><small> <a href="#"`)
	writeAttr(b, "class", string(ClassClearImage))
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(r.labels.RemoveImage))
	b.WriteString(`</a></small>`)
	writeDescription(b, field)
}

func (r *FieldRenderer) gallery(ctx context.Context, b *strings.Builder, namespace string, field model.Field, current string) {
	b.WriteString(`<div class="`)
	b.WriteString(string(ClassGallery))
	b.WriteString(`"><ul class="`)
	b.WriteString(string(ClassGalleryList))
	b.WriteString(`">`)
	for _, id := range model.SplitGallery(current) {
		b.WriteString(`<li class="image"`)
		writeAttr(b, "data-attachment_id", id)
		b.WriteString(`>`)
		b.WriteString(r.media.ImageTag(ctx, id))
		b.WriteString(`<ul class="actions"><li><a href="#" class="delete"`)
		writeAttr(b, "title", r.labels.RemoveImage)
		b.WriteString(`>X</a></li></ul></li>`)
	}
	b.WriteString(`</ul><div class="clear"></div>`)

	b.WriteString(`<input type="hidden"`)
	writeAttr(b, "id", field.ID)
	writeAttr(b, "name", inputName(namespace, field.ID))
	writeAttr(b, "value", current)
	writeAttr(b, "class", string(ClassGalleryField))
	b.WriteString(` />`)

	b.WriteString(`<p class="`)
	b.WriteString(string(ClassGalleryAdd))
	b.WriteString(`"><a href="#">`)
	b.WriteString(html.EscapeString(r.labels.AddGalleryImages))
	b.WriteString(`</a></p></div>`)
	writeDescription(b, field)
}
