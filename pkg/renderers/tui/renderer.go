package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-optionspage/internal/slug"
	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer edits the current tab of a page view through terminal prompts and
// writes the collected submission instead of HTML.
type Renderer struct {
	prompter          Prompter
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	infoWriter        io.Writer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer prompting through survey and writing JSON.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.prompter == nil {
		r.prompter = newSurveyPrompter(r.infoWriter, r.theme.InfoPrefix)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field of the view's current tab and writes the
// resulting submission to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, view render.PageView) error {
	values, err := r.Edit(ctx, view)
	if err != nil {
		return err
	}
	out, err := r.serialize(view.Namespace(), values)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Edit prompts for every field of the view's current tab and returns the raw
// submission, ready for the settings store. Unchecked checkboxes are left out.
func (r *Renderer) Edit(ctx context.Context, view render.PageView) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.prompter == nil {
		return nil, errors.New("tui: prompter is nil")
	}
	if len(view.Sections) == 0 {
		return nil, ErrNoSections
	}

	prefill := make(map[string]string)
	for _, section := range view.Sections {
		for _, fv := range section.Fields {
			if fv.Field.Kind != model.KindHTML {
				prefill[fv.Field.ID] = fv.Value
			}
		}
	}
	errs := make(map[string][]string)
	for _, e := range view.Errors {
		if e.IsError() {
			errs[e.Code] = append(errs[e.Code], e.Message)
		}
	}
	state := NewState(prefill, errs)

	for _, notice := range view.Errors {
		prefix := r.theme.InfoPrefix
		if notice.IsError() {
			prefix = r.theme.ErrorPrefix
		}
		_ = r.prompter.Notify(ctx, prefix+notice.Message)
	}

	for _, section := range view.Sections {
		if section.Name != "" {
			_ = r.prompter.Notify(ctx, "== "+section.Name+" ==")
		}
		for _, fv := range section.Fields {
			if err := r.promptField(ctx, fv.Field, state); err != nil {
				return nil, err
			}
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *State) error {
	switch field.Kind {
	case model.KindHTML:
		return nil
	case model.KindCheckbox:
		return r.promptCheckbox(ctx, field, state)
	case model.KindRadio:
		return r.promptChoice(ctx, field, state, false)
	case model.KindSelect:
		_, multiple := field.Attr("multiple")
		return r.promptChoice(ctx, field, state, multiple)
	case model.KindTextarea, model.KindEditor:
		return r.promptText(ctx, field, state)
	case model.KindImageGallery:
		return r.promptGallery(ctx, field, state)
	case model.KindText, model.KindInput, model.KindColor, model.KindUpload, model.KindImage:
		return r.promptInput(ctx, field, state)
	default:
		return fmt.Errorf("tui: field %q: %w", field.ID, model.ErrUnknownKind)
	}
}

func (r *Renderer) promptInput(ctx context.Context, field model.Field, state *State) error {
	check := inputRules(field)
	for {
		response, err := r.prompter.Ask(ctx, Question{
			Message: r.label(field, state),
			Default: state.Current(field),
			Help:    displayHelp(field),
		})
		if err != nil {
			return err
		}
		if err := check(response); err != nil {
			_ = r.prompter.Notify(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.ID, err))
			continue
		}
		state.Set(field.ID, response)
		return nil
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, state *State) error {
	response, err := r.prompter.Ask(ctx, Question{
		Message:   r.label(field, state),
		Default:   state.Current(field),
		Help:      displayHelp(field),
		Multiline: true,
	})
	if err != nil {
		return err
	}
	state.Set(field.ID, response)
	return nil
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, state *State) error {
	checked, err := r.prompter.Confirm(ctx, r.label(field, state), state.Current(field) == "1")
	if err != nil {
		return err
	}
	if checked {
		state.Set(field.ID, "1")
	} else {
		state.Delete(field.ID)
	}
	return nil
}

// promptChoice covers radio groups and selects. Picks outside the field's
// options are refused and asked again.
func (r *Renderer) promptChoice(ctx context.Context, field model.Field, state *State, multiple bool) error {
	if len(field.Options) == 0 {
		state.Delete(field.ID)
		return nil
	}
	options := sluggedOptions(field.Options)
	var selected []string
	for _, item := range strings.Split(state.Current(field), ",") {
		if value := slug.Make(item); value != "" {
			selected = append(selected, value)
		}
	}
	if !multiple && len(selected) > 1 {
		selected = selected[:1]
	}

	for {
		picked, err := r.prompter.Choose(ctx, Choice{
			Message:  r.label(field, state),
			Help:     displayHelp(field),
			Options:  options,
			Selected: selected,
			Multiple: multiple,
		})
		if err != nil {
			return err
		}
		if !validPick(options, picked, multiple) {
			_ = r.prompter.Notify(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, field.ID))
			continue
		}
		if len(picked) == 0 {
			state.Delete(field.ID)
			return nil
		}
		state.Set(field.ID, strings.Join(picked, ","))
		return nil
	}
}

func (r *Renderer) promptGallery(ctx context.Context, field model.Field, state *State) error {
	response, err := r.prompter.Ask(ctx, Question{
		Message: r.label(field, state),
		Default: state.Current(field),
		Help:    "Comma separated attachment ids",
	})
	if err != nil {
		return err
	}
	// Typed lists often carry spaces after commas.
	ids := model.SplitGallery(response)
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	state.Set(field.ID, model.JoinGallery(ids))
	return nil
}

func (r *Renderer) label(field model.Field, state *State) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if errs := state.ErrorsFor(field.ID); len(errs) > 0 {
		label += " (" + strings.Join(errs, "; ") + ")"
	}
	return r.theme.PromptPrefix + label
}

func (r *Renderer) serialize(namespace string, values map[string]string) ([]byte, error) {
	state := NewState(values, nil)
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, key := range state.Keys() {
			name := key
			if namespace != "" {
				name = namespace + "[" + key + "]"
			}
			form.Set(name, values[key])
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, key := range state.Keys() {
			fmt.Fprintf(&b, "%s=%s\n", key, values[key])
		}
		return []byte(b.String()), nil
	default:
		if values == nil {
			values = map[string]string{}
		}
		return json.Marshal(values)
	}
}

func displayHelp(field model.Field) string {
	if field.Kind == model.KindCheckbox {
		return ""
	}
	return field.Description
}

func sluggedOptions(options []model.Option) []model.Option {
	out := make([]model.Option, 0, len(options))
	for _, opt := range options {
		out = append(out, model.Option{Value: slug.Make(opt.Value), Label: opt.Label})
	}
	return out
}

func validPick(options []model.Option, picked []string, multiple bool) bool {
	if !multiple && len(picked) != 1 {
		return false
	}
	for _, value := range picked {
		found := false
		for _, opt := range options {
			if opt.Value == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// inputRules mirrors the HTML constraints an input carries: number inputs
// must parse and honour min/max, and required inputs must be non-blank.
func inputRules(field model.Field) func(string) error {
	_, required := field.Attr("required")
	inputType, _ := field.Attr("type")
	minRaw, _ := field.Attr("min")
	maxRaw, _ := field.Attr("max")

	return func(value string) error {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			if required {
				return errors.New("required")
			}
			return nil
		}
		if field.Kind != model.KindInput || inputType != "number" {
			return nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if lo, err := strconv.ParseFloat(minRaw, 64); err == nil && n < lo {
			return fmt.Errorf("must be at least %s", minRaw)
		}
		if hi, err := strconv.ParseFloat(maxRaw, 64); err == nil && n > hi {
			return fmt.Errorf("must be at most %s", maxRaw)
		}
		return nil
	}
}
