package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-optionspage/pkg/model"
)

// Question asks for one free-form setting value.
type Question struct {
	Message   string
	Help      string
	Default   string
	Multiline bool
}

// Choice asks the user to pick among a field's options. Option values and
// Selected are slugs, matching what the page stores.
type Choice struct {
	Message  string
	Help     string
	Options  []model.Option
	Selected []string
	Multiple bool
}

// Prompter is the terminal seam of the editor. Tests script it; the default
// implementation drives survey prompts.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	// Choose returns the picked option values, at most one unless Multiple.
	Choose(ctx context.Context, c Choice) ([]string, error)
	Notify(ctx context.Context, msg string) error
}

type surveyPrompter struct {
	out    io.Writer
	prefix string
}

func newSurveyPrompter(out io.Writer, prefix string) Prompter {
	if out == nil {
		out = os.Stdout
	}
	return &surveyPrompter{out: out, prefix: prefix}
}

func (p *surveyPrompter) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var prompt survey.Prompt = &survey.Input{Message: q.Message, Help: q.Help, Default: q.Default}
	if q.Multiline {
		prompt = &survey.Multiline{Message: q.Message, Help: q.Help, Default: q.Default}
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", surveyErr(err)
	}
	return answer, nil
}

func (p *surveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var answer bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, surveyErr(err)
	}
	return answer, nil
}

func (p *surveyPrompter) Choose(ctx context.Context, c Choice) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := make([]string, len(c.Options))
	byLabel := make(map[string]string, len(c.Options))
	var defaults []string
	for i, opt := range c.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		if _, dup := byLabel[label]; dup {
			label = fmt.Sprintf("%s (%s)", label, opt.Value)
		}
		labels[i] = label
		byLabel[label] = opt.Value
		for _, selected := range c.Selected {
			if selected == opt.Value {
				defaults = append(defaults, label)
			}
		}
	}

	if c.Multiple {
		prompt := &survey.MultiSelect{Message: c.Message, Help: c.Help, Options: labels}
		if len(defaults) > 0 {
			prompt.Default = defaults
		}
		var picked []string
		if err := survey.AskOne(prompt, &picked); err != nil {
			return nil, surveyErr(err)
		}
		out := make([]string, 0, len(picked))
		for _, label := range picked {
			out = append(out, byLabel[label])
		}
		return out, nil
	}

	prompt := &survey.Select{Message: c.Message, Help: c.Help, Options: labels}
	if len(defaults) > 0 {
		prompt.Default = defaults[0]
	}
	var picked string
	if err := survey.AskOne(prompt, &picked); err != nil {
		return nil, surveyErr(err)
	}
	return []string{byLabel[picked]}, nil
}

func (p *surveyPrompter) Notify(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, p.prefix+msg)
	return err
}

func surveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
