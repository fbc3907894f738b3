package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
		{name: "already slug", in: "general", want: "general"},
		{name: "uppercase", in: "General", want: "general"},
		{name: "spaces", in: "Social Networks", want: "social-networks"},
		{name: "punctuation collapses", in: "Foo, Bar & Baz!", want: "foo-bar-baz"},
		{name: "leading and trailing punctuation", in: "--Hello--", want: "hello"},
		{name: "underscore kept", in: "site_logo", want: "site_logo"},
		{name: "accents folded", in: "Ação Rápida", want: "acao-rapida"},
		{name: "digits", in: "Option 2", want: "option-2"},
		{name: "dots become hyphens", in: "v1.2.3", want: "v1-2-3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Make(tc.in); got != tc.want {
				t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	inputs := []string{"Foo Bar", "Ação", "a--b", "Hello, World", "x_y z"}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("slug not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Dark Mode", "dark-mode") {
		t.Fatalf("expected labels to normalise to the same slug")
	}
	if Equal("light", "dark") {
		t.Fatalf("expected different slugs to compare unequal")
	}
}
