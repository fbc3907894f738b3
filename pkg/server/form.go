package server

import (
	"net/url"
	"sort"
	"strings"
)

// ParseSubmission collects the inputs named namespace[field] from form.
// Multi-valued inputs (namespace[field][]) are joined with commas. Other
// inputs are ignored.
func ParseSubmission(form url.Values, namespace string) map[string]string {
	prefix := namespace + "["
	out := make(map[string]string)

	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if namespace == "" || !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		multi := strings.HasSuffix(rest, "][]")
		if multi {
			rest = strings.TrimSuffix(rest, "][]")
		} else if strings.HasSuffix(rest, "]") {
			rest = strings.TrimSuffix(rest, "]")
		} else {
			continue
		}
		if rest == "" || strings.ContainsAny(rest, "[]") {
			continue
		}

		values := form[name]
		if multi {
			kept := make([]string, 0, len(values))
			for _, value := range values {
				if value != "" {
					kept = append(kept, value)
				}
			}
			out[rest] = strings.Join(kept, ",")
			continue
		}
		if len(values) > 0 {
			out[rest] = values[len(values)-1]
		}
	}
	return out
}

// redirectTarget returns referer with settings-updated=true when it is a
// local path, or fallback otherwise.
func redirectTarget(referer, fallback string) string {
	target := fallback
	if strings.HasPrefix(referer, "/") && !strings.HasPrefix(referer, "//") && !strings.HasPrefix(referer, "/\\") {
		target = referer
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return fallback
	}
	query := parsed.Query()
	query.Set("settings-updated", "true")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// refererOf is the request URI without settings-updated, so repeated saves do
// not accumulate the flag.
func refererOf(u *url.URL) string {
	clone := *u
	query := clone.Query()
	query.Del("settings-updated")
	clone.RawQuery = query.Encode()
	clone.Scheme, clone.Host, clone.User = "", "", nil
	return clone.RequestURI()
}
