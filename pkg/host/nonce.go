package host

// NonceIssuer issues and checks per-action form tokens.
type NonceIssuer interface {
	Issue(action string) string
	Verify(action, token string) bool
}

// StaticNonce accepts one fixed token for every action. It exists for tests
// and single-user tooling.
type StaticNonce string

func (s StaticNonce) Issue(string) string { return string(s) }

func (s StaticNonce) Verify(_ string, token string) bool {
	return s != "" && token == string(s)
}
