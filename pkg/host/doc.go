// Package host models the admin platform an options page plugs into: the
// settings store that persists tab namespaces and queues banner messages, the
// admin menu, the media library, the rich text editor widget and nonce
// issuance. Registry is an in-process SettingsStore over a storage.Backend;
// the other collaborators ship minimal reference implementations.
package host
