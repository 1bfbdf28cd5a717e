package core

// HookKind identifies a recognized sentinel hook variant (spec §3).
type HookKind struct {
	// Extracted is the sentinel export name (e.g. "useExtracted").
	Extracted string
	// Target is the production export name it is rewritten to
	// (e.g. "useTranslations").
	Target string
	// SourceModule is the module specifier the sentinel must be imported
	// from.
	SourceModule string
	// ReservedLocal is the local binding used for the rewritten import —
	// a sigil-prefixed identifier no author can write.
	ReservedLocal string
}

// Well-known hook kinds, per spec §6 "Recognized module specifiers".
var (
	HookUseTranslation = HookKind{
		Extracted:     "useExtracted",
		Target:        "useTranslations",
		SourceModule:  "next-intl",
		ReservedLocal: "$useTranslations1",
	}
	HookGetTranslation = HookKind{
		Extracted:     "getExtracted",
		Target:        "getTranslations",
		SourceModule:  "next-intl/server",
		ReservedLocal: "$getTranslations1",
	}
)

// BindingKey pairs a local name with the lexical-context tag that
// disambiguates it from same-named bindings in other scopes. When the host
// provides a resolver, Context is that resolver's unique tag; otherwise it is
// left empty and ScopeStack alone provides disambiguation (spec Design Note a).
type BindingKey struct {
	Name    string
	Context string
}

// TranslatorInfo is what is recorded about a translator binding: its
// optional namespace (spec §3 TranslatorBinding), plus whether the hook it
// came from was itself rewritten from a sentinel. A translator obtained from
// a direct, already-correct production-hook import needs no call-site
// rewriting — its message arguments are taken as literal catalog references
// rather than text to derive a key from.
type TranslatorInfo struct {
	Namespace    string
	HasNS        bool
	FromSentinel bool
}

// Reference is a source location an extracted or referenced message appears
// at, used downstream for catalog maintenance.
type Reference struct {
	Path   string `json:"path"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// MessageType distinguishes catalog-defining call sites from catalog-consuming
// ones (spec §4.8 / §6).
type MessageType string

const (
	MessageExtracted    MessageType = "Extracted"
	MessageTranslations MessageType = "Translations"
)

// Message is the tagged union member of ModuleOutput.Messages.
type Message struct {
	Type        MessageType `json:"type"`
	ID          string      `json:"id"`
	Message     string      `json:"message,omitempty"`
	Description *string     `json:"description,omitempty"`
	References  []Reference `json:"references"`
}

// DiagnosticCode enumerates the non-fatal diagnostics the engine can emit
// (spec §7).
type DiagnosticCode string

const (
	DiagDynamicMessage DiagnosticCode = "DYNAMIC_MESSAGE_EXPRESSION"
)

// Diagnostic is a per-call-site, non-fatal finding surfaced through "the
// host's structured error channel" (spec §4.6/§7). It never halts the
// traversal.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
	Line    int            `json:"line"`
	Column  int            `json:"column"`
}

// ModuleOutput is the structured per-file record delivered to the host
// (spec §3/§6).
type ModuleOutput struct {
	Messages     []Message    `json:"messages"`
	Dependencies []string     `json:"dependencies"`
	HasUseClient bool         `json:"hasUseClient"`
	HasUseServer bool         `json:"hasUseServer"`
	Diagnostics  []Diagnostic `json:"-"`
}

// Config is the plugin metadata a host compiler would supply (spec §6).
// FilePath is required: Transform rejects an empty one. IsDevelopment
// defaults to false.
type Config struct {
	IsDevelopment bool
	FilePath      string
}

// Result is what Transform hands back: the rewritten source plus the
// structured side-channel payload.
type Result struct {
	Code   []byte
	Output ModuleOutput
}
