package extract

import "github.com/oxhq/extracti18n/internal/core"

// AssembleMessages merges raw per-call-site messages by (type, id): repeated
// references to the same catalog entry within a file collapse into one
// Message with accumulated References, in first-seen order. The first
// occurrence's Message wins; Description is taken from the first occurrence
// that provides one, so a later duplicate can still backfill a description
// the first occurrence omitted (spec §3/§4.8).
func AssembleMessages(raw []core.Message) []core.Message {
	type key struct {
		kind core.MessageType
		id   string
	}
	index := make(map[key]int)
	var out []core.Message

	for _, msg := range raw {
		k := key{kind: msg.Type, id: msg.ID}
		if i, ok := index[k]; ok {
			out[i].References = append(out[i].References, msg.References...)
			if out[i].Description == nil && msg.Description != nil {
				out[i].Description = msg.Description
			}
			continue
		}
		index[k] = len(out)
		out = append(out, msg)
	}
	return out
}
