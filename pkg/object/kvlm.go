package object

import (
	"bytes"
)

// MessageKey is the pseudo-key holding the free-form message section of a
// key-value-list-with-message payload.
const MessageKey = "message"

// KVLM is the "key-value list with message" layout shared by commit and
// tag payloads: an insertion-ordered multimap of header keys followed by
// a blank line and a free-form message. Header emission order and the
// order of repeated values (multiple parents) are observable, so a plain
// map cannot represent it.
type KVLM struct {
	pairs []kvPair
}

type kvPair struct {
	key    string
	values [][]byte
}

// Add appends a value under key, preserving insertion order of distinct
// keys and of repeated values for the same key.
func (k *KVLM) Add(key string, value []byte) {
	for i := range k.pairs {
		if k.pairs[i].key == key {
			k.pairs[i].values = append(k.pairs[i].values, value)
			return
		}
	}
	k.pairs = append(k.pairs, kvPair{key: key, values: [][]byte{value}})
}

// Set replaces all values of key with a single value, keeping the key's
// position if it already exists.
func (k *KVLM) Set(key string, value []byte) {
	for i := range k.pairs {
		if k.pairs[i].key == key {
			k.pairs[i].values = [][]byte{value}
			return
		}
	}
	k.pairs = append(k.pairs, kvPair{key: key, values: [][]byte{value}})
}

// Get returns all values recorded under key, in order.
func (k *KVLM) Get(key string) [][]byte {
	for i := range k.pairs {
		if k.pairs[i].key == key {
			return k.pairs[i].values
		}
	}
	return nil
}

// First returns the first value under key, or nil.
func (k *KVLM) First(key string) []byte {
	vs := k.Get(key)
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

// Keys returns the header keys in insertion order, excluding the message
// pseudo-key.
func (k *KVLM) Keys() []string {
	out := make([]string, 0, len(k.pairs))
	for _, p := range k.pairs {
		if p.key == MessageKey {
			continue
		}
		out = append(out, p.key)
	}
	return out
}

// Message returns the message section, or nil if none was recorded.
func (k *KVLM) Message() []byte {
	return k.First(MessageKey)
}

type kvlmState int

const (
	kvlmInit kvlmState = iota
	kvlmKey
	kvlmValue
	kvlmMessage
)

// ParseKVLM parses a key-value-list-with-message payload.
//
// Headers are "key SP value LF" lines; a newline followed by a space is a
// continuation, encoding a literal newline inside the value (multi-line
// values such as PGP/SSH signatures). A line-leading newline ends the
// header section; everything after it is the message, recorded verbatim
// under MessageKey.
func ParseKVLM(raw []byte) *KVLM {
	k := &KVLM{}
	state := kvlmInit

	var key, value, message bytes.Buffer

	for i := 0; i < len(raw); i++ {
		b := raw[i]
		switch state {
		case kvlmInit:
			if b == '\n' {
				state = kvlmMessage
			} else {
				state = kvlmKey
				key.WriteByte(b)
			}
		case kvlmKey:
			if b == ' ' {
				state = kvlmValue
			} else {
				key.WriteByte(b)
			}
		case kvlmValue:
			if b == '\n' {
				if i+1 < len(raw) && raw[i+1] == ' ' {
					// Continuation line: the space is consumed and the
					// newline becomes part of the value.
					value.WriteByte('\n')
					i++
				} else {
					k.Add(key.String(), append([]byte(nil), value.Bytes()...))
					key.Reset()
					value.Reset()
					state = kvlmInit
				}
			} else {
				value.WriteByte(b)
			}
		case kvlmMessage:
			message.WriteByte(b)
		}
	}

	k.Add(MessageKey, message.Bytes())
	return k
}

// Serialize is the exact inverse of ParseKVLM: headers in insertion
// order with embedded newlines re-encoded as "\n ", one blank line, then
// the raw message bytes. serialize(parse(x)) == x for well-formed input.
func (k *KVLM) Serialize() []byte {
	var buf bytes.Buffer

	for _, p := range k.pairs {
		if p.key == MessageKey {
			continue
		}
		for _, v := range p.values {
			buf.WriteString(p.key)
			buf.WriteByte(' ')
			for _, b := range v {
				buf.WriteByte(b)
				if b == '\n' {
					buf.WriteByte(' ')
				}
			}
			buf.WriteByte('\n')
		}
	}

	buf.WriteByte('\n')
	buf.Write(k.Message())
	return buf.Bytes()
}
