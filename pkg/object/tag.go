package object

// Tag is a typed view over an annotated tag payload: a named pointer at
// another object plus tagger identity and a message. Lightweight tags
// are plain refs and never produce a Tag object.
type Tag struct {
	kvlm *KVLM
}

// NewTag assembles an annotated tag pointing at target of the given
// type.
func NewTag(target Hash, targetType ObjectType, name, tagger string, message []byte) *Tag {
	k := &KVLM{}
	k.Add("object", []byte(target))
	k.Add("type", []byte(targetType))
	k.Add("tag", []byte(name))
	k.Add("tagger", []byte(tagger))
	k.Add(MessageKey, message)
	return &Tag{kvlm: k}
}

// UnmarshalTag parses an annotated tag payload and validates its
// required headers.
func UnmarshalTag(data []byte) (*Tag, error) {
	k := ParseKVLM(data)
	for _, required := range []string{"object", "type", "tag", "tagger"} {
		if k.First(required) == nil {
			return nil, formatErrorf("tag missing %s header", required)
		}
	}
	return &Tag{kvlm: k}, nil
}

// Serialize returns the canonical tag payload.
func (t *Tag) Serialize() []byte {
	return t.kvlm.Serialize()
}

// Target returns the hash of the tagged object.
func (t *Tag) Target() Hash {
	return Hash(t.kvlm.First("object"))
}

// TargetType returns the declared type of the tagged object.
func (t *Tag) TargetType() ObjectType {
	return ObjectType(t.kvlm.First("type"))
}

// Name returns the tag name recorded in the payload.
func (t *Tag) Name() string {
	return string(t.kvlm.First("tag"))
}

// Tagger returns the tagger identity line.
func (t *Tag) Tagger() string {
	return string(t.kvlm.First("tagger"))
}

// Message returns the tag message verbatim.
func (t *Tag) Message() []byte {
	return t.kvlm.Message()
}
