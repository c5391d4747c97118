package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// StartTag is <name attr...> or <name/>.
	StartTag
	EndTag
	// Text is character data between tags, entities still encoded.
	Text
	// Interpolation is {{ expr }}; Content holds the inner expression.
	Interpolation
	Comment
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Text:
		return "Text"
	case Interpolation:
		return "Interpolation"
	case Comment:
		return "Comment"
	}
	return "Invalid"
}
