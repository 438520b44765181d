package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident is a bare identifier: a constructor name or an unquoted symbol.
	Ident
	// String is a double-quoted literal produced by the rewriter.
	String
	// Int is a decimal integer literal (layer indices).
	Int
	LParen // (
	RParen // )
	Comma  // ,
)

var kindNames = [...]string{
	Invalid: "Invalid",
	EOF:     "EOF",
	Ident:   "Ident",
	String:  "String",
	Int:     "Int",
	LParen:  "LParen",
	RParen:  "RParen",
	Comma:   "Comma",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
