package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Извлечение таблицы
	ExtractNoTable           Code = 1001
	ExtractUnterminatedTable Code = 1002
	ExtractEmptyTable        Code = 1003

	// Лексические
	LexUnknownChar        Code = 2001
	LexUnterminatedString Code = 2002
	LexUnterminatedBlock  Code = 2003
	LexBadNumber          Code = 2004

	// Парсерные
	SynUnexpectedToken Code = 3001
	SynExpectRParen    Code = 3002
	SynExpectComma     Code = 3003
	SynExpectExpr      Code = 3004

	// Вычисление конструкторов
	EvalUnknownConstructor Code = 4001
	EvalArity              Code = 4002
	EvalBareIdent          Code = 4003
	EvalUnexpectedLayer    Code = 4004
	EvalBadArgument        Code = 4005
	EvalNotALayer          Code = 4006
	EvalNoLayers           Code = 4007
	EvalDuplicateLayer     Code = 4008

	// Отображение кодов клавиш
	KeyUnmapped      Code = 5001
	KeyUnmappedMedia Code = 5002
	KeyBadModTap     Code = 5003
	KeyUnknownMod    Code = 5004

	// Раскладка
	RenderShapeMismatch Code = 6001
	RenderUnknownLayer  Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	ExtractNoTable:           "No keymaps table found",
	ExtractUnterminatedTable: "Unterminated keymaps table",
	ExtractEmptyTable:        "Empty keymaps table",
	LexUnknownChar:           "Unknown character",
	LexUnterminatedString:    "Unterminated string",
	LexUnterminatedBlock:     "Unterminated block comment",
	LexBadNumber:             "Bad number literal",
	SynUnexpectedToken:       "Unexpected token",
	SynExpectRParen:          "Expected ')'",
	SynExpectComma:           "Expected ','",
	SynExpectExpr:            "Expected expression",
	EvalUnknownConstructor:   "Unknown constructor",
	EvalArity:                "Wrong number of arguments",
	EvalBareIdent:            "Unrecognized identifier",
	EvalUnexpectedLayer:      "Layer outside the top level",
	EvalBadArgument:          "Invalid argument",
	EvalNotALayer:            "Top-level entry is not a layer",
	EvalNoLayers:             "No layers in keymaps table",
	EvalDuplicateLayer:       "Duplicate layer",
	KeyUnmapped:              "Unmapped key code",
	KeyUnmappedMedia:         "Unmapped media key",
	KeyBadModTap:             "Invalid mod-tap key",
	KeyUnknownMod:            "Unknown modifier",
	RenderShapeMismatch:      "Layer does not fit the grid",
	RenderUnknownLayer:       "Unknown layer index",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("EXT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("KEY%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("REN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
